package submissions

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "a, b, c", []string{"a", "b", "c"}},
		{"empty entries dropped", "a,,b, ,c,", []string{"a", "b", "c"}},
		{"duplicates removed", "GTR2, GTL, GTR2", []string{"GTR2", "GTL"}},
		{"blank input", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"ordered", "step one\nstep two\nstep three", []string{"step one", "step two", "step three"}},
		{"empty lines dropped", "a\n\n  \nb\n", []string{"a", "b"}},
		{"windows line endings", "a\r\nb", []string{"a", "b"}},
		{"blank input", "\n\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitLines(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean name unchanged", "my_car-v1.2.zip", "my_car-v1.2.zip"},
		{"spaces and odd runes replaced", "my car (final).zip", "my_car__final_.zip"},
		{"path traversal stripped", "../../etc/passwd", "passwd"},
		{"backslash path stripped", `C:\mods\car.zip`, "car.zip"},
		{"unicode replaced", "tölvuleikur.zip", "t_lvuleikur.zip"},
		{"empty becomes file", "", "file"},
		{"dots only becomes file", "...", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("length capped with extension kept", func(t *testing.T) {
		long := strings.Repeat("a", 200) + ".zip"
		got := SanitizeFilename(long)
		if len(got) > maxFilenameLen {
			t.Errorf("length: got %d, want <= %d", len(got), maxFilenameLen)
		}
		if !strings.HasSuffix(got, ".zip") {
			t.Errorf("extension lost: got %q", got)
		}
	})
}

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"car.zip", "Archive"},
		{"CAR.ZIP", "Archive"},
		{"readme.txt", "Text"},
		{"preview.png", "Image"},
		{"setup.ini", "Config"},
		{"telemetry.csv", "Data"},
		{"unknown.xyz", "File"},
		{"noextension", "File"},
	}

	for _, tt := range tests {
		if got := ClassifyFile(tt.in); got != tt.want {
			t.Errorf("ClassifyFile(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
