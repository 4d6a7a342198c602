package router

import "testing"

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		origin   string
		want     bool
	}{
		{"exact match", []string{"https://mods.example.com"}, "https://mods.example.com", true},
		{"exact match case insensitive", []string{"https://Mods.Example.com"}, "https://mods.example.com", true},
		{"exact mismatch", []string{"https://mods.example.com"}, "https://evil.example.com", false},
		{"wildcard any", []string{"*"}, "https://anywhere.test", true},
		{"wildcard subdomain", []string{"*.example.com"}, "https://mods.example.com", true},
		{"wildcard deep subdomain", []string{"*.example.com"}, "https://a.b.example.com", true},
		{"wildcard matches apex", []string{"*.example.com"}, "https://example.com", true},
		{"wildcard rejects lookalike", []string{"*.example.com"}, "https://notexample.com", false},
		{"wildcard rejects suffix trick", []string{"*.example.com"}, "https://example.com.evil.net", false},
		{"empty list rejects all", nil, "https://mods.example.com", false},
		{"second pattern matches", []string{"https://a.test", "*.example.com"}, "https://b.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OriginAllowed(tt.patterns, tt.origin); got != tt.want {
				t.Errorf("OriginAllowed(%v, %q): got %v, want %v", tt.patterns, tt.origin, got, tt.want)
			}
		})
	}
}
