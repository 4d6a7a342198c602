package submissions

import (
	"path/filepath"
	"strings"
)

// maxFilenameLen caps sanitized asset filenames.
const maxFilenameLen = 100

// splitList splits a comma-separated field into a set-like list, trimming
// entries, dropping empties, and removing duplicates while keeping first
// occurrence order.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}

// splitLines splits a newline-separated field into an ordered list, trimming
// entries and dropping empty lines.
func splitLines(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// SanitizeFilename restricts a filename to [A-Za-z0-9._-], replacing every
// other rune with an underscore and capping the length. Path separators are
// stripped first so an upload can never escape its asset name.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	out = strings.Trim(out, ".")
	if len(out) > maxFilenameLen {
		// Keep the extension when truncating.
		ext := filepath.Ext(out)
		if len(ext) < maxFilenameLen {
			out = out[:maxFilenameLen-len(ext)] + ext
		} else {
			out = out[:maxFilenameLen]
		}
	}
	if out == "" {
		return "file"
	}
	return out
}

// fileTypes classifies uploads by extension for the asset record.
var fileTypes = map[string]string{
	".zip":  "Archive",
	".rar":  "Archive",
	".7z":   "Archive",
	".gz":   "Archive",
	".pdf":  "Document",
	".txt":  "Text",
	".md":   "Text",
	".jpg":  "Image",
	".jpeg": "Image",
	".png":  "Image",
	".gif":  "Image",
	".webp": "Image",
	".ini":  "Config",
	".cfg":  "Config",
	".json": "Config",
	".lut":  "Data",
	".csv":  "Data",
}

// ClassifyFile returns the asset type for a filename, defaulting to "File"
// for unknown extensions.
func ClassifyFile(name string) string {
	if t, ok := fileTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return "File"
}
