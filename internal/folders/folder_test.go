package folders

import (
	"strings"
	"testing"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want string
	}{
		{"zero", 0, "0 B"},
		{"bytes", 512, "512 B"},
		{"kilobytes", 1024 * 150, "150.0 KB"},
		{"just below a megabyte", 1024*1024 - 1, "1024.0 KB"},
		{"megabytes", 1024 * 1024 * 3, "3.0 MB"},
		{"gigabytes", 1024 * 1024 * 1024 * 2, "2.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSize(tt.size); got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.size, got, tt.want)
			}
		})
	}
}

func TestFormatSizeFractional(t *testing.T) {
	mb := float64(1024 * 1024)
	got := FormatSize(int64(mb * 48.8))
	if !strings.HasPrefix(got, "48.") || !strings.HasSuffix(got, " MB") {
		t.Errorf("FormatSize(48.8 MB) = %q, want 48.x MB", got)
	}

	gb := float64(1024 * 1024 * 1024)
	got = FormatSize(int64(gb * 6.1))
	if !strings.HasPrefix(got, "6.") || !strings.HasSuffix(got, " GB") {
		t.Errorf("FormatSize(6.1 GB) = %q, want 6.x GB", got)
	}
}

func TestNewDerivesClassification(t *testing.T) {
	f := New("Sent Items", "Sent Items", 10, 2048, nil, "/")
	if f.Role != RoleSent {
		t.Errorf("Role = %q, want %q", f.Role, RoleSent)
	}
	if f.Icon != "📤" {
		t.Errorf("Icon = %q, want 📤", f.Icon)
	}
	if !f.IsSystem() {
		t.Error("IsSystem() = false for a sent folder")
	}
	if got := f.LocalizedLabel(nil); got != "Wysłane" {
		t.Errorf("LocalizedLabel = %q, want Wysłane", got)
	}
}

type suffixTranslator struct{}

func (suffixTranslator) Translate(rawName, protocol string) string {
	return rawName + " (" + protocol + ")"
}

func TestLocalizedLabelCustomFolder(t *testing.T) {
	f := New("Projects", "Projects", 0, 0, nil, "/")
	f.Protocol = "imap"

	if got := f.LocalizedLabel(nil); got != "Projects" {
		t.Errorf("LocalizedLabel(nil) = %q, want raw display name", got)
	}
	if got := f.LocalizedLabel(suffixTranslator{}); got != "Projects (imap)" {
		t.Errorf("LocalizedLabel(translator) = %q, want translated name", got)
	}
}
