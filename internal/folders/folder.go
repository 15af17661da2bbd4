package folders

import "fmt"

// Folder is a protocol-neutral mailbox record. The role, icon and label are
// derived once at construction and never change afterwards; classification
// is a pure function of (name, flags), so re-building the same record always
// yields the same derived values.
type Folder struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"display_name"`
	MessageCount int      `json:"message_count"`
	SizeBytes    int64    `json:"size_bytes"`
	Flags        []string `json:"flags,omitempty"`
	Delimiter    string   `json:"delimiter,omitempty"`
	Protocol     string   `json:"protocol,omitempty"`

	Role Role   `json:"role,omitempty"`
	Icon string `json:"icon"`
}

// New builds a folder record and computes its derived classification.
func New(name, displayName string, messageCount int, sizeBytes int64, flags []string, delimiter string) *Folder {
	role := Classify(name, flags)
	return &Folder{
		Name:         name,
		DisplayName:  displayName,
		MessageCount: messageCount,
		SizeBytes:    sizeBytes,
		Flags:        flags,
		Delimiter:    delimiter,
		Role:         role,
		Icon:         IconFor(role),
	}
}

// IsSystem reports whether the folder carries a canonical role.
func (f *Folder) IsSystem() bool {
	return f.Role != RoleNone
}

// LocalizedLabel returns the display label for the folder: the fixed Polish
// label for system folders, the translated (or raw) display name otherwise.
func (f *Folder) LocalizedLabel(tr Translator) string {
	if f.Role != RoleNone {
		return LabelFor(f.Role)
	}
	if tr != nil {
		return tr.Translate(f.DisplayName, f.Protocol)
	}
	return f.DisplayName
}

// FormatSize renders the folder size in human-readable form: "0 B",
// integral bytes below 1 KiB, one decimal place from KB upward.
func (f *Folder) FormatSize() string {
	return FormatSize(f.SizeBytes)
}

// FormatSize formats a byte count with binary unit steps.
func FormatSize(n int64) string {
	if n == 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB", "TB"}
	size := float64(n)
	idx := 0
	for size >= 1024.0 && idx < len(units)-1 {
		size /= 1024.0
		idx++
	}

	if idx == 0 {
		return fmt.Sprintf("%d %s", int64(size), units[idx])
	}
	return fmt.Sprintf("%.1f %s", size, units[idx])
}
