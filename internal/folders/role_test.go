package folders

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		folder  string
		flags   []string
		want    Role
	}{
		{"inbox flag", "CustomInbox", []string{`\Inbox`}, RoleInbox},
		{"inbox canonical name", "INBOX", nil, RoleInbox},
		{"inbox polish name", "Odebrane", nil, RoleInbox},
		{"inbox polish alt name", "Przychodzące", nil, RoleInbox},
		{"inbox hierarchical path", "recepcja@woox.pl/Odebrane", nil, RoleInbox},
		{"inbox deep path", "email@domain.com/subfolder/Odebrane", nil, RoleInbox},
		{"inbox dotted exchange path", "user@host.Odebrane", nil, RoleInbox},
		{"sent flag", "Posted", []string{`\Sent`}, RoleSent},
		{"sent items", "Sent Items", nil, RoleSent},
		{"sent plain", "Sent", nil, RoleSent},
		{"sent polish", "Wysłane", nil, RoleSent},
		{"sent polish ascii", "Wyslane", nil, RoleSent},
		{"drafts flag", "Robocze2", []string{`\Drafts`}, RoleDrafts},
		{"drafts english", "Drafts", nil, RoleDrafts},
		{"drafts polish", "Szkice", nil, RoleDrafts},
		{"trash flag", "Bin", []string{`\Trash`}, RoleTrash},
		{"trash deleted items", "Deleted Items", nil, RoleTrash},
		{"trash polish", "Kosz", nil, RoleTrash},
		{"spam flag", "Bulk", []string{`\Junk`}, RoleSpam},
		{"spam english", "Spam", nil, RoleSpam},
		{"spam junk", "Junk", nil, RoleSpam},
		{"spam junk email", "Junk Email", nil, RoleSpam},
		{"archive flag", "Stare", []string{`\Archive`}, RoleArchive},
		{"archive english", "Archive", nil, RoleArchive},
		{"archive polish", "Archiwum", nil, RoleArchive},
		{"outbox english", "Outbox", nil, RoleOutbox},
		{"outbox polish", "Skrzynka nadawcza", nil, RoleOutbox},
		{"custom folder", "Projects", nil, RoleNone},
		{"custom nested folder", "Projects/2024", nil, RoleNone},
		{"empty name", "", nil, RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.folder, tt.flags)
			if got != tt.want {
				t.Errorf("Classify(%q, %v) = %q, want %q", tt.folder, tt.flags, got, tt.want)
			}
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	for _, name := range []string{"inbox", "INBOX", "InBox"} {
		if got := Classify(name, nil); got != RoleInbox {
			t.Errorf("Classify(%q) = %q, want %q", name, got, RoleInbox)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	cases := []struct {
		name  string
		flags []string
	}{
		{"INBOX", nil},
		{"Sent Items", []string{`\Sent`}},
		{"Projects/Invoices", nil},
		{"Archiwum", nil},
	}
	for _, c := range cases {
		first := Classify(c.name, c.flags)
		second := Classify(c.name, c.flags)
		if first != second {
			t.Errorf("Classify(%q, %v) not deterministic: %q vs %q", c.name, c.flags, first, second)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	// A sent flag on a folder whose basename looks like an archive must
	// still classify as sent: flag tests run in fixed precedence order.
	if got := Classify("Archiwum", []string{`\Sent`}); got != RoleSent {
		t.Errorf("flag precedence broken: got %q, want %q", got, RoleSent)
	}
}

func TestIconAndLabel(t *testing.T) {
	tests := []struct {
		role  Role
		icon  string
		label string
	}{
		{RoleInbox, "📥", "Odebrane"},
		{RoleSent, "📤", "Wysłane"},
		{RoleDrafts, "📝", "Szkice"},
		{RoleTrash, "🗑️", "Kosz"},
		{RoleSpam, "⚠️", "Spam"},
		{RoleArchive, "📦", "Archiwum"},
		{RoleOutbox, "📮", "Skrzynka nadawcza"},
		{RoleNone, "📁", ""},
	}

	for _, tt := range tests {
		if got := IconFor(tt.role); got != tt.icon {
			t.Errorf("IconFor(%q) = %q, want %q", tt.role, got, tt.icon)
		}
		if got := LabelFor(tt.role); got != tt.label {
			t.Errorf("LabelFor(%q) = %q, want %q", tt.role, got, tt.label)
		}
	}
}
