package folders

import "strings"

// Role identifies the canonical purpose of a mailbox folder, independent of
// the protocol-native name the server reports for it.
type Role string

const (
	RoleInbox   Role = "inbox"
	RoleSent    Role = "sent"
	RoleDrafts  Role = "drafts"
	RoleTrash   Role = "trash"
	RoleSpam    Role = "spam"
	RoleArchive Role = "archive"
	RoleOutbox  Role = "outbox"
	RoleNone    Role = ""
)

// Name sets used for name-based detection. Servers disagree wildly on folder
// naming (English, Polish, Exchange-style, IMAP-style), so each role accepts
// a small set of known basenames alongside its RFC 6154 SPECIAL-USE flag.
var (
	inboxNames   = nameSet("ODEBRANE", "PRZYCHODZĄCE")
	sentNames    = nameSet("WYSLANE", "WYSŁANE", "SENT ITEMS", "SENT")
	draftsNames  = nameSet("DRAFT", "DRAFTS", "SZKICE", "ROBOCZE")
	trashNames   = nameSet("TRASH", "DELETED ITEMS", "DELETED", "KOSZ", "ŚMIECI")
	spamNames    = nameSet("SPAM", "JUNK", "JUNK EMAIL")
	archiveNames = nameSet("ARCHIVE", "ARCHIWUM")
	outboxNames  = nameSet("OUTBOX", "SKRZYNKA NADAWCZA")
)

// Classify determines the canonical role of a folder from its full
// protocol-native name and protocol-reported flags.
//
// Detection is ordered and the first match wins: some name fragments overlap
// between roles ("Archive" vs "Archiwum"), so the precedence
// inbox → sent → drafts → trash → spam → archive → outbox is fixed.
// Each test accepts a SPECIAL-USE flag token, the canonical full name, or a
// known English/Polish basename. Unrecognized input yields RoleNone; the
// function is pure and never fails.
func Classify(name string, flags []string) Role {
	flagStr := strings.ToUpper(strings.Join(flags, " "))
	nameUpper := strings.ToUpper(name)
	basename := folderBasename(nameUpper)

	switch {
	case strings.Contains(flagStr, `\INBOX`) || nameUpper == "INBOX" || inboxNames[basename]:
		return RoleInbox
	case strings.Contains(flagStr, `\SENT`) || sentNames[basename]:
		return RoleSent
	case strings.Contains(flagStr, `\DRAFTS`) || draftsNames[basename]:
		return RoleDrafts
	case strings.Contains(flagStr, `\TRASH`) || trashNames[basename]:
		return RoleTrash
	case strings.Contains(flagStr, `\JUNK`) || spamNames[basename]:
		return RoleSpam
	case strings.Contains(flagStr, `\ARCHIVE`) || archiveNames[basename]:
		return RoleArchive
	case outboxNames[basename]:
		return RoleOutbox
	}

	return RoleNone
}

// folderBasename extracts the final segment of a folder path so that
// hierarchical names classify by their leaf, e.g.
// "recepcja@woox.pl/Odebrane" → "ODEBRANE". Both path-style ("/") and dotted
// Exchange-style full names are handled.
func folderBasename(nameUpper string) string {
	parts := strings.Split(nameUpper, "/")
	last := parts[len(parts)-1]
	dotted := strings.Split(last, ".")
	return dotted[len(dotted)-1]
}

// IconFor returns the display glyph for a folder role.
func IconFor(role Role) string {
	switch role {
	case RoleInbox:
		return "📥"
	case RoleSent:
		return "📤"
	case RoleDrafts:
		return "📝"
	case RoleTrash:
		return "🗑️"
	case RoleSpam:
		return "⚠️"
	case RoleArchive:
		return "📦"
	case RoleOutbox:
		return "📮"
	default:
		return "📁"
	}
}

// LabelFor returns the Polish display label for a system folder role.
// RoleNone has no fixed label; callers fall back to the folder's own
// display name (optionally through a Translator).
func LabelFor(role Role) string {
	switch role {
	case RoleInbox:
		return "Odebrane"
	case RoleSent:
		return "Wysłane"
	case RoleDrafts:
		return "Szkice"
	case RoleTrash:
		return "Kosz"
	case RoleSpam:
		return "Spam"
	case RoleArchive:
		return "Archiwum"
	case RoleOutbox:
		return "Skrzynka nadawcza"
	default:
		return ""
	}
}

// Translator resolves a raw folder name to a display name for custom
// folders. Implementations are protocol-aware; the core only injects them.
type Translator interface {
	Translate(rawName, protocol string) string
}

func nameSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
