package folders

import "strings"

// Exchange exposes a handful of well-known non-mail folders in English even
// on Polish mailboxes; the classifier does not touch them, so their display
// names are translated here instead.
var polishNames = map[string]string{
	"CALENDAR": "Kalendarz",
	"CONTACTS": "Kontakty",
	"JOURNAL":  "Dziennik",
	"NOTES":    "Notatki",
	"TASKS":    "Zadania",
}

// PolishTranslator translates well-known custom folder names to their Polish
// display form and leaves everything else untouched.
type PolishTranslator struct{}

// Translate implements Translator.
func (PolishTranslator) Translate(rawName, protocol string) string {
	if translated, ok := polishNames[strings.ToUpper(rawName)]; ok {
		return translated
	}
	return rawName
}
