// Package locale resolves ISO-639 language codes to human-readable names.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Namer resolves language codes against a preferred display locale.
type Namer struct {
	namer display.Namer
}

// NewNamer creates a resolver for the given display locale (for example
// "en" or "de"). An unparseable locale falls back to English.
func NewNamer(displayLocale string) *Namer {
	tag, err := language.Parse(displayLocale)
	if err != nil {
		tag = language.English
	}
	return &Namer{namer: display.Tags(tag)}
}

// Name returns the display name for an ISO-639 code, or the synthesized
// placeholder @<code> when the code cannot be resolved.
func (n *Namer) Name(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return "@" + code
	}
	if name := n.namer.Name(tag); name != "" {
		return name
	}
	return "@" + code
}
