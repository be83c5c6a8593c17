package feed

import "github.com/opdserve/opdserve/internal/calibre"

// LocalizedLanguage pairs the immutable Language entity with a display
// name resolved by the locale-name collaborator. Language entities must
// be wrapped before being passed to AddNavigationEntry so feeds show
// "English" rather than "eng".
type LocalizedLanguage struct {
	calibre.Language
	Name string
}

func (l LocalizedLanguage) FacetName() string { return l.Name }
