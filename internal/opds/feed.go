// Package opds holds the hypermedia document model for OPDS catalog
// feeds and renders it to the Atom-profile XML wire format.
package opds

import "time"

// MIME types served by the catalog.
const (
	MimeTypeAtom       = "application/atom+xml;profile=opds-catalog"
	MimeTypeOpenSearch = "application/opensearchdescription+xml"
)

// Link relations used by the catalog.
const (
	RelStart       = "start"
	RelSearch      = "search"
	RelSelf        = "self"
	RelUp          = "up"
	RelSubsection  = "subsection"
	RelImage       = "http://opds-spec.org/image"
	RelAcquisition = "http://opds-spec.org/acquisition"
)

// LiteralIdentifierTypes are identifier types whose values are emitted
// raw; every other type is synthesized as urn:<type>:<value>.
var LiteralIdentifierTypes = []string{"uri", "urn", "epubbud"}

// App carries the hosting application attributes written into every feed.
type App struct {
	ID      string
	Name    string
	Version string
	Website string
}

// Link is a typed relation to another resource.
type Link struct {
	Rel  string
	Href string
	Type string
}

// Author is an Atom author or contributor.
type Author struct {
	Name  string
	URI   string
	Email string
}

// Category is an Atom category, used for book tags.
type Category struct {
	Term   string
	Schema string
	Label  string
}

// Attribute is a typed extension element on an entry, such as dc:issued
// or published. NS is the namespace prefix, empty for the Atom namespace.
type Attribute struct {
	NS    string
	Tag   string
	Value string
}

// TimeAttribute builds an Attribute whose value is a timestamp in the
// feed's fixed rendering profile.
func TimeAttribute(ns, tag string, t time.Time) Attribute {
	return Attribute{NS: ns, Tag: tag, Value: t.Format(time.RFC3339)}
}

// Entry is a single feed entry: a navigation target or a book.
type Entry struct {
	ID      string
	Title   string
	Summary string
	// Updated defaults to the owning feed's updated time at render time.
	Updated    *time.Time
	Authors    []Author
	Categories []Category
	Attributes []Attribute
	Links      []Link
}

// NewEntry constructs an entry with the given identity, title, and
// optional summary.
func NewEntry(id, title, summary string) *Entry {
	return &Entry{ID: id, Title: title, Summary: summary}
}

func (e *Entry) AddAuthor(a Author) *Entry {
	e.Authors = append(e.Authors, a)
	return e
}

func (e *Entry) AddCategory(c Category) *Entry {
	e.Categories = append(e.Categories, c)
	return e
}

func (e *Entry) AddAttribute(a Attribute) *Entry {
	e.Attributes = append(e.Attributes, a)
	return e
}

func (e *Entry) AddLink(l Link) *Entry {
	e.Links = append(e.Links, l)
	return e
}

// Feed is the accumulated document model, independent of the wire
// serialization.
type Feed struct {
	App     App
	ID      string // logical id; namespaced with the catalog prefix at render time
	Title   string
	Icon    string
	Updated time.Time
	Links   []Link
	Entries []*Entry
}

// NewFeed constructs a feed stamped with the current time.
func NewFeed(app App, id, title, icon string) *Feed {
	return &Feed{App: app, ID: id, Title: title, Icon: icon, Updated: time.Now()}
}

func (f *Feed) AddLink(l Link) *Feed {
	f.Links = append(f.Links, l)
	return f
}

func (f *Feed) AddEntry(e *Entry) *Feed {
	f.Entries = append(f.Entries, e)
	return f
}
