package opds

import (
	"encoding/xml"
	"time"
)

// Atom and extension namespaces declared on every feed. The opds
// namespace is reserved for future catalog extensions.
const (
	nsAtom = "http://www.w3.org/2005/Atom"
	nsDC   = "http://purl.org/dc/terms/"
	nsOPDS = "http://opds-spec.org/2010/catalog"
)

// idPrefix namespaces document and entry ids globally.
const idPrefix = "opds:"

type xmlLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

type xmlAuthor struct {
	Name  string `xml:"name"`
	URI   string `xml:"uri,omitempty"`
	Email string `xml:"email,omitempty"`
}

type xmlCategory struct {
	Term   string `xml:"term,attr"`
	Schema string `xml:"schema,attr,omitempty"`
	Label  string `xml:"label,attr,omitempty"`
}

// xmlAttribute carries its own element name so heterogeneous extension
// elements keep their insertion order within one slice.
type xmlAttribute struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlContent struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type xmlGenerator struct {
	URI     string `xml:"uri,attr"`
	Version string `xml:"version,attr"`
	Value   string `xml:",chardata"`
}

// Field order fixes the element order per entry: id, title, updated,
// authors, categories, extension attributes, links, content.
type xmlEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Updated    string         `xml:"updated"`
	Authors    []xmlAuthor    `xml:"author"`
	Categories []xmlCategory  `xml:"category"`
	Attributes []xmlAttribute
	Links      []xmlLink      `xml:"link"`
	Content    *xmlContent    `xml:"content,omitempty"`
}

type xmlFeed struct {
	XMLName   xml.Name     `xml:"feed"`
	Xmlns     string       `xml:"xmlns,attr"`
	XmlnsDC   string       `xml:"xmlns:dc,attr"`
	XmlnsOPDS string       `xml:"xmlns:opds,attr"`
	ID        string       `xml:"id"`
	Links     []xmlLink    `xml:"link"`
	Title     string       `xml:"title"`
	Updated   string       `xml:"updated"`
	Author    xmlAuthor    `xml:"author"`
	Generator xmlGenerator `xml:"generator"`
	Icon      string       `xml:"icon,omitempty"`
	Entries   []xmlEntry   `xml:"entry"`
}

func renderLinks(links []Link) []xmlLink {
	out := make([]xmlLink, 0, len(links))
	for _, l := range links {
		out = append(out, xmlLink{Rel: l.Rel, Href: l.Href, Type: l.Type})
	}
	return out
}

func renderAttribute(a Attribute) xmlAttribute {
	name := a.Tag
	if a.NS != "" {
		name = a.NS + ":" + a.Tag
	}
	return xmlAttribute{XMLName: xml.Name{Local: name}, Value: a.Value}
}

func renderEntry(e *Entry, feedUpdated time.Time) xmlEntry {
	updated := feedUpdated
	if e.Updated != nil {
		updated = *e.Updated
	}
	out := xmlEntry{
		ID:      idPrefix + e.ID,
		Title:   e.Title,
		Updated: updated.Format(time.RFC3339),
		Links:   renderLinks(e.Links),
	}
	for _, a := range e.Authors {
		out.Authors = append(out.Authors, xmlAuthor{Name: a.Name, URI: a.URI, Email: a.Email})
	}
	for _, c := range e.Categories {
		out.Categories = append(out.Categories, xmlCategory{Term: c.Term, Schema: c.Schema, Label: c.Label})
	}
	for _, a := range e.Attributes {
		out.Attributes = append(out.Attributes, renderAttribute(a))
	}
	if e.Summary != "" {
		out.Content = &xmlContent{Type: "html", Value: e.Summary}
	}
	return out
}

// Render serializes the feed to the Atom-profile XML document.
func (f *Feed) Render() ([]byte, error) {
	doc := xmlFeed{
		Xmlns:     nsAtom,
		XmlnsDC:   nsDC,
		XmlnsOPDS: nsOPDS,
		ID:        idPrefix + f.ID,
		Links:     renderLinks(f.Links),
		Title:     f.Title,
		Updated:   f.Updated.Format(time.RFC3339),
		Author:    xmlAuthor{Name: f.App.Name, URI: f.App.Website},
		Generator: xmlGenerator{URI: f.App.Website, Version: f.App.Version, Value: f.App.Name},
		Icon:      f.Icon,
	}
	for _, e := range f.Entries {
		doc.Entries = append(doc.Entries, renderEntry(e, f.Updated))
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
