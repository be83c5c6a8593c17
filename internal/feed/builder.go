// Package feed assembles catalog entities into OPDS feed documents. It
// maps facet and book projections onto navigation and acquisition
// entries; serialization is left to the opds package.
package feed

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opdserve/opdserve/internal/calibre"
	"github.com/opdserve/opdserve/internal/opds"
	"github.com/opdserve/opdserve/internal/utils"
)

// RouteResolver turns route names and parameters into absolute URLs.
// Implemented at the HTTP boundary.
type RouteResolver interface {
	RouteURL(route string, params map[string]string) string
	ImageURL(name string) string
}

// Builder accumulates one feed document for a single request.
type Builder struct {
	routes RouteResolver
	feed   *opds.Feed
}

// NewBuilder starts a document for the given self route. Every document
// gets the four boilerplate links: start, search descriptor, self, and up
// when upRoute is non-empty.
func NewBuilder(app opds.App, routes RouteResolver, selfRoute string, selfParams map[string]string, title, upRoute string, upParams map[string]string) *Builder {
	b := &Builder{
		routes: routes,
		feed:   opds.NewFeed(app, documentID(selfRoute, selfParams), title, routes.ImageURL("icon.ico")),
	}
	b.feed.AddLink(b.routeLink(opds.RelStart, "", "index", nil))
	b.feed.AddLink(b.routeLink(opds.RelSearch, opds.MimeTypeOpenSearch, "search_xml", nil))
	b.feed.AddLink(b.routeLink(opds.RelSelf, "", selfRoute, selfParams))
	if upRoute != "" {
		b.feed.AddLink(b.routeLink(opds.RelUp, "", upRoute, upParams))
	}
	return b
}

// documentID builds a stable identity from the route name and its
// non-internal parameters. Keys are sorted so the same logical resource
// always gets the same id.
func documentID(route string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if strings.HasPrefix(k, "_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	id := route
	for _, k := range keys {
		id += ":" + k + "=" + params[k]
	}
	return id
}

func (b *Builder) routeLink(rel, mimeType, route string, params map[string]string) opds.Link {
	if mimeType == "" {
		mimeType = opds.MimeTypeAtom
	}
	return opds.Link{Rel: rel, Href: b.routes.RouteURL(route, params), Type: mimeType}
}

// AddSubsectionEntry appends a navigation entry leading to a fixed
// top-level category route with no parameters.
func (b *Builder) AddSubsectionEntry(id, route, title, summary string) *Builder {
	entry := opds.NewEntry(id, title, summary)
	entry.AddLink(b.routeLink(opds.RelSubsection, "", route, nil))
	b.feed.AddEntry(entry)
	return b
}

// AddNavigationEntry appends an entry for one facet value. Author
// prefixes lead to the filtered author listing; every other facet leads
// to the book listing filtered by its criterion. Language facets must be
// wrapped in LocalizedLanguage before being added.
func (b *Builder) AddNavigationEntry(facet calibre.Facet) error {
	var route string
	var params map[string]string
	var summary string
	if prefix, ok := facet.(calibre.AuthorPrefix); ok {
		route = "authors"
		params = map[string]string{"prefix": prefix.Prefix}
		summary = fmt.Sprintf("Authors: %d", prefix.Count)
	} else {
		criterion := facet.BookCriterion()
		if criterion == calibre.CriterionNone {
			return fmt.Errorf("invalid navigation entry of type %T", facet)
		}
		route = "books"
		params = map[string]string{"criterion": string(criterion), "id": facet.FacetID()}
		summary = fmt.Sprintf("Books: %d", facet.BookCount())
	}
	entry := opds.NewEntry(facet.URIPrefix()+":"+facet.FacetID(), facet.FacetName(), summary)
	entry.AddLink(b.routeLink(opds.RelSubsection, "", route, params))
	b.feed.AddEntry(entry)
	return nil
}

// AddBookEntry appends a full acquisition entry for one book.
func (b *Builder) AddBookEntry(book *calibre.Book) *Builder {
	entry := opds.NewEntry(fmt.Sprintf("book:%d", book.ID), book.Title, book.Comment)
	entry.Updated = book.LastModified
	if book.PubDate != nil {
		entry.AddAttribute(opds.TimeAttribute("dc", "issued", *book.PubDate))
	}
	if book.Timestamp != nil {
		entry.AddAttribute(opds.TimeAttribute("", "published", *book.Timestamp))
	}
	if book.UUID != "" {
		entry.AddAttribute(opds.Attribute{NS: "dc", Tag: "identifier", Value: "urn:uuid:" + book.UUID})
	}
	for _, ident := range book.Identifiers {
		value := ident.Value
		if !isLiteralIdentifier(ident.Type) {
			value = "urn:" + ident.Type + ":" + ident.Value
		}
		entry.AddAttribute(opds.Attribute{NS: "dc", Tag: "identifier", Value: value})
	}
	for _, author := range book.Authors {
		entry.AddAuthor(opds.Author{Name: author.Name, URI: author.URI})
	}
	for _, publisher := range book.Publishers {
		entry.AddAttribute(opds.Attribute{NS: "dc", Tag: "publisher", Value: publisher.Name})
	}
	for _, lang := range book.Languages {
		entry.AddAttribute(opds.Attribute{NS: "dc", Tag: "language", Value: lang.Code})
	}
	for _, series := range book.Series {
		seriesURL := b.routes.RouteURL("books", map[string]string{
			"criterion": string(calibre.CriterionSeries),
			"id":        series.FacetID(),
		})
		entry.AddAttribute(opds.Attribute{NS: "dc", Tag: "isPartOf", Value: seriesURL})
	}
	for _, tag := range book.Tags {
		entry.AddCategory(opds.Category{Term: tag.Name})
	}
	if book.HasCover {
		entry.AddLink(b.routeLink(opds.RelImage, utils.MimeType("jpg"), "book_cover",
			map[string]string{"id": fmt.Sprint(book.ID)}))
	}
	for _, format := range book.Formats {
		entry.AddLink(b.routeLink(opds.RelAcquisition, utils.MimeType(format.Format), "book_data",
			map[string]string{"id": fmt.Sprint(book.ID), "type": format.Format}))
	}
	b.feed.AddEntry(entry)
	return b
}

// Feed returns the accumulated document.
func (b *Builder) Feed() *opds.Feed {
	return b.feed
}

func isLiteralIdentifier(identType string) bool {
	for _, t := range opds.LiteralIdentifierTypes {
		if identType == t {
			return true
		}
	}
	return false
}
