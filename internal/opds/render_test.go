package opds

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testApp = App{
	ID:      "test",
	Name:    "opdserve",
	Version: "1.2.0",
	Website: "https://example.com",
}

func TestFeedRender(t *testing.T) {
	feed := NewFeed(testApp, "index", "OPDS Library", "/icon.png")
	feed.Updated = time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	feed.AddLink(Link{Rel: RelSelf, Href: "/opds/", Type: MimeTypeAtom})
	feed.AddEntry(NewEntry("authors", "Authors", "Books by author"))

	body, err := feed.Render()
	require.NoError(t, err)
	out := string(body)

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `xmlns="http://www.w3.org/2005/Atom"`)
	assert.Contains(t, out, `xmlns:dc="http://purl.org/dc/terms/"`)
	assert.Contains(t, out, "<id>opds:index</id>")
	assert.Contains(t, out, "<title>OPDS Library</title>")
	assert.Contains(t, out, "<updated>2023-05-01T12:00:00Z</updated>")
	assert.Contains(t, out, `<link rel="self" href="/opds/" type="application/atom+xml;profile=opds-catalog">`)
	assert.Contains(t, out, "<icon>/icon.png</icon>")
	assert.Contains(t, out, "<id>opds:authors</id>")
	assert.Contains(t, out, `version="1.2.0"`)
}

func TestRenderEntry_UpdatedFallsBackToFeed(t *testing.T) {
	feedUpdated := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	entryUpdated := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)

	plain := renderEntry(NewEntry("a", "A", ""), feedUpdated)
	assert.Equal(t, "2023-05-01T12:00:00Z", plain.Updated)

	stamped := NewEntry("b", "B", "")
	stamped.Updated = &entryUpdated
	assert.Equal(t, "2022-01-02T03:04:05Z", renderEntry(stamped, feedUpdated).Updated)
}

func TestRenderEntry_BookShape(t *testing.T) {
	entry := NewEntry("book:1", "Alpha Forge", "A tale of <b>iron</b>")
	entry.AddAuthor(Author{Name: "John Doe"})
	entry.AddCategory(Category{Term: "fantasy", Label: "fantasy"})
	entry.AddAttribute(TimeAttribute("dc", "issued", time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)))
	entry.AddLink(Link{Rel: RelAcquisition, Href: "/opds/data/1/epub", Type: "application/epub+zip"})

	feed := NewFeed(testApp, "books", "All books", "")
	feed.AddEntry(entry)
	body, err := feed.Render()
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, "<id>opds:book:1</id>")
	assert.Contains(t, out, "<name>John Doe</name>")
	assert.Contains(t, out, `term="fantasy"`)
	assert.Contains(t, out, "<dc:issued>2020-05-01T00:00:00Z</dc:issued>")
	assert.Contains(t, out, `rel="http://opds-spec.org/acquisition"`)
	// Summaries carry markup, so they are emitted as escaped html content.
	assert.Contains(t, out, `<content type="html">A tale of &lt;b&gt;iron&lt;/b&gt;</content>`)
}

func TestRenderEntry_NoSummaryNoContent(t *testing.T) {
	feed := NewFeed(testApp, "f", "F", "")
	feed.AddEntry(NewEntry("e", "E", ""))
	body, err := feed.Render()
	require.NoError(t, err)
	assert.NotContains(t, string(body), "<content")
}

func TestOpenSearchRender(t *testing.T) {
	desc := OpenSearchDescription{
		ShortName:   "Search",
		LongName:    "Search books",
		Description: "Search books with matching titles, authors, series, or tags.",
		Template:    "https://example.com/opds/books/search/" + PlaceholderSearchTerms,
	}

	body, err := desc.Render()
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, `xmlns="http://a9.com/-/spec/opensearch/1.1/"`)
	assert.Contains(t, out, "<ShortName>Search</ShortName>")
	assert.Contains(t, out, `template="https://example.com/opds/books/search/{searchTerms}"`)
	assert.Contains(t, out, `type="application/atom+xml;profile=opds-catalog"`)
}
