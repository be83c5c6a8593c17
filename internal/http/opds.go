package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opdserve/opdserve/internal/auth"
	"github.com/opdserve/opdserve/internal/calibre"
	"github.com/opdserve/opdserve/internal/database/settings"
	"github.com/opdserve/opdserve/internal/feed"
	"github.com/opdserve/opdserve/internal/locale"
	"github.com/opdserve/opdserve/internal/metrics"
	"github.com/opdserve/opdserve/internal/opds"
	"github.com/opdserve/opdserve/internal/storage"
)

const defaultPrefixLength = 1

// OpdsController serves the catalog feed endpoints. Each request resolves
// the authenticated user's library, opens its metadata database read-only,
// and closes it when the response is built.
type OpdsController struct {
	app       opds.App
	routes    *Resolver
	settings  *settings.Repository
	libraries *storage.Resolver
	languages *locale.Namer
	metrics   *metrics.Collector
}

// NewOpdsController creates the catalog controller. The metrics
// collector may be nil.
func NewOpdsController(app opds.App, routes *Resolver, settingsRepo *settings.Repository, libraries *storage.Resolver, languages *locale.Namer, collector *metrics.Collector) *OpdsController {
	return &OpdsController{
		app:       app,
		routes:    routes,
		settings:  settingsRepo,
		libraries: libraries,
		languages: languages,
		metrics:   collector,
	}
}

// RegisterRoutes registers the catalog endpoints on the router.
func (ct *OpdsController) RegisterRoutes(router *gin.Engine) {
	g := router.Group("/opds")
	g.GET("/", ct.Index)
	g.GET("/authors", ct.Authors)
	g.GET("/authors/:prefix", ct.Authors)
	g.GET("/author-prefixes", ct.AuthorPrefixes)
	g.GET("/author-prefixes/:length", ct.AuthorPrefixes)
	g.GET("/publishers", ct.Publishers)
	g.GET("/languages", ct.Languages)
	g.GET("/series", ct.Series)
	g.GET("/tags", ct.Tags)
	g.GET("/books", ct.Books)
	g.GET("/books/:criterion", ct.Books)
	g.GET("/books/:criterion/:id", ct.Books)
	g.GET("/search.xml", ct.SearchXML)
	g.GET("/cover/:id", ct.BookCover)
	g.GET("/data/:id/:type", ct.BookData)
}

// openLibrary resolves the requesting user's library and opens its
// metadata database. The caller owns the returned handle.
func (ct *OpdsController) openLibrary(c *gin.Context) (*calibre.DB, string, error) {
	library, err := ct.settings.GetLibrary(auth.GetUserID(c))
	if err != nil {
		return nil, "", err
	}
	root, err := ct.libraries.LibraryRoot(library)
	if err != nil {
		return nil, "", err
	}
	path, err := ct.libraries.MetadataPath(root)
	if err != nil {
		return nil, "", err
	}
	db, err := calibre.Open(path)
	if err != nil {
		return nil, "", err
	}
	return db, root, nil
}

func (ct *OpdsController) renderFeed(c *gin.Context, b *feed.Builder) error {
	body, err := b.Feed().Render()
	if err != nil {
		return err
	}
	c.Data(http.StatusOK, opds.MimeTypeAtom, body)
	return nil
}

// Index serves the root navigation feed with one subsection per facet
// dimension plus the unfiltered book listing.
func (ct *OpdsController) Index(c *gin.Context) {
	db, _, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "index", err)
		return
	}
	defer db.Close()

	b := feed.NewBuilder(ct.app, ct.routes, "index", nil, "OPDS Library", "", nil)
	b.AddSubsectionEntry("authors", "author_prefixes", "Authors", "All authors")
	b.AddSubsectionEntry("publishers", "publishers", "Publishers", "All publishers")
	b.AddSubsectionEntry("languages", "languages", "Languages", "All languages")
	b.AddSubsectionEntry("series", "series", "Series", "All series")
	b.AddSubsectionEntry("tags", "tags", "Tags", "All tags")
	b.AddSubsectionEntry("books", "books", "Books", "All books")
	if err := ct.renderFeed(c, b); err != nil {
		respondError(c, "index", err)
	}
}

// Authors serves the author listing, optionally narrowed to sort names
// starting with the given prefix.
func (ct *OpdsController) Authors(c *gin.Context) {
	prefix := c.Param("prefix")

	db, _, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "authors", err)
		return
	}
	defer db.Close()

	title := "Authors"
	var params map[string]string
	if prefix != "" {
		title = fmt.Sprintf("Authors by prefix %s", prefix)
		params = map[string]string{"prefix": prefix}
	}

	authors, err := calibre.AuthorsByPrefix(db, prefix)
	if err != nil {
		respondError(c, "authors", err)
		return
	}

	b := feed.NewBuilder(ct.app, ct.routes, "authors", params, title, "", nil)
	for _, item := range authors {
		if err := b.AddNavigationEntry(item); err != nil {
			respondError(c, "authors", err)
			return
		}
	}
	if err := ct.renderFeed(c, b); err != nil {
		respondError(c, "authors", err)
	}
}

// AuthorPrefixes serves the author sort-name prefix groups. Prefix
// length defaults to 1 and never drops below it.
func (ct *OpdsController) AuthorPrefixes(c *gin.Context) {
	length := defaultPrefixLength
	var params map[string]string
	if raw := c.Param("length"); raw != "" {
		params = map[string]string{"length": raw}
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			length = parsed
		}
	}

	db, _, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "author_prefixes", err)
		return
	}
	defer db.Close()

	prefixes, err := calibre.AuthorPrefixes(db, length)
	if err != nil {
		respondError(c, "author_prefixes", err)
		return
	}

	b := feed.NewBuilder(ct.app, ct.routes, "author_prefixes", params, "Authors by prefix", "", nil)
	for _, item := range prefixes {
		if err := b.AddNavigationEntry(item); err != nil {
			respondError(c, "author_prefixes", err)
			return
		}
	}
	if err := ct.renderFeed(c, b); err != nil {
		respondError(c, "author_prefixes", err)
	}
}

// Publishers serves the publisher listing.
func (ct *OpdsController) Publishers(c *gin.Context) {
	db, _, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "publishers", err)
		return
	}
	defer db.Close()

	publishers, err := calibre.Publishers(db)
	if err != nil {
		respondError(c, "publishers", err)
		return
	}

	b := feed.NewBuilder(ct.app, ct.routes, "publishers", nil, "Publishers", "", nil)
	for _, item := range publishers {
		if err := b.AddNavigationEntry(item); err != nil {
			respondError(c, "publishers", err)
			return
		}
	}
	if err := ct.renderFeed(c, b); err != nil {
		respondError(c, "publishers", err)
	}
}

// Languages serves the language listing with display names resolved
// against the configured locale.
func (ct *OpdsController) Languages(c *gin.Context) {
	db, _, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "languages", err)
		return
	}
	defer db.Close()

	languages, err := calibre.Languages(db)
	if err != nil {
		respondError(c, "languages", err)
		return
	}

	b := feed.NewBuilder(ct.app, ct.routes, "languages", nil, "Languages", "", nil)
	for _, item := range languages {
		localized := feed.LocalizedLanguage{Language: item, Name: ct.languages.Name(item.Code)}
		if err := b.AddNavigationEntry(localized); err != nil {
			respondError(c, "languages", err)
			return
		}
	}
	if err := ct.renderFeed(c, b); err != nil {
		respondError(c, "languages", err)
	}
}

// Series serves the series listing.
func (ct *OpdsController) Series(c *gin.Context) {
	db, _, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "series", err)
		return
	}
	defer db.Close()

	series, err := calibre.AllSeries(db)
	if err != nil {
		respondError(c, "series", err)
		return
	}

	b := feed.NewBuilder(ct.app, ct.routes, "series", nil, "Series", "", nil)
	for _, item := range series {
		if err := b.AddNavigationEntry(item); err != nil {
			respondError(c, "series", err)
			return
		}
	}
	if err := ct.renderFeed(c, b); err != nil {
		respondError(c, "series", err)
	}
}

// Tags serves the tag listing.
func (ct *OpdsController) Tags(c *gin.Context) {
	db, _, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "tags", err)
		return
	}
	defer db.Close()

	tags, err := calibre.Tags(db)
	if err != nil {
		respondError(c, "tags", err)
		return
	}

	b := feed.NewBuilder(ct.app, ct.routes, "tags", nil, "Tags", "", nil)
	for _, item := range tags {
		if err := b.AddNavigationEntry(item); err != nil {
			respondError(c, "tags", err)
			return
		}
	}
	if err := ct.renderFeed(c, b); err != nil {
		respondError(c, "tags", err)
	}
}

// Books serves the acquisition feed, optionally filtered by one facet
// criterion. A criterion referencing a missing facet yields 404.
func (ct *OpdsController) Books(c *gin.Context) {
	token := c.Param("criterion")
	id := c.Param("id")

	db, _, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "books", err)
		return
	}
	defer db.Close()

	// Unknown criterion tokens degrade to the full listing.
	criterion, _ := calibre.ParseCriterion(token)

	title := "All books"
	upRoute := ""
	var upParams map[string]string

	switch criterion {
	case calibre.CriterionSearch:
		title = fmt.Sprintf("All books matching: /%s/", id)
	case calibre.CriterionAuthor:
		author, err := ct.authorByID(db, id)
		if err != nil {
			respondError(c, "books", err)
			return
		}
		if author == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		title = fmt.Sprintf("All books by author: %s", author.Name)
		upRoute = "authors"
		upParams = map[string]string{"prefix": prefixOf(author.Sort, defaultPrefixLength)}
	case calibre.CriterionPublisher:
		publisher, err := ct.publisherByID(db, id)
		if err != nil {
			respondError(c, "books", err)
			return
		}
		if publisher == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		title = fmt.Sprintf("All books by publisher: %s", publisher.Name)
		upRoute = "publishers"
	case calibre.CriterionLanguage:
		language, err := ct.languageByID(db, id)
		if err != nil {
			respondError(c, "books", err)
			return
		}
		if language == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		title = fmt.Sprintf("All books in language: %s", ct.languages.Name(language.Code))
	case calibre.CriterionSeries:
		series, err := ct.seriesByID(db, id)
		if err != nil {
			respondError(c, "books", err)
			return
		}
		if series == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		title = fmt.Sprintf("All books in series: %s", series.Name)
	case calibre.CriterionTag:
		tag, err := ct.tagByID(db, id)
		if err != nil {
			respondError(c, "books", err)
			return
		}
		if tag == nil {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		title = fmt.Sprintf("All books with tag: %s", tag.Name)
	}

	books, err := calibre.BooksByCriterion(db, criterion, id)
	if err != nil {
		respondError(c, "books", err)
		return
	}

	var params map[string]string
	if criterion != calibre.CriterionNone {
		params = map[string]string{"criterion": string(criterion), "id": id}
	}
	b := feed.NewBuilder(ct.app, ct.routes, "books", params, title, upRoute, upParams)
	for _, book := range books {
		b.AddBookEntry(book)
	}
	if err := ct.renderFeed(c, b); err != nil {
		respondError(c, "books", err)
	}
}

// SearchXML serves the OpenSearch descriptor advertising the search URL
// template.
func (ct *OpdsController) SearchXML(c *gin.Context) {
	db, _, err := ct.openLibrary(c)
	if err != nil {
		respondError(c, "search_xml", err)
		return
	}
	defer db.Close()

	descriptor := opds.OpenSearchDescription{
		ShortName:   "Search",
		LongName:    "Search books",
		Description: "Search books with matching titles, authors, series, or tags.",
		Image:       ct.routes.ImageURL("icon.ico"),
		Template: ct.routes.RouteURL("books", map[string]string{
			"criterion": string(calibre.CriterionSearch),
			"id":        opds.PlaceholderSearchTerms,
		}),
	}
	body, err := descriptor.Render()
	if err != nil {
		respondError(c, "search_xml", err)
		return
	}
	c.Data(http.StatusOK, opds.MimeTypeOpenSearch, body)
}

// Facet lookups parse route ids leniently: a non-numeric id cannot
// reference any row, so it reads as "not found" rather than an error.

func (ct *OpdsController) authorByID(db *calibre.DB, id string) (*calibre.Author, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}
	return calibre.AuthorByID(db, n)
}

func (ct *OpdsController) publisherByID(db *calibre.DB, id string) (*calibre.Publisher, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}
	return calibre.PublisherByID(db, n)
}

func (ct *OpdsController) languageByID(db *calibre.DB, id string) (*calibre.Language, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}
	return calibre.LanguageByID(db, n)
}

func (ct *OpdsController) seriesByID(db *calibre.DB, id string) (*calibre.Series, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}
	return calibre.SeriesByID(db, n)
}

func (ct *OpdsController) tagByID(db *calibre.DB, id string) (*calibre.Tag, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}
	return calibre.TagByID(db, n)
}
