package calibre

// Criterion identifies which facet, if any, a book listing is filtered by.
type Criterion string

const (
	// CriterionNone lists all books.
	CriterionNone      Criterion = ""
	CriterionSearch    Criterion = "search"
	CriterionAuthor    Criterion = "author"
	CriterionPublisher Criterion = "publisher"
	CriterionLanguage  Criterion = "language"
	CriterionSeries    Criterion = "series"
	CriterionTag       Criterion = "tag"
)

// ParseCriterion maps a request token onto a Criterion. Unknown tokens
// report false and behave like CriterionNone, matching the tolerant
// dispatch of the catalog: an unrecognized filter lists all books.
func ParseCriterion(token string) (Criterion, bool) {
	switch c := Criterion(token); c {
	case CriterionNone, CriterionSearch, CriterionAuthor, CriterionPublisher,
		CriterionLanguage, CriterionSeries, CriterionTag:
		return c, true
	}
	return CriterionNone, false
}

// Facet is implemented by every browsable dimension value that can appear
// as a navigation entry in a feed.
type Facet interface {
	// FacetID is the identity used in entry ids and route parameters.
	FacetID() string
	// FacetName is the display name.
	FacetName() string
	// BookCount is the number of linked books (or, for author prefixes,
	// the number of authors under the prefix).
	BookCount() int64
	// BookCriterion is the criterion this facet filters book listings by.
	// CriterionNone means the facet drives author browsing instead.
	BookCriterion() Criterion
	// URIPrefix is the short token namespacing this facet type's entry ids.
	URIPrefix() string
}
