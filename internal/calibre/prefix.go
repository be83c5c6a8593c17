package calibre

import "database/sql"

// AuthorPrefix is a synthetic facet grouping authors by the first N
// characters of their sort name. It drives author browsing rather than
// book filtering, so it carries no book criterion.
type AuthorPrefix struct {
	Prefix string
	Count  int64
}

func (p AuthorPrefix) FacetID() string          { return p.Prefix }
func (p AuthorPrefix) FacetName() string        { return p.Prefix }
func (p AuthorPrefix) BookCount() int64         { return p.Count }
func (p AuthorPrefix) BookCriterion() Criterion { return CriterionNone }
func (p AuthorPrefix) URIPrefix() string        { return "author-prefix" }

const sqlAuthorPrefixes = `select substr(sort, 1, ?) as prefix, count(*)
from authors
group by prefix
order by prefix`

// AuthorPrefixes lists the distinct sort-name prefixes of the given
// length, each with the number of authors sharing it.
func AuthorPrefixes(db *DB, length int) ([]AuthorPrefix, error) {
	rows, err := db.query("author prefixes", sqlAuthorPrefixes, length)
	if err != nil {
		return nil, err
	}
	return scanAuthorPrefixes(rows)
}

func scanAuthorPrefixes(rows *sql.Rows) ([]AuthorPrefix, error) {
	defer rows.Close()
	var out []AuthorPrefix
	for rows.Next() {
		var p AuthorPrefix
		if err := rows.Scan(&p.Prefix, &p.Count); err != nil {
			return nil, storeErr("author prefixes scan", err)
		}
		out = append(out, p)
	}
	return out, storeErr("author prefixes rows", rows.Err())
}
