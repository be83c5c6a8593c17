package calibre

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Author is a projection of one row of the authors table with its linked
// book count.
type Author struct {
	ID    int64
	Name  string
	URI   string // authors.link; empty when unset
	Sort  string
	Count int64
}

func (a Author) FacetID() string          { return strconv.FormatInt(a.ID, 10) }
func (a Author) FacetName() string        { return a.Name }
func (a Author) BookCount() int64         { return a.Count }
func (a Author) BookCriterion() Criterion { return CriterionAuthor }
func (a Author) URIPrefix() string        { return "author" }

// Authors are always ordered by sort name; the left join keeps authors
// with zero linked books visible.
const sqlAuthors = `select authors.id, authors.name, authors.link, authors.sort, count(bal.id)
from authors left join books_authors_link as bal on authors.id = bal.author
%s
group by authors.id
order by authors.sort`

func scanAuthors(rows *sql.Rows) ([]Author, error) {
	defer rows.Close()
	var out []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.URI, &a.Sort, &a.Count); err != nil {
			return nil, storeErr("authors scan", err)
		}
		out = append(out, a)
	}
	return out, storeErr("authors rows", rows.Err())
}

// AuthorsByPrefix lists authors whose sort name starts with prefix. An
// empty prefix lists all authors.
func AuthorsByPrefix(db *DB, prefix string) ([]Author, error) {
	where := ""
	var params []any
	if prefix != "" {
		where = "where substr(authors.sort, 1, length(?)) = ?"
		params = []any{prefix, prefix}
	}
	rows, err := db.query("authors by prefix", fmt.Sprintf(sqlAuthors, where), params...)
	if err != nil {
		return nil, err
	}
	return scanAuthors(rows)
}

// AuthorsByBook lists the authors of one book, in sort-name order.
func AuthorsByBook(db *DB, bookID int64) ([]Author, error) {
	rows, err := db.query("authors by book", fmt.Sprintf(sqlAuthors, "where bal.book = ?"), bookID)
	if err != nil {
		return nil, err
	}
	return scanAuthors(rows)
}

// AuthorByID returns the author with the given id, or nil when absent.
func AuthorByID(db *DB, id int64) (*Author, error) {
	rows, err := db.query("author by id", fmt.Sprintf(sqlAuthors, "where authors.id = ?"), id)
	if err != nil {
		return nil, err
	}
	authors, err := scanAuthors(rows)
	if err != nil || len(authors) == 0 {
		return nil, err
	}
	return &authors[0], nil
}
