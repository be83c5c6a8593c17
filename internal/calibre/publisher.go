package calibre

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Publisher is a projection of one row of the publishers table with its
// linked book count.
type Publisher struct {
	ID    int64
	Name  string
	Count int64
}

func (p Publisher) FacetID() string          { return strconv.FormatInt(p.ID, 10) }
func (p Publisher) FacetName() string        { return p.Name }
func (p Publisher) BookCount() int64         { return p.Count }
func (p Publisher) BookCriterion() Criterion { return CriterionPublisher }
func (p Publisher) URIPrefix() string        { return "publisher" }

const sqlPublishers = `select publishers.id, publishers.name, count(bpl.id)
from publishers left join books_publishers_link as bpl on publishers.id = bpl.publisher
%s
group by publishers.id
order by publishers.name`

func scanPublishers(rows *sql.Rows) ([]Publisher, error) {
	defer rows.Close()
	var out []Publisher
	for rows.Next() {
		var p Publisher
		if err := rows.Scan(&p.ID, &p.Name, &p.Count); err != nil {
			return nil, storeErr("publishers scan", err)
		}
		out = append(out, p)
	}
	return out, storeErr("publishers rows", rows.Err())
}

// Publishers lists all publishers ordered by name.
func Publishers(db *DB) ([]Publisher, error) {
	rows, err := db.query("publishers", fmt.Sprintf(sqlPublishers, ""))
	if err != nil {
		return nil, err
	}
	return scanPublishers(rows)
}

// PublishersByBook lists the publishers of one book.
func PublishersByBook(db *DB, bookID int64) ([]Publisher, error) {
	rows, err := db.query("publishers by book", fmt.Sprintf(sqlPublishers, "where bpl.book = ?"), bookID)
	if err != nil {
		return nil, err
	}
	return scanPublishers(rows)
}

// PublisherByID returns the publisher with the given id, or nil when absent.
func PublisherByID(db *DB, id int64) (*Publisher, error) {
	rows, err := db.query("publisher by id", fmt.Sprintf(sqlPublishers, "where publishers.id = ?"), id)
	if err != nil {
		return nil, err
	}
	publishers, err := scanPublishers(rows)
	if err != nil || len(publishers) == 0 {
		return nil, err
	}
	return &publishers[0], nil
}
