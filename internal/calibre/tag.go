package calibre

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Tag is a projection of one row of the tags table with its linked book
// count.
type Tag struct {
	ID    int64
	Name  string
	Count int64
}

func (t Tag) FacetID() string          { return strconv.FormatInt(t.ID, 10) }
func (t Tag) FacetName() string        { return t.Name }
func (t Tag) BookCount() int64         { return t.Count }
func (t Tag) BookCriterion() Criterion { return CriterionTag }
func (t Tag) URIPrefix() string        { return "tag" }

const sqlTags = `select tags.id, tags.name, count(btl.id)
from tags left join books_tags_link as btl on tags.id = btl.tag
%s
group by tags.id
order by tags.name`

func scanTags(rows *sql.Rows) ([]Tag, error) {
	defer rows.Close()
	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Count); err != nil {
			return nil, storeErr("tags scan", err)
		}
		out = append(out, t)
	}
	return out, storeErr("tags rows", rows.Err())
}

// Tags lists all tags ordered by name.
func Tags(db *DB) ([]Tag, error) {
	rows, err := db.query("tags", fmt.Sprintf(sqlTags, ""))
	if err != nil {
		return nil, err
	}
	return scanTags(rows)
}

// TagsByBook lists the tags of one book.
func TagsByBook(db *DB, bookID int64) ([]Tag, error) {
	rows, err := db.query("tags by book", fmt.Sprintf(sqlTags, "where btl.book = ?"), bookID)
	if err != nil {
		return nil, err
	}
	return scanTags(rows)
}

// TagByID returns the tag with the given id, or nil when absent.
func TagByID(db *DB, id int64) (*Tag, error) {
	rows, err := db.query("tag by id", fmt.Sprintf(sqlTags, "where tags.id = ?"), id)
	if err != nil {
		return nil, err
	}
	tags, err := scanTags(rows)
	if err != nil || len(tags) == 0 {
		return nil, err
	}
	return &tags[0], nil
}
