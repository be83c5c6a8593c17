package calibre

import (
	"database/sql"
	"fmt"
	"time"
)

// nullTimestamp is the unix time of 0101-01-01 00:00:00 UTC, the sentinel
// Calibre stores for "no value was ever set".
const nullTimestamp = -58979923200

// Book is a projection of one row of the books table together with all of
// its related collections.
type Book struct {
	ID          int64
	Title       string
	Comment     string // empty when the book has no comment
	Path        string // library-relative storage folder
	UUID        string
	HasCover    bool
	SeriesIndex float64

	// Timestamps are nil when unset or when the stored value is the
	// epoch-zero sentinel.
	Timestamp    *time.Time // creation time
	PubDate      *time.Time
	LastModified *time.Time

	Authors     []Author
	Publishers  []Publisher
	Languages   []Language
	Series      []Series
	Tags        []Tag
	Formats     []BookFormat
	Identifiers []BookIdentifier
}

// CoverFilename is the book-relative file name of the cover image.
const CoverFilename = "cover.jpg"

// The books statement is a template: parameter 1 is a JOIN clause,
// parameter 2 a WHERE clause, parameter 3 optional leading sort columns.
const sqlBooks = `select books.id, books.title, books.timestamp, books.pubdate,
	books.series_index, books.uuid, books.has_cover, books.last_modified, books.path,
	comments.text
from books left join comments on books.id = comments.book %s
%s
order by %s books.sort`

// normalizeTimestamp projects a stored timestamp to nil when absent or
// when it equals the epoch-zero sentinel.
func normalizeTimestamp(v sql.NullTime) *time.Time {
	if !v.Valid || v.Time.Unix() == nullTimestamp {
		return nil
	}
	t := v.Time
	return &t
}

func scanBook(rows *sql.Rows) (*Book, error) {
	var b Book
	var timestamp, pubdate, lastModified sql.NullTime
	var uuid, comment sql.NullString
	err := rows.Scan(&b.ID, &b.Title, &timestamp, &pubdate, &b.SeriesIndex,
		&uuid, &b.HasCover, &lastModified, &b.Path, &comment)
	if err != nil {
		return nil, storeErr("books scan", err)
	}
	b.Timestamp = normalizeTimestamp(timestamp)
	b.PubDate = normalizeTimestamp(pubdate)
	b.LastModified = normalizeTimestamp(lastModified)
	b.UUID = uuid.String
	b.Comment = comment.String
	return &b, nil
}

// loadRelated issues the secondary queries for one book. The N+1 pattern
// is intentional: per-user libraries are small and it keeps each entity
// self-contained.
func loadRelated(db *DB, b *Book) error {
	var err error
	if b.Authors, err = AuthorsByBook(db, b.ID); err != nil {
		return err
	}
	if b.Publishers, err = PublishersByBook(db, b.ID); err != nil {
		return err
	}
	if b.Languages, err = LanguagesByBook(db, b.ID); err != nil {
		return err
	}
	if b.Series, err = SeriesByBook(db, b.ID); err != nil {
		return err
	}
	if b.Tags, err = TagsByBook(db, b.ID); err != nil {
		return err
	}
	if b.Formats, err = FormatsByBook(db, b.ID); err != nil {
		return err
	}
	if b.Identifiers, err = IdentifiersByBook(db, b.ID); err != nil {
		return err
	}
	return nil
}

// BooksByCriterion lists books filtered by the given criterion and value.
// CriterionNone lists all books; CriterionSearch lists all books narrowed
// by the in-process search filter. Ordering is by title sort key, except
// for series listings which sort by ascending series index first.
func BooksByCriterion(db *DB, criterion Criterion, value string) ([]*Book, error) {
	var join, where, sort string
	var params []any
	switch criterion {
	case CriterionAuthor:
		join = "inner join books_authors_link as bal on books.id = bal.book"
		where = "where bal.author = ?"
		params = []any{value}
	case CriterionPublisher:
		join = "inner join books_publishers_link as bpl on books.id = bpl.book"
		where = "where bpl.publisher = ?"
		params = []any{value}
	case CriterionLanguage:
		join = "inner join books_languages_link as bll on books.id = bll.book"
		where = "where bll.lang_code = ?"
		params = []any{value}
	case CriterionSeries:
		join = "inner join books_series_link as bsl on books.id = bsl.book"
		where = "where bsl.series = ?"
		sort = "books.series_index,"
		params = []any{value}
	case CriterionTag:
		join = "inner join books_tags_link as btl on books.id = btl.book"
		where = "where btl.tag = ?"
		params = []any{value}
	case CriterionNone, CriterionSearch:
		// full listing
	}

	var filter func(*Book) bool
	if criterion == CriterionSearch {
		f, err := SearchBooks(value)
		if err != nil {
			return nil, err
		}
		filter = f
	}

	rows, err := db.query("books by criterion", fmt.Sprintf(sqlBooks, join, where, sort), params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		if err := loadRelated(db, b); err != nil {
			return nil, err
		}
		if filter != nil && !filter(b) {
			continue
		}
		out = append(out, b)
	}
	return out, storeErr("books rows", rows.Err())
}

// BookByID returns the book with the given id, or nil when absent.
func BookByID(db *DB, id int64) (*Book, error) {
	rows, err := db.query("book by id", fmt.Sprintf(sqlBooks, "", "where books.id = ?", ""), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, storeErr("book by id rows", rows.Err())
	}
	b, err := scanBook(rows)
	if err != nil {
		return nil, err
	}
	if err := loadRelated(db, b); err != nil {
		return nil, err
	}
	return b, nil
}
