package calibre

import (
	"database/sql"
	"fmt"
	"strings"
)

// BookFormat describes one downloadable file of a book: the format name
// (EPUB, MOBI, ...), the on-disk filename stem, and the storage path
// inherited from the owning book.
type BookFormat struct {
	Path   string // library-relative book folder
	Name   string // filename stem without extension
	Format string // uppercase format name
}

// Filename is the book-relative file name of this format.
func (f BookFormat) Filename() string {
	return f.Name + "." + strings.ToLower(f.Format)
}

const sqlBookFormats = `select books.path, data.name, data.format
from data left join books on books.id = data.book
%s`

func scanBookFormats(rows *sql.Rows) ([]BookFormat, error) {
	defer rows.Close()
	var out []BookFormat
	for rows.Next() {
		var f BookFormat
		if err := rows.Scan(&f.Path, &f.Name, &f.Format); err != nil {
			return nil, storeErr("formats scan", err)
		}
		out = append(out, f)
	}
	return out, storeErr("formats rows", rows.Err())
}

// FormatsByBook lists the available formats of one book.
func FormatsByBook(db *DB, bookID int64) ([]BookFormat, error) {
	rows, err := db.query("formats by book", fmt.Sprintf(sqlBookFormats, "where books.id = ?"), bookID)
	if err != nil {
		return nil, err
	}
	return scanBookFormats(rows)
}

// FormatByBookAndType returns one specific format of a book, or nil when
// absent. The format name is matched uppercase, as Calibre stores it.
func FormatByBookAndType(db *DB, bookID int64, format string) (*BookFormat, error) {
	rows, err := db.query("format by book and type",
		fmt.Sprintf(sqlBookFormats, "where books.id = ? and data.format = ?"),
		bookID, strings.ToUpper(format))
	if err != nil {
		return nil, err
	}
	formats, err := scanBookFormats(rows)
	if err != nil || len(formats) == 0 {
		return nil, err
	}
	return &formats[0], nil
}
