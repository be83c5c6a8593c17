// Package calibre provides read-only access to a Calibre library's
// metadata.db: typed projections of books and their browsable facets
// (authors, publishers, languages, series, tags), plus the in-process
// search filter applied over book listings.
//
// All projections are immutable after construction. The database is only
// ever written by the Calibre desktop application; this package opens it
// read-only on the serving path.
package calibre

import (
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// rwDriverName is the registered driver for read-write opens, which carry
// the helper functions Calibre's own schema triggers call.
const rwDriverName = "sqlite3_calibre_rw"

var registerRWDriver sync.Once

var leadingArticle = regexp.MustCompile(`(?i)^(A|The|An)\s+(.*)$`)

// titleSort moves a leading English article behind a comma, matching the
// title_sort function Calibre registers for its books_insert triggers.
func titleSort(title string) string {
	m := leadingArticle.FindStringSubmatch(title)
	if m == nil {
		return title
	}
	return m[2] + ", " + m[1]
}

// DB wraps a single connection to a Calibre metadata database.
type DB struct {
	conn *sql.DB
}

// Open opens the metadata database read-only. This is the normal serving
// path: the library is mutated only externally, by the Calibre desktop
// application.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, storeErr("open", err)
	}
	return &DB{conn: conn}, nil
}

// OpenReadWrite opens the metadata database read-write. This path exists
// for tests and bootstrap imports only; it additionally registers the
// deterministic title_sort and uuid4 functions that the schema's triggers
// reference.
func OpenReadWrite(path string) (*DB, error) {
	registerRWDriver.Do(func() {
		sql.Register(rwDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(c *sqlite3.SQLiteConn) error {
				if err := c.RegisterFunc("title_sort", titleSort, true); err != nil {
					return err
				}
				return c.RegisterFunc("uuid4", uuid.NewString, false)
			},
		})
	})
	conn, err := sql.Open(rwDriverName, path)
	if err != nil {
		return nil, storeErr("open", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// query runs a row-set statement, wrapping execution failures.
func (d *DB) query(op, stmt string, args ...any) (*sql.Rows, error) {
	rows, err := d.conn.Query(stmt, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return rows, nil
}
