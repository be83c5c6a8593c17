package calibre

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixtureSchema is the subset of the Calibre schema the catalog reads,
// including the insert trigger that calls the registered title_sort and
// uuid4 functions.
var fixtureSchema = []string{
	`create table books (
		id integer primary key autoincrement,
		title text not null default 'Unknown',
		sort text,
		timestamp timestamp default current_timestamp,
		pubdate timestamp default current_timestamp,
		series_index real not null default 1.0,
		uuid text,
		has_cover bool default 0,
		last_modified timestamp not null default '2000-01-01 00:00:00+00:00',
		path text not null default ''
	)`,
	`create table comments (id integer primary key, book integer not null, text text not null)`,
	`create table authors (id integer primary key, name text not null, sort text, link text not null default '')`,
	`create table books_authors_link (id integer primary key, book integer not null, author integer not null)`,
	`create table publishers (id integer primary key, name text not null)`,
	`create table books_publishers_link (id integer primary key, book integer not null, publisher integer not null)`,
	`create table languages (id integer primary key, lang_code text not null)`,
	`create table books_languages_link (id integer primary key, book integer not null, lang_code integer not null)`,
	`create table series (id integer primary key, name text not null, sort text)`,
	`create table books_series_link (id integer primary key, book integer not null, series integer not null)`,
	`create table tags (id integer primary key, name text not null)`,
	`create table books_tags_link (id integer primary key, book integer not null, tag integer not null)`,
	`create table data (id integer primary key, book integer not null, format text not null, uncompressed_size integer not null default 0, name text not null)`,
	`create table identifiers (id integer primary key, book integer not null, type text not null default 'isbn', val text not null)`,
	`create trigger books_insert_trg after insert on books begin
		update books set sort = title_sort(new.title), uuid = uuid4() where id = new.id;
	end`,
}

var fixtureData = []string{
	`insert into authors (id, name, sort) values
		(1, 'John Doe', 'Doe, John'),
		(2, 'Ángel Martín', 'Martín, Ángel'),
		(3, 'Empty Author', 'Author, Empty')`,
	`insert into publishers (id, name) values (1, 'Acme Press'), (2, 'Void House')`,
	`insert into languages (id, lang_code) values (1, 'eng'), (2, 'spa'), (3, 'fra')`,
	`insert into series (id, name, sort) values (1, 'Iron Cycle', 'Iron Cycle')`,
	`insert into tags (id, name) values (1, 'fantasy'), (2, 'sci-fi'), (3, 'unused')`,

	`insert into books (id, title, timestamp, pubdate, series_index, has_cover, last_modified, path) values
		(1, 'Alpha Forge', '2023-01-10 10:00:00+00:00', '2020-05-01 00:00:00+00:00', 2.0, 1,
			'2023-02-01 09:30:00+00:00', 'John Doe/Alpha Forge (1)'),
		(2, 'Zeta Gate', '2023-03-15 12:00:00+00:00', '0101-01-01 00:00:00+00:00', 1.0, 0,
			'2023-03-20 08:00:00+00:00', 'Angel Martin/Zeta Gate (2)'),
		(3, 'The Quiet Café', '2023-04-01 16:45:00+00:00', '2021-11-11 00:00:00+00:00', 1.0, 1,
			'2023-04-02 07:15:00+00:00', 'John Doe/The Quiet Cafe (3)')`,
	`insert into comments (book, text) values (1, 'A tale of <b>iron</b> and fire')`,

	`insert into books_authors_link (book, author) values (1, 1), (2, 2), (3, 1)`,
	`insert into books_publishers_link (book, publisher) values (1, 1), (3, 1)`,
	`insert into books_languages_link (book, lang_code) values (1, 1), (2, 2), (3, 1)`,
	`insert into books_series_link (book, series) values (1, 1), (2, 1)`,
	`insert into books_tags_link (book, tag) values (1, 1), (2, 1), (2, 2), (3, 2)`,

	`insert into data (book, format, name) values
		(1, 'EPUB', 'Alpha Forge - John Doe'),
		(1, 'PDF', 'Alpha Forge - John Doe'),
		(2, 'EPUB', 'Zeta Gate - Angel Martin'),
		(3, 'EPUB', 'The Quiet Cafe - John Doe')`,
	`insert into identifiers (book, type, val) values
		(1, 'isbn', '9780000000001'),
		(1, 'uri', 'http://example.com/alpha-forge')`,
}

// newTestLibrary builds a metadata database in a temp directory through
// the read-write open path and returns a handle to it.
func newTestLibrary(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "metadata.db")
	db, err := OpenReadWrite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range fixtureSchema {
		_, err := db.conn.Exec(stmt)
		require.NoError(t, err)
	}
	for _, stmt := range fixtureData {
		_, err := db.conn.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}
