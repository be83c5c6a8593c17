package http

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opdserve/opdserve/internal/database/settings"
	"github.com/opdserve/opdserve/internal/entities"
	"github.com/opdserve/opdserve/internal/locale"
	"github.com/opdserve/opdserve/internal/opds"
	"github.com/opdserve/opdserve/internal/storage"
)

// libraryFixture is a minimal Calibre metadata database with precomputed
// sort keys and uuids.
var libraryFixture = []string{
	`create table books (
		id integer primary key,
		title text not null,
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

	`insert into authors (id, name, sort) values (1, 'John Doe', 'Doe, John'), (2, 'Ángel Martín', 'Martín, Ángel')`,
	`insert into publishers (id, name) values (1, 'Acme Press')`,
	`insert into languages (id, lang_code) values (1, 'eng'), (2, 'spa')`,
	`insert into series (id, name, sort) values (1, 'Iron Cycle', 'Iron Cycle')`,
	`insert into tags (id, name) values (1, 'fantasy'), (2, 'sci-fi')`,

	`insert into books (id, title, sort, timestamp, pubdate, series_index, uuid, has_cover, last_modified, path) values
		(1, 'Alpha Forge', 'Alpha Forge', '2023-01-10 10:00:00+00:00', '2020-05-01 00:00:00+00:00', 2.0,
			'11111111-2222-3333-4444-555555555555', 1, '2023-02-01 09:30:00+00:00', 'John Doe/Alpha Forge (1)'),
		(2, 'Zeta Gate', 'Zeta Gate', '2023-03-15 12:00:00+00:00', '0101-01-01 00:00:00+00:00', 1.0,
			'66666666-7777-8888-9999-000000000000', 0, '2023-03-20 08:00:00+00:00', 'Angel Martin/Zeta Gate (2)'),
		(3, 'The Quiet Café', 'Quiet Café, The', '2023-04-01 16:45:00+00:00', '2021-11-11 00:00:00+00:00', 1.0,
			'aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee', 0, '2023-04-02 07:15:00+00:00', 'John Doe/The Quiet Cafe (3)')`,
	`insert into comments (book, text) values (1, 'A tale of <b>iron</b> and fire')`,

	`insert into books_authors_link (book, author) values (1, 1), (2, 2), (3, 1)`,
	`insert into books_publishers_link (book, publisher) values (1, 1), (3, 1)`,
	`insert into books_languages_link (book, lang_code) values (1, 1), (2, 2), (3, 1)`,
	`insert into books_series_link (book, series) values (1, 1), (2, 1)`,
	`insert into books_tags_link (book, tag) values (1, 1), (2, 1), (2, 2), (3, 2)`,

	`insert into data (book, format, name) values
		(1, 'EPUB', 'Alpha Forge - John Doe'),
		(1, 'PDF', 'Alpha Forge - John Doe'),
		(2, 'EPUB', 'Zeta Gate - Angel Martin')`,
}

// newTestLibraryDir builds a base directory holding the "Books" library
// with a populated metadata database, a cover, and one format file.
func newTestLibraryDir(t *testing.T) string {
	t.Helper()
	base := t.TempDir()

	root := filepath.Join(base, "Books")
	bookDir := filepath.Join(root, "John Doe", "Alpha Forge (1)")
	require.NoError(t, os.MkdirAll(bookDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "cover.jpg"), []byte("jpeg-bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "Alpha Forge - John Doe.epub"), []byte("epub-bytes"), 0o644))

	db, err := sql.Open("sqlite3", filepath.Join(root, "metadata.db"))
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range libraryFixture {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return base
}

func newTestSettings(t *testing.T) *settings.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "app.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.User{}, &entities.Setting{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return settings.NewRepository(db)
}

// newTestRouter wires the catalog against an on-disk library with auth
// disabled and no metrics.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return NewRouter(RouterConfig{
		App: opds.App{
			Name:    "opdserve",
			Version: "1.2.0",
			Website: "https://example.com",
		},
		BaseURL:       "http://example.com",
		SettingsStore: newTestSettings(t),
		Libraries:     storage.NewResolver(newTestLibraryDir(t)),
		Languages:     locale.NewNamer("en"),
	})
}

func doGet(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
