package calibre

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Language is a projection of one row of the languages table. Its natural
// name is the raw ISO-639 code; callers wanting a localized display name
// wrap the entity at the presentation layer instead of mutating it.
type Language struct {
	ID    int64
	Code  string
	Count int64
}

func (l Language) FacetID() string          { return strconv.FormatInt(l.ID, 10) }
func (l Language) FacetName() string        { return l.Code }
func (l Language) BookCount() int64         { return l.Count }
func (l Language) BookCriterion() Criterion { return CriterionLanguage }
func (l Language) URIPrefix() string        { return "lang" }

// The link table's lang_code column references languages.id, a quirk of
// the Calibre schema.
const sqlLanguages = `select languages.id, languages.lang_code, count(bll.id)
from languages left join books_languages_link as bll on languages.id = bll.lang_code
%s
group by languages.id
order by languages.lang_code`

func scanLanguages(rows *sql.Rows) ([]Language, error) {
	defer rows.Close()
	var out []Language
	for rows.Next() {
		var l Language
		if err := rows.Scan(&l.ID, &l.Code, &l.Count); err != nil {
			return nil, storeErr("languages scan", err)
		}
		out = append(out, l)
	}
	return out, storeErr("languages rows", rows.Err())
}

// Languages lists all languages ordered by code.
func Languages(db *DB) ([]Language, error) {
	rows, err := db.query("languages", fmt.Sprintf(sqlLanguages, ""))
	if err != nil {
		return nil, err
	}
	return scanLanguages(rows)
}

// LanguagesByBook lists the languages of one book.
func LanguagesByBook(db *DB, bookID int64) ([]Language, error) {
	rows, err := db.query("languages by book", fmt.Sprintf(sqlLanguages, "where bll.book = ?"), bookID)
	if err != nil {
		return nil, err
	}
	return scanLanguages(rows)
}

// LanguageByID returns the language with the given id, or nil when absent.
func LanguageByID(db *DB, id int64) (*Language, error) {
	rows, err := db.query("language by id", fmt.Sprintf(sqlLanguages, "where languages.id = ?"), id)
	if err != nil {
		return nil, err
	}
	languages, err := scanLanguages(rows)
	if err != nil || len(languages) == 0 {
		return nil, err
	}
	return &languages[0], nil
}
