package calibre

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Series is a projection of one row of the series table with its linked
// book count.
type Series struct {
	ID    int64
	Name  string
	Count int64
}

func (s Series) FacetID() string          { return strconv.FormatInt(s.ID, 10) }
func (s Series) FacetName() string        { return s.Name }
func (s Series) BookCount() int64         { return s.Count }
func (s Series) BookCriterion() Criterion { return CriterionSeries }
func (s Series) URIPrefix() string        { return "series" }

const sqlSeries = `select series.id, series.name, count(bsl.id)
from series left join books_series_link as bsl on series.id = bsl.series
%s
group by series.id
order by series.sort`

func scanSeries(rows *sql.Rows) ([]Series, error) {
	defer rows.Close()
	var out []Series
	for rows.Next() {
		var s Series
		if err := rows.Scan(&s.ID, &s.Name, &s.Count); err != nil {
			return nil, storeErr("series scan", err)
		}
		out = append(out, s)
	}
	return out, storeErr("series rows", rows.Err())
}

// AllSeries lists all series ordered by sort name.
func AllSeries(db *DB) ([]Series, error) {
	rows, err := db.query("series", fmt.Sprintf(sqlSeries, ""))
	if err != nil {
		return nil, err
	}
	return scanSeries(rows)
}

// SeriesByBook lists the series memberships of one book.
func SeriesByBook(db *DB, bookID int64) ([]Series, error) {
	rows, err := db.query("series by book", fmt.Sprintf(sqlSeries, "where bsl.book = ?"), bookID)
	if err != nil {
		return nil, err
	}
	return scanSeries(rows)
}

// SeriesByID returns the series with the given id, or nil when absent.
func SeriesByID(db *DB, id int64) (*Series, error) {
	rows, err := db.query("series by id", fmt.Sprintf(sqlSeries, "where series.id = ?"), id)
	if err != nil {
		return nil, err
	}
	series, err := scanSeries(rows)
	if err != nil || len(series) == 0 {
		return nil, err
	}
	return &series[0], nil
}
