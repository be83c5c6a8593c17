package calibre

// BookIdentifier is one alternate identifier of a book (isbn, uri, urn,
// or any other type string Calibre stores).
type BookIdentifier struct {
	Type  string
	Value string
}

const sqlBookIdentifiers = `select identifiers.type, identifiers.val
from identifiers
where identifiers.book = ?
order by identifiers.type`

// IdentifiersByBook lists the identifiers of one book ordered by type.
func IdentifiersByBook(db *DB, bookID int64) ([]BookIdentifier, error) {
	rows, err := db.query("identifiers by book", sqlBookIdentifiers, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BookIdentifier
	for rows.Next() {
		var id BookIdentifier
		if err := rows.Scan(&id.Type, &id.Value); err != nil {
			return nil, storeErr("identifiers scan", err)
		}
		out = append(out, id)
	}
	return out, storeErr("identifiers rows", rows.Err())
}
