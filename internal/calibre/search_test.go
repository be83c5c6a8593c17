package calibre

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBooks_EmptyTerm(t *testing.T) {
	filter, err := SearchBooks("")
	require.NoError(t, err)
	assert.Nil(t, filter, "empty term means no filtering")
}

func TestSearchBooks_InvalidRegex(t *testing.T) {
	_, err := SearchBooks("(")
	assert.Error(t, err)
}

func TestSearchBooks_CaseInsensitive(t *testing.T) {
	filter, err := SearchBooks("alpha")
	require.NoError(t, err)

	assert.True(t, filter(&Book{Title: "Alpha Forge"}))
	assert.False(t, filter(&Book{Title: "Zeta Gate"}))
}

func TestSearchBooks_DiacriticFolding(t *testing.T) {
	// An unaccented term matches accented text through the stripped
	// haystack variant.
	filter, err := SearchBooks("cafe")
	require.NoError(t, err)
	assert.True(t, filter(&Book{Title: "The Quiet Café"}))

	// An accented term still matches the original text.
	filter, err = SearchBooks("Café")
	require.NoError(t, err)
	assert.True(t, filter(&Book{Title: "The Quiet Café"}))
}

func TestSearchBooks_RegexSemantics(t *testing.T) {
	filter, err := SearchBooks("[AZ][a-z]+ (Forge|Gate)")
	require.NoError(t, err)

	assert.True(t, filter(&Book{Title: "Alpha Forge"}))
	assert.True(t, filter(&Book{Title: "Zeta Gate"}))
	assert.False(t, filter(&Book{Title: "The Quiet Café"}))
}

func TestSearchBooks_MatchesRelatedFields(t *testing.T) {
	book := &Book{
		Title:   "Untitled",
		Comment: "a story of dragons",
		Authors: []Author{{Name: "Ángel Martín"}},
		Series:  []Series{{Name: "Iron Cycle"}},
		Tags:    []Tag{{Name: "sci-fi"}},
	}

	for _, term := range []string{"dragons", "Angel", "iron cycle", "sci-fi"} {
		filter, err := SearchBooks(term)
		require.NoError(t, err)
		assert.True(t, filter(book), "term %q", term)
	}

	filter, err := SearchBooks("absent")
	require.NoError(t, err)
	assert.False(t, filter(book))
}

func TestBooksByCriterion_Search(t *testing.T) {
	db := newTestLibrary(t)

	books, err := BooksByCriterion(db, CriterionSearch, "cafe")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "The Quiet Café", books[0].Title)

	all, err := BooksByCriterion(db, CriterionSearch, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = BooksByCriterion(db, CriterionSearch, "(")
	assert.Error(t, err)
}
