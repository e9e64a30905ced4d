package resolve

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cities = []Named{
	{ID: "1", Name: "San Miguel de Tucumán"},
	{ID: "2", Name: "Yerba Buena"},
	{ID: "3", Name: "Tafí Viejo"},
	{ID: "4", Name: "Tafí del Valle"},
}

func TestFuzzyMatch_Exact(t *testing.T) {
	id, err := FuzzyMatch("yerba buena", cities)
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	id, err = FuzzyMatch("3", cities)
	require.NoError(t, err)
	assert.Equal(t, "3", id)
}

func TestFuzzyMatch_Fuzzy(t *testing.T) {
	id, err := FuzzyMatch("ybuena", cities)
	require.NoError(t, err)
	assert.Equal(t, "2", id)
}

func TestFuzzyMatch_Errors(t *testing.T) {
	_, err := FuzzyMatch("  ", cities)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = FuzzyMatch("x", nil)
	assert.ErrorIs(t, err, ErrEmptyItems)

	_, err = FuzzyMatch("zzzz", cities)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "zzzz", nf.Query)
}

func TestFuzzyMatch_Ambiguous(t *testing.T) {
	items := []Named{{ID: "a", Name: "Lote Norte"}, {ID: "b", Name: "Lote Nortx"}}
	_, err := FuzzyMatch("lote nort", items)

	var amb *AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.Len(t, amb.Matches, 2)
	assert.Contains(t, amb.Error(), "ambiguous match for \"lote nort\"")
	assert.Contains(t, amb.Error(), "a: Lote Norte")
}

func TestFuzzyMatch_AccentInsensitive(t *testing.T) {
	id, err := FuzzyMatch("san miguel de tucuman", cities)
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	id, err = FuzzyMatch("TAFI VIEJO", cities)
	require.NoError(t, err)
	assert.Equal(t, "3", id)

	id, err = FuzzyMatch("tafidelvalle", cities)
	require.NoError(t, err)
	assert.Equal(t, "4", id)
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, "tafi del valle", foldName("Tafí del Valle"))
	assert.Equal(t, "concepcion", foldName("Concepción"))
	assert.Equal(t, "nandu", foldName("Ñandú"))
}

func TestNamedFrom(t *testing.T) {
	rows := []any{
		map[string]any{"id": json.Number("5"), "nombre": "Concepción"},
		map[string]any{"id": "casa", "descripcion": "Casa"},
		map[string]any{"nombre": "sin id"},
		"not an object",
	}

	assert.Equal(t, []Named{
		{ID: "5", Name: "Concepción"},
		{ID: "casa", Name: "Casa"},
	}, NamedFrom(rows))

	assert.Equal(t, []Named{{ID: "5", Name: ""}, {ID: "casa", Name: "Casa"}}, NamedFrom(rows, "descripcion"))
}
