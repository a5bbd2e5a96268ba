package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIngredientsCSV(t *testing.T) {
	rows, err := ReadIngredientsCSV(strings.NewReader("name,measurement_unit\nflour,g\n\"salt, sea\",g\n"))
	require.NoError(t, err)
	assert.Equal(t, []IngredientRow{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "salt, sea", MeasurementUnit: "g"},
	}, rows)

	rows, err = ReadIngredientsCSV(strings.NewReader("eggs,pcs\n"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = ReadIngredientsCSV(strings.NewReader("flour,g,extra\n"))
	assert.Error(t, err)
}

func TestReadIngredientsJSON(t *testing.T) {
	rows, err := ReadIngredientsJSON(strings.NewReader(`[{"name":"milk","measurement_unit":"ml"}]`))
	require.NoError(t, err)
	assert.Equal(t, []IngredientRow{{Name: "milk", MeasurementUnit: "ml"}}, rows)

	_, err = ReadIngredientsJSON(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestReadTagsCSV(t *testing.T) {
	rows, err := ReadTagsCSV(strings.NewReader("Breakfast,#FFAA00,breakfast\nMisc,,\n"))
	require.NoError(t, err)
	assert.Equal(t, []TagRow{
		{Name: "Breakfast", Color: "#FFAA00", Slug: "breakfast"},
		{Name: "Misc"},
	}, rows)
}
