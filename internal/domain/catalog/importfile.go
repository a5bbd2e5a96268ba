package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ReadIngredientsCSV reads "name,measurement_unit" records. A leading header
// row starting with "name" is skipped.
func ReadIngredientsCSV(r io.Reader) ([]IngredientRow, error) {
	records, err := readCSV(r, 2)
	if err != nil {
		return nil, err
	}
	rows := make([]IngredientRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, IngredientRow{Name: rec[0], MeasurementUnit: rec[1]})
	}
	return rows, nil
}

// ReadIngredientsJSON reads an array of {"name", "measurement_unit"} objects.
func ReadIngredientsJSON(r io.Reader) ([]IngredientRow, error) {
	var rows []IngredientRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return rows, nil
}

// ReadTagsCSV reads "name,color,slug" records; color and slug may be empty.
func ReadTagsCSV(r io.Reader) ([]TagRow, error) {
	records, err := readCSV(r, 3)
	if err != nil {
		return nil, err
	}
	rows := make([]TagRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, TagRow{Name: rec[0], Color: rec[1], Slug: rec[2]})
	}
	return rows, nil
}

func readCSV(r io.Reader, columns int) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columns
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) > 0 && strings.EqualFold(strings.TrimSpace(records[0][0]), "name") {
		records = records[1:]
	}
	return records, nil
}
