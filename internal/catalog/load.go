package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// Reject records why one catalog row was excluded from computation.
type Reject struct {
	Row    int    `json:"row"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// Load reads a species catalog file, dispatching on the file extension.
// Invalid rows are skipped and reported as rejects; only I/O and format
// failures are errors.
func Load(path string) ([]SpeciesRecord, []Reject, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return nil, nil, fmt.Errorf("unsupported catalog format %q, expected .csv or .xlsx", filepath.Ext(path))
	}
}

// LoadCSV reads a catalog from a CSV file with a header row matching the
// SpeciesRecord csv tags.
func LoadCSV(path string) ([]SpeciesRecord, []Reject, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var rows []SpeciesRecord
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	records, rejects := Normalize(rows)
	return records, rejects, nil
}

// LoadXLSX reads a catalog from the first sheet of an XLSX workbook. The
// header row carries the same column names as the CSV form.
func LoadXLSX(path string) ([]SpeciesRecord, []Reject, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer func() {
		_ = book.Close()
	}()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("catalog %s has no sheets", path)
	}

	cells, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog sheet %s: %w", sheets[0], err)
	}
	if len(cells) < 2 {
		return nil, nil, fmt.Errorf("catalog %s has no data rows", path)
	}

	columns := make(map[string]int, len(cells[0]))
	for i, header := range cells[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}

	var (
		rows    []SpeciesRecord
		rejects []Reject
	)
	for i, cell := range cells[1:] {
		rowNumber := i + 2 // 1-based, after the header
		record, err := parseSheetRow(cell, columns)
		if err != nil {
			rejects = append(rejects, Reject{Row: rowNumber, Name: record.Name, Reason: err.Error()})
			continue
		}
		rows = append(rows, record)
	}

	validated, validationRejects := Normalize(rows)
	return validated, append(rejects, validationRejects...), nil
}

func parseSheetRow(cells []string, columns map[string]int) (SpeciesRecord, error) {
	var record SpeciesRecord
	record.Name = sheetString(cells, columns, "name")

	fields := []struct {
		column   string
		target   *float64
		required bool
	}{
		{"feedcostperkg", &record.FeedCostPerKg, true},
		{"salepriceperkg", &record.SalePricePerKg, true},
		{"feedconversionratio", &record.FeedConversionRatio, true},
		{"cycledurationmonths", &record.CycleDurationMonths, true},
		{"volumeperunit", &record.VolumePerUnit, true},
		{"seedcostperunit", &record.SeedCostPerUnit, false},
		{"unitweightkg", &record.UnitWeightKg, false},
		{"mortalityrate", &record.MortalityRate, false},
	}
	for _, field := range fields {
		raw := sheetString(cells, columns, field.column)
		if raw == "" {
			if field.required {
				return record, fmt.Errorf("missing required field %s", field.column)
			}
			continue
		}
		// Catalogs maintained in spreadsheets often carry decimal commas.
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return record, fmt.Errorf("field %s: %w", field.column, err)
		}
		*field.target = value
	}

	return record, nil
}

func sheetString(cells []string, columns map[string]int, name string) string {
	index, ok := columns[name]
	if !ok || index >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[index])
}

// Normalize applies defaults, validates every record, and drops duplicates.
// The first occurrence of a name wins; later ones are rejected.
func Normalize(rows []SpeciesRecord) ([]SpeciesRecord, []Reject) {
	var (
		records []SpeciesRecord
		rejects []Reject
	)
	seen := make(map[string]struct{}, len(rows))

	for i := range rows {
		rowNumber := i + 2
		record := rows[i]
		record.ApplyDefaults()

		if err := record.Validate(); err != nil {
			rejects = append(rejects, Reject{Row: rowNumber, Name: record.Name, Reason: err.Error()})
			continue
		}
		if _, dup := seen[record.Name]; dup {
			rejects = append(rejects, Reject{Row: rowNumber, Name: record.Name, Reason: fmt.Sprintf("duplicate species name %s", record.Name)})
			continue
		}
		seen[record.Name] = struct{}{}
		records = append(records, record)
	}

	return records, rejects
}
