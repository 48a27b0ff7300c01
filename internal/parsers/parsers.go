// package parsers reads user-supplied release lists from CSV and JSON
// files into input records.
//
// Rows are validated individually; a file where more than half the rows
// are invalid is rejected outright on the assumption the columns are wrong.
package parsers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/discosync/internal/models"
	"github.com/desertthunder/discosync/internal/shared"
)

const (
	minYear = 1900
	maxYear = 2030
)

// format synonyms users commonly write, normalized to catalog format names
var formatSynonyms = map[string]string{
	"vinyl":    "Vinyl",
	"lp":       "Vinyl",
	"record":   "Vinyl",
	"12\"":     "Vinyl",
	"cd":       "CD",
	"cassette": "Cassette",
	"tape":     "Cassette",
	"mc":       "Cassette",
}

// ParseFile reads records from path, dispatching on the file extension.
// ".json" parses as JSON; everything else parses as CSV.
func ParseFile(path string) ([]models.InputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrParse, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(f)
	}
	return ParseCSV(f)
}

// ParseCSV reads records from CSV input. The first row must be a header;
// column names are matched case-insensitively, with "title" and "release"
// accepted as aliases for "album".
func ParseCSV(r io.Reader) ([]models.InputRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header row: %v", shared.ErrParse, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "artist":
			columns["artist"] = i
		case "album", "title", "release":
			columns["album"] = i
		case "format":
			columns["format"] = i
		case "year":
			columns["year"] = i
		case "notes":
			columns["notes"] = i
		}
	}
	if _, ok := columns["artist"]; !ok {
		return nil, fmt.Errorf("%w: no artist column in header", shared.ErrParse)
	}
	if _, ok := columns["album"]; !ok {
		return nil, fmt.Errorf("%w: no album column in header", shared.ErrParse)
	}

	var records []models.InputRecord
	invalid := 0
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			invalid++
			continue
		}

		record := models.InputRecord{
			Artist:     field(row, columns, "artist"),
			Album:      field(row, columns, "album"),
			Format:     NormalizeFormat(field(row, columns, "format")),
			Notes:      field(row, columns, "notes"),
			LineNumber: line,
		}
		if y := field(row, columns, "year"); y != "" {
			record.Year, _ = strconv.Atoi(y)
		}

		if err := validate(record); err != nil {
			invalid++
			continue
		}
		records = append(records, record)
	}

	if err := checkInvalidRatio(len(records), invalid); err != nil {
		return nil, err
	}
	return records, nil
}

func field(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ParseJSON reads records from a JSON array of objects with artist, album,
// format, year and notes keys.
func ParseJSON(r io.Reader) ([]models.InputRecord, error) {
	var raw []models.InputRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrParse, err)
	}

	var records []models.InputRecord
	invalid := 0
	for i, record := range raw {
		record.Format = NormalizeFormat(record.Format)
		record.LineNumber = i + 1
		if err := validate(record); err != nil {
			invalid++
			continue
		}
		records = append(records, record)
	}

	if err := checkInvalidRatio(len(records), invalid); err != nil {
		return nil, err
	}
	return records, nil
}

// validate rejects records missing required fields or carrying an
// implausible year.
func validate(r models.InputRecord) error {
	if r.Artist == "" {
		return fmt.Errorf("%w: missing artist", shared.ErrInvalidInput)
	}
	if r.Album == "" {
		return fmt.Errorf("%w: missing album", shared.ErrInvalidInput)
	}
	if r.Year != 0 && (r.Year < minYear || r.Year > maxYear) {
		return fmt.Errorf("%w: year %d out of range", shared.ErrInvalidInput, r.Year)
	}
	return nil
}

// checkInvalidRatio rejects the file when invalid rows outnumber valid ones.
func checkInvalidRatio(valid, invalid int) error {
	if invalid > 0 && invalid > valid {
		return fmt.Errorf("%w: %d of %d rows invalid", shared.ErrParse, invalid, valid+invalid)
	}
	return nil
}

// NormalizeFormat maps common format spellings to catalog format names.
// Unrecognized values pass through trimmed.
func NormalizeFormat(format string) string {
	format = strings.TrimSpace(format)
	if normalized, ok := formatSynonyms[strings.ToLower(format)]; ok {
		return normalized
	}
	return format
}
