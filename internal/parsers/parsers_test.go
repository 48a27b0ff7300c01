package parsers

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/discosync/internal/shared"
)

func TestParseCSV(t *testing.T) {
	t.Run("parses rows with header aliases", func(t *testing.T) {
		input := "Artist,Title,Format,Year,Notes\n" +
			"Radiohead,OK Computer,lp,1997,classic\n" +
			"Burial,Untrue,cd,2007,\n"

		records, err := ParseCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ParseCSV() error = %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("len(records) = %d, want 2", len(records))
		}

		first := records[0]
		if first.Artist != "Radiohead" || first.Album != "OK Computer" {
			t.Errorf("unexpected record: %+v", first)
		}
		if first.Format != "Vinyl" {
			t.Errorf("Format = %q, want Vinyl (normalized from lp)", first.Format)
		}
		if first.Year != 1997 || first.Notes != "classic" || first.LineNumber != 2 {
			t.Errorf("unexpected record: %+v", first)
		}
		if records[1].Format != "CD" {
			t.Errorf("Format = %q, want CD", records[1].Format)
		}
	})

	t.Run("tolerates a minority of invalid rows", func(t *testing.T) {
		input := "artist,album,year\n" +
			"Radiohead,OK Computer,1997\n" +
			",Missing Artist,2000\n" +
			"Burial,Untrue,2007\n"

		records, err := ParseCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ParseCSV() error = %v", err)
		}
		if len(records) != 2 {
			t.Errorf("len(records) = %d, want 2", len(records))
		}
	})

	t.Run("rejects files where invalid rows outnumber valid", func(t *testing.T) {
		input := "artist,album\n" +
			"Radiohead,OK Computer\n" +
			",missing\n" +
			",missing too\n"

		_, err := ParseCSV(strings.NewReader(input))
		if !errors.Is(err, shared.ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	})

	t.Run("rejects implausible years", func(t *testing.T) {
		input := "artist,album,year\n" +
			"Radiohead,OK Computer,1997\n" +
			"Burial,Untrue,1850\n" +
			"Nas,Illmatic,1994\n"

		records, err := ParseCSV(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ParseCSV() error = %v", err)
		}
		if len(records) != 2 {
			t.Errorf("len(records) = %d, want 2 (year 1850 dropped)", len(records))
		}
	})

	t.Run("requires artist and album columns", func(t *testing.T) {
		_, err := ParseCSV(strings.NewReader("artist,year\nRadiohead,1997\n"))
		if !errors.Is(err, shared.ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	})
}

func TestParseJSON(t *testing.T) {
	t.Run("parses an array of records", func(t *testing.T) {
		input := `[
			{"artist": "Radiohead", "album": "OK Computer", "format": "vinyl", "year": 1997},
			{"artist": "Burial", "album": "Untrue"}
		]`

		records, err := ParseJSON(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ParseJSON() error = %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("len(records) = %d, want 2", len(records))
		}
		if records[0].Format != "Vinyl" {
			t.Errorf("Format = %q, want Vinyl", records[0].Format)
		}
		if records[1].LineNumber != 2 {
			t.Errorf("LineNumber = %d, want 2", records[1].LineNumber)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := ParseJSON(strings.NewReader("{not json"))
		if !errors.Is(err, shared.ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	})
}

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"lp", "Vinyl"},
		{"LP", "Vinyl"},
		{"record", "Vinyl"},
		{"12\"", "Vinyl"},
		{"vinyl", "Vinyl"},
		{"cd", "CD"},
		{"tape", "Cassette"},
		{"MC", "Cassette"},
		{"cassette", "Cassette"},
		{"Flexi-disc", "Flexi-disc"},
		{"  cd  ", "CD"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeFormat(tt.in); got != tt.want {
			t.Errorf("NormalizeFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
