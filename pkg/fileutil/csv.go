package fileutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// CSVReader provides a helper/utility to read delimited text file(s)
type CSVReader struct {
	FilePath  string
	Delimiter rune
}

// NewCSVReader returns a CSVReader instance for a specified file and field delimiter
func NewCSVReader(fp string, delimiter rune) *CSVReader {
	if delimiter == 0 {
		delimiter = ',' // Default delimiter
	}

	return &CSVReader{
		FilePath:  fp,
		Delimiter: delimiter,
	}
}

// NewReader wraps in with a csv.Reader configured for loosely formatted petition exports
func (r *CSVReader) NewReader(in io.Reader) *csv.Reader {
	reader := csv.NewReader(in)
	reader.Comma = r.Delimiter
	reader.FieldsPerRecord = -1 // Rows may be short, callers decide
	reader.LazyQuotes = true
	return reader
}

// ReadHeader reads ONLY the header of the specified file
func (r *CSVReader) ReadHeader() ([]string, error) {
	f, err := os.Open(r.FilePath)
	if err != nil {
		return nil, fmt.Errorf("opening a csv file: %w", err)
	}
	defer f.Close()

	header, err := r.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	return header, nil
}

// ReadAndProcessByRow reads and processes a file row by row, allows for streaming large file(s).
// processorFn receives the 1-based line number the row starts on.
func (r *CSVReader) ReadAndProcessByRow(processorFn func(line int, row []string) error) error {
	f, err := os.Open(r.FilePath)
	if err != nil {
		return fmt.Errorf("opening a csv file: %w", err)
	}
	defer f.Close()

	reader := r.NewReader(f)

	// Skip header
	_, err = reader.Read()
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}

	// read and process row by row
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break // end of file, stop
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if err = processorFn(line, row); err != nil {
			return err
		}
	}

	return nil
}
