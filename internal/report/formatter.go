package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tirasundara/h1b-certified-stats/internal/domain"
)

// Report column names
const (
	CountColumn      = "NUMBER_CERTIFIED_APPLICATIONS"
	PercentageColumn = "PERCENTAGE"
)

// Report is a ranked frequency table ready to be rendered
type Report struct {
	FieldLabel  string // Name of the first column, e.g. TOP_OCCUPATIONS
	Entries     []Entry
	Denominator int
}

// NewReport ranks table and keeps the top DefaultTopEntries entries
func NewReport(fieldLabel string, table domain.FrequencyTable, denominator int) Report {
	return Report{
		FieldLabel:  fieldLabel,
		Entries:     Rank(table, DefaultTopEntries),
		Denominator: denominator,
	}
}

// OutputFormatter defines the interface for formatting ranked reports
type OutputFormatter interface {
	Format(r Report) ([]byte, error)
	FileExtension() string
}

// DelimitedFormatter formats ranked reports as delimited text
type DelimitedFormatter struct {
	Delimiter rune
}

// NewSemicolonFormatter returns the formatter used for the published reports
func NewSemicolonFormatter() *DelimitedFormatter {
	return &DelimitedFormatter{
		Delimiter: ';',
	}
}

// Format implements the OutputFormatter interface for delimited text
func (f *DelimitedFormatter) Format(r Report) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	w.Comma = f.Delimiter

	if err := w.Write([]string{r.FieldLabel, CountColumn, PercentageColumn}); err != nil {
		return nil, fmt.Errorf("writing report header: %w", err)
	}

	for _, entry := range r.Entries {
		row := []string{entry.Label, strconv.Itoa(entry.Count), Percentage(entry.Count, r.Denominator)}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing report row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing report: %w", err)
	}

	return buf.Bytes(), nil
}

func (f *DelimitedFormatter) FileExtension() string {
	return "txt"
}

// Rendered is a formatted report waiting to be written
type Rendered struct {
	Path string
	Rows int
	Data []byte
}

// Render formats r for the destination path
func Render(path string, r Report, formatter OutputFormatter) (Rendered, error) {
	data, err := formatter.Format(r)
	if err != nil {
		return Rendered{}, fmt.Errorf("formatting %s: %w", r.FieldLabel, err)
	}

	return Rendered{Path: path, Rows: len(r.Entries), Data: data}, nil
}

// WriteAll writes every rendered report or none of them. Each report goes to a
// temporary file in its destination directory first; the files are renamed into
// place only once all of them were written, and on any failure the temporary
// and already renamed files are removed.
func WriteAll(observer domain.Observer, reports ...Rendered) error {
	temps := make([]string, 0, len(reports))
	cleanup := func() {
		for _, tmp := range temps {
			os.Remove(tmp)
		}
	}

	for _, r := range reports {
		tmp, err := writeTemp(r)
		if err != nil {
			cleanup()
			return err
		}
		temps = append(temps, tmp)
	}

	for i, r := range reports {
		if err := os.Rename(temps[i], r.Path); err != nil {
			for _, done := range reports[:i] {
				os.Remove(done.Path)
			}
			temps = temps[i:]
			cleanup()
			return fmt.Errorf("moving report into place: %w", err)
		}
	}

	for _, r := range reports {
		observer.RowsWritten(r.Path, r.Rows)
	}

	return nil
}

func writeTemp(r Rendered) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(r.Path), "."+filepath.Base(r.Path)+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}

	if _, err := f.Write(r.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("writing report file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("closing report file: %w", err)
	}

	if err := os.Chmod(f.Name(), 0644); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("setting report file mode: %w", err)
	}

	return f.Name(), nil
}
