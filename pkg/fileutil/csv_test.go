package fileutil_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tirasundara/h1b-certified-stats/pkg/fileutil"
)

func TestCSVReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.csv")
	content := "SOC_NAME;STATUS;WORKSITE_STATE\n\"NURSES; REGISTERED\";CERTIFIED;CA\nSHORT\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	reader := fileutil.NewCSVReader(path, ';')

	header, err := reader.ReadHeader()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expectedHeader := []string{"SOC_NAME", "STATUS", "WORKSITE_STATE"}
	if !reflect.DeepEqual(header, expectedHeader) {
		t.Errorf("Expected header %v, got %v", expectedHeader, header)
	}

	var rows [][]string
	var lines []int
	err = reader.ReadAndProcessByRow(func(line int, row []string) error {
		lines = append(lines, line)
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "NURSES; REGISTERED" {
		t.Errorf("Expected quoted field to keep its delimiter, got %q", rows[0][0])
	}
	if len(rows[1]) != 1 {
		t.Errorf("Expected short row to be returned with 1 field, got %d", len(rows[1]))
	}
	if !reflect.DeepEqual(lines, []int{2, 3}) {
		t.Errorf("Expected line numbers [2 3], got %v", lines)
	}
}
