package repository_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/tirasundara/h1b-certified-stats/internal/domain"
	"github.com/tirasundara/h1b-certified-stats/internal/repository"
)

type recordingObserver struct {
	mu       sync.Mutex
	rowsRead int
	skipped  []int
}

func (o *recordingObserver) RowsRead(source string, rows int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rowsRead = rows
}

func (o *recordingObserver) RowSkipped(source string, line int, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped = append(o.skipped, line)
}

func (o *recordingObserver) RowsWritten(destination string, rows int) {}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "h1b_input.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const roundTripInput = `CASE_NUMBER;CASE_STATUS;SOC_NAME;WORKSITE_STATE
I-1;CERTIFIED;Engineer;CA
I-2;CERTIFIED;Engineer;CA
I-3;DENIED;Nurse;TX
I-4;CERTIFIED;;
`

func TestCSVPetitionRepository_Aggregate(t *testing.T) {
	path := writeFile(t, roundTripInput)
	observer := &recordingObserver{}
	repo := repository.NewCSVPetitionRepository(path, ';', observer)

	tally, err := repo.Aggregate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tally.Certified != 3 {
		t.Errorf("Expected 3 certified petitions, got %d", tally.Certified)
	}

	expectedOccupations := domain.FrequencyTable{"Engineer": 2, "N/A": 1}
	if !reflect.DeepEqual(tally.Occupations, expectedOccupations) {
		t.Errorf("Expected occupations %v, got %v", expectedOccupations, tally.Occupations)
	}

	expectedStates := domain.FrequencyTable{"CA": 2, "N/A": 1}
	if !reflect.DeepEqual(tally.States, expectedStates) {
		t.Errorf("Expected states %v, got %v", expectedStates, tally.States)
	}

	if tally.RowsRead != 4 || observer.rowsRead != 4 {
		t.Errorf("Expected 4 rows read, got %d (observer %d)", tally.RowsRead, observer.rowsRead)
	}

	// Running twice yields the same aggregates
	again, err := repo.Aggregate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(tally, again) {
		t.Errorf("Expected identical tallies, got %+v and %+v", tally, again)
	}
}

func TestCSVPetitionRepository_Aggregate_JustHeaders(t *testing.T) {
	path := writeFile(t, "SOC_NAME;CASE_STATUS;WORKSITE_STATE\n")
	repo := repository.NewCSVPetitionRepository(path, ';', nil)

	tally, err := repo.Aggregate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(tally.Occupations) != 0 || len(tally.States) != 0 || tally.Certified != 0 {
		t.Errorf("Expected empty tally, got %+v", tally)
	}
}

func TestCSVPetitionRepository_Aggregate_MissingColumns(t *testing.T) {
	path := writeFile(t, "SOC_NAME;CASE_STATUS;EMPLOYER_STATE\nEngineer;CERTIFIED;CA\n")
	observer := &recordingObserver{}
	repo := repository.NewCSVPetitionRepository(path, ';', observer)

	tally, err := repo.Aggregate()
	if !errors.Is(err, domain.ErrMissingColumns) {
		t.Fatalf("Expected ErrMissingColumns, got %v", err)
	}

	if tally.Occupations != nil || tally.States != nil {
		t.Errorf("Expected no tables on failure, got %+v", tally)
	}
	if observer.rowsRead != 0 {
		t.Errorf("Expected no data row to be read, got %d", observer.rowsRead)
	}

	if _, err := repo.AggregateConcurrently(); !errors.Is(err, domain.ErrMissingColumns) {
		t.Errorf("Expected ErrMissingColumns from concurrent aggregation, got %v", err)
	}
}

func TestCSVPetitionRepository_Aggregate_ShortRows(t *testing.T) {
	content := "SOC_NAME,CASE_STATUS,WORKSITE_STATE\n" +
		"Engineer,CERTIFIED,CA\n" +
		"Engineer,CERTIFIED\n" +
		"Nurse,certified,NY\n"
	path := writeFile(t, content)
	observer := &recordingObserver{}
	repo := repository.NewCSVPetitionRepository(path, ',', observer)

	tally, err := repo.Aggregate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if tally.Certified != 2 {
		t.Errorf("Expected 2 certified petitions, got %d", tally.Certified)
	}
	if tally.RowsRead != 3 || tally.RowsSkipped != 1 {
		t.Errorf("Expected 3 rows read and 1 skipped, got %d and %d", tally.RowsRead, tally.RowsSkipped)
	}
	if !reflect.DeepEqual(observer.skipped, []int{3}) {
		t.Errorf("Expected line 3 to be reported as skipped, got %v", observer.skipped)
	}
}

func TestCSVPetitionRepository_AggregateConcurrently(t *testing.T) {
	occupations := []string{"Engineer", "Nurse", "Teacher", "", "Analyst, Systems"}
	statuses := []string{"CERTIFIED", "DENIED", "certified", "WITHDRAWN", " "}
	states := []string{"CA", "TX", "NY", "", "WA", "FL"}

	var sb strings.Builder
	sb.WriteString("CASE_STATUS\tSOC_NAME\tWORKSITE_STATE\n")
	for i := 0; i < 2500; i++ {
		sb.WriteString(statuses[i%len(statuses)] + "\t" + occupations[i%len(occupations)] + "\t" + states[i%len(states)] + "\n")
		if i%97 == 0 {
			sb.WriteString("short\n")
		}
	}

	path := writeFile(t, sb.String())
	repo := repository.NewCSVPetitionRepository(path, '\t', nil)
	repo.NumWorkers = 3
	repo.BatchSize = 64

	sequential, err := repo.Aggregate()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	concurrent, err := repo.AggregateConcurrently()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !reflect.DeepEqual(sequential, concurrent) {
		t.Errorf("Expected concurrent tally to equal sequential tally:\n%+v\n%+v", sequential, concurrent)
	}
	if sequential.RowsSkipped == 0 {
		t.Errorf("Expected short rows to be skipped")
	}
}
