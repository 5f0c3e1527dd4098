package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tirasundara/h1b-certified-stats/internal/domain"
	"github.com/tirasundara/h1b-certified-stats/pkg/fileutil"
)

const shortRowReason = "row has fewer fields than the header columns in use"

// CSVPetitionRepository implements the PetitionRepository interface for delimited text files
type CSVPetitionRepository struct {
	FilePath   string
	Delimiter  rune
	NumWorkers int
	BatchSize  int
	Observer   domain.Observer
}

// NewCSVPetitionRepository creates a new CSVPetitionRepository
func NewCSVPetitionRepository(fp string, delimiter rune, observer domain.Observer) *CSVPetitionRepository {
	if observer == nil {
		observer = domain.NopObserver{}
	}

	return &CSVPetitionRepository{
		FilePath:   fp,
		Delimiter:  delimiter,
		NumWorkers: 4,    // Default to 4 workers
		BatchSize:  1000, // Default to 1000 records per batch
		Observer:   observer,
	}
}

// readColumns reads the header and resolves the petition columns
func (r *CSVPetitionRepository) readColumns(reader *fileutil.CSVReader) (domain.ColumnMap, error) {
	header, err := reader.ReadHeader()
	if err != nil {
		return nil, fmt.Errorf("reading petition header: %w", err)
	}

	columnMap, err := ResolvePetitionColumns(header)
	if err != nil {
		return nil, fmt.Errorf("mapping petition columns of %s: %w", r.FilePath, err)
	}

	return columnMap, nil
}

// Aggregate tallies certified petitions by occupation and work state
func (r *CSVPetitionRepository) Aggregate() (domain.Tally, error) {
	reader := fileutil.NewCSVReader(r.FilePath, r.Delimiter)

	// Columns are validated before any data row is consumed
	columnMap, err := r.readColumns(reader)
	if err != nil {
		return domain.Tally{}, err
	}

	maxIndex := columnMap.MaxIndex()
	tally := domain.NewTally()

	var rowProcessorFn = func(line int, row []string) error {
		tally.RowsRead++

		// Skip if row doesn't have enough fields
		if len(row) <= maxIndex {
			tally.RowsSkipped++
			r.Observer.RowSkipped(r.FilePath, line, shortRowReason)
			return nil
		}

		tally.Add(columnMap.Record(row))
		return nil
	}

	// Process data row by row
	if err := reader.ReadAndProcessByRow(rowProcessorFn); err != nil {
		return domain.Tally{}, fmt.Errorf("processing petitions: %w", err)
	}

	r.Observer.RowsRead(r.FilePath, tally.RowsRead)
	return tally, nil
}

// numberedRow keeps the source line of a row for diagnostics
type numberedRow struct {
	line   int
	fields []string
}

// AggregateConcurrently parses and tallies rows with a pool of workers, good for handling huge files.
// The merged result is identical to Aggregate.
func (r *CSVPetitionRepository) AggregateConcurrently() (domain.Tally, error) {
	reader := fileutil.NewCSVReader(r.FilePath, r.Delimiter)

	columnMap, err := r.readColumns(reader)
	if err != nil {
		return domain.Tally{}, err
	}

	numWorkers := r.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}
	batchSize := r.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	f, err := os.Open(r.FilePath)
	if err != nil {
		return domain.Tally{}, fmt.Errorf("opening petition file: %w", err)
	}
	defer f.Close()

	csvReader := reader.NewReader(f)

	// Skip header
	if _, err := csvReader.Read(); err != nil {
		return domain.Tally{}, fmt.Errorf("reading petition header: %w", err)
	}

	// Set up concurrent processing
	jobs := make(chan []numberedRow, numWorkers)
	results := make(chan domain.Tally, numWorkers)
	errChan := make(chan error, 1)

	// Start the worker pool
	var wg sync.WaitGroup
	r.startWorkers(numWorkers, &wg, jobs, results, columnMap)

	// Start a goroutine to close results channel when all workers are done
	go func() {
		wg.Wait()
		close(results)
	}()

	// Read and distribute batches of rows to workers
	go func() {
		defer close(jobs) // Close jobs channel when done reading

		if err := readAndDistributeRows(csvReader, jobs, batchSize); err != nil {
			errChan <- err
		}
	}()

	// Collect results from workers
	tally := collectResults(results)

	select {
	case err := <-errChan:
		return domain.Tally{}, fmt.Errorf("processing petitions: %w", err)
	default:
		// No errors
	}

	r.Observer.RowsRead(r.FilePath, tally.RowsRead)
	return tally, nil
}

// readAndDistributeRows reads rows from the CSV reader then distributes them to Go workers
func readAndDistributeRows(csvReader *csv.Reader, jobs chan<- []numberedRow, batchSize int) error {
	batch := make([]numberedRow, 0, batchSize)

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}

		line, _ := csvReader.FieldPos(0)
		batch = append(batch, numberedRow{line: line, fields: record})

		// When batch is full, send it to a worker
		if len(batch) >= batchSize {
			jobs <- batch
			batch = make([]numberedRow, 0, batchSize)
		}
	}

	// Send any remaining rows in the last batch
	if len(batch) > 0 {
		jobs <- batch
	}

	return nil
}

// startWorkers creates a pool of worker goroutines, each producing a partial tally per batch
func (r *CSVPetitionRepository) startWorkers(numWorkers int, wg *sync.WaitGroup,
	jobs <-chan []numberedRow, results chan<- domain.Tally, columnMap domain.ColumnMap) {

	maxIndex := columnMap.MaxIndex()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for batch := range jobs {
				partial := domain.NewTally()

				for _, row := range batch {
					partial.RowsRead++

					// Skip if row doesn't have enough fields
					if len(row.fields) <= maxIndex {
						partial.RowsSkipped++
						r.Observer.RowSkipped(r.FilePath, row.line, shortRowReason)
						continue // Resilient. We try to process as much row as possible
					}

					partial.Add(columnMap.Record(row.fields))
				}

				results <- partial
			}
		}()
	}
}

// collectResults merges the partial tallies of all workers
func collectResults(results <-chan domain.Tally) domain.Tally {
	tally := domain.NewTally()

	for partial := range results {
		tally.Merge(partial)
	}

	return tally
}
