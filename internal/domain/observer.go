package domain

// Observer receives pipeline diagnostics. Implementations must be safe for
// concurrent use, workers report skipped rows in parallel.
type Observer interface {
	// RowsRead is called once a source has been fully consumed
	RowsRead(source string, rows int)

	// RowSkipped is called for every data row that could not be used
	RowSkipped(source string, line int, reason string)

	// RowsWritten is called after a report has been written
	RowsWritten(destination string, rows int)
}

// NopObserver discards all diagnostics
type NopObserver struct{}

func (NopObserver) RowsRead(string, int)           {}
func (NopObserver) RowSkipped(string, int, string) {}
func (NopObserver) RowsWritten(string, int)        {}
