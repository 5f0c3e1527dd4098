package domain

import "github.com/shopspring/decimal"

// FrequencyTable maps a label (occupation or state) to its certified count
type FrequencyTable map[string]int

// Increment adds one occurrence of label
func (t FrequencyTable) Increment(label string) {
	t[label]++
}

// Merge adds every count of other into t
func (t FrequencyTable) Merge(other FrequencyTable) {
	for label, count := range other {
		t[label] += count
	}
}

// Tally holds the aggregates built from one pass over a petition file
type Tally struct {
	Occupations FrequencyTable
	States      FrequencyTable
	Certified   int

	// Diagnostics only
	RowsRead    int
	RowsSkipped int
}

// NewTally returns an empty Tally with initialized tables
func NewTally() Tally {
	return Tally{
		Occupations: make(FrequencyTable),
		States:      make(FrequencyTable),
	}
}

// Add counts a record when it is certified
func (t *Tally) Add(rec PetitionRecord) {
	if !rec.IsCertified() {
		return
	}

	t.Certified++
	t.Occupations.Increment(rec.Occupation)
	t.States.Increment(rec.State)
}

// Merge folds a partial tally into t
func (t *Tally) Merge(other Tally) {
	t.Occupations.Merge(other.Occupations)
	t.States.Merge(other.States)
	t.Certified += other.Certified
	t.RowsRead += other.RowsRead
	t.RowsSkipped += other.RowsSkipped
}

// CertifiedRate returns the share of data rows that were certified, in percent.
// It is zero when no row was read.
func (t Tally) CertifiedRate() decimal.Decimal {
	if t.RowsRead == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(int64(t.Certified)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(t.RowsRead)))
}
