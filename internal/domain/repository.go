package domain

// PetitionRepository defines the interface for aggregating petition records
type PetitionRepository interface {
	// Aggregate tallies certified petitions in a single sequential pass
	Aggregate() (Tally, error)

	// AggregateConcurrently is a concurrent version of Aggregate()
	AggregateConcurrently() (Tally, error)
}
