package domain

import "strings"

// NotAvailable marks a blank field so gaps stay visible in the reports
const NotAvailable = "N/A"

// CertifiedStatus is the status value counted by the aggregator
const CertifiedStatus = "CERTIFIED"

// PetitionRecord represents the normalized view of a single petition row
type PetitionRecord struct {
	Occupation string
	Status     string
	State      string
}

// NewPetitionRecord builds a record, replacing blank values with NotAvailable
func NewPetitionRecord(occupation, status, state string) PetitionRecord {
	return PetitionRecord{
		Occupation: normalize(occupation),
		Status:     normalize(status),
		State:      normalize(state),
	}
}

// IsCertified reports whether the petition status is CERTIFIED, ignoring case
func (r PetitionRecord) IsCertified() bool {
	return strings.ToUpper(r.Status) == CertifiedStatus
}

func normalize(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	return value
}
