package domain

import "time"

type LeadStatus string

const (
	LeadNew       LeadStatus = "NEW"
	LeadContacted LeadStatus = "CONTACTED"
	LeadClosed    LeadStatus = "CLOSED"
)

type Lead struct {
	ID        string
	Name      string
	Tel       string
	LineID    *string
	VisitDate *time.Time
	Message   *string
	VillaID   *string
	Status    LeadStatus
	CreatedAt time.Time
}

// LeadWithVilla carries the optional villa summary for admin listings
// and the CSV export. Villa is nil when the lead named no villa or the
// referenced villa no longer exists.
type LeadWithVilla struct {
	Lead
	Villa *VillaSummary
}
