package domain

import "time"

type BookingStatus string

const (
	BookingBooked    BookingStatus = "BOOKED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID        string
	VillaID   string
	StartDate time.Time
	EndDate   time.Time
	Status    BookingStatus
	Notes     *string
	CreatedAt time.Time
}

// BookingWithVilla pairs a booking with a summary of its villa for
// admin listings and create responses.
type BookingWithVilla struct {
	Booking
	Villa VillaSummary
}

// RangesOverlap reports whether [aStart,aEnd] conflicts with
// [bStart,bEnd]. Endpoints are inclusive on both sides: a booking
// ending on day D conflicts with one starting on day D. Checkout and
// checkin never share a calendar day on the same villa.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !bStart.After(aStart) && !aStart.After(bEnd) { // bStart <= aStart <= bEnd
		return true
	}
	if !bStart.After(aEnd) && !aEnd.After(bEnd) { // bStart <= aEnd <= bEnd
		return true
	}
	if !aStart.After(bStart) && !bEnd.After(aEnd) { // aStart <= bStart && bEnd <= aEnd
		return true
	}
	return false
}
