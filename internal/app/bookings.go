package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"baanmae/internal/domain"
)

type BookingService struct {
	repo     domain.BookingRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewBookingService(r domain.BookingRepository, c domain.Cache, ttl time.Duration) *BookingService {
	return &BookingService{repo: r, cache: c, cacheTTL: ttl}
}

type CreateBookingInput struct {
	VillaID   string
	StartDate string
	EndDate   string
	Status    string
	Notes     string
}

// parseDate accepts plain calendar dates and RFC3339 timestamps.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Create validates in a fixed order: required fields, then date
// parsing, then range direction. The store performs the overlap check,
// the villa lookup and the insert in one transaction; conflicts come
// back as ErrConflict, a missing villa as ErrNotFound.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (domain.BookingWithVilla, error) {
	if strings.TrimSpace(in.VillaID) == "" || strings.TrimSpace(in.StartDate) == "" || strings.TrimSpace(in.EndDate) == "" {
		return domain.BookingWithVilla{}, fmt.Errorf("%w: missing required fields: villaId, startDate, endDate", domain.ErrValidation)
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return domain.BookingWithVilla{}, fmt.Errorf("%w: invalid date format", domain.ErrValidation)
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		return domain.BookingWithVilla{}, fmt.Errorf("%w: invalid date format", domain.ErrValidation)
	}
	if !start.Before(end) {
		return domain.BookingWithVilla{}, fmt.Errorf("%w: start date must be before end date", domain.ErrValidation)
	}

	status := domain.BookingBooked
	if in.Status != "" {
		status = domain.BookingStatus(in.Status)
	}

	b := domain.Booking{
		ID:        uuid.NewString(),
		VillaID:   strings.TrimSpace(in.VillaID),
		StartDate: start,
		EndDate:   end,
		Status:    status,
		Notes:     optStr(in.Notes),
	}

	out, err := s.repo.CreateBooking(ctx, b)
	if err != nil {
		return domain.BookingWithVilla{}, err
	}
	s.invalidateAvailability(ctx, out.VillaID)
	return out, nil
}

func (s *BookingService) List(ctx context.Context) ([]domain.BookingWithVilla, error) {
	return s.repo.ListBookings(ctx)
}

// ListForVilla is the public availability feed: BOOKED ranges only,
// start ascending, served through the cache.
func (s *BookingService) ListForVilla(ctx context.Context, villaID string) ([]domain.Booking, error) {
	key := "villa-bookings:" + villaID
	var out []domain.Booking
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.repo.ListVillaBookings(ctx, villaID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	villaID, err := s.repo.DeleteBooking(ctx, id)
	if err != nil {
		return err
	}
	s.invalidateAvailability(ctx, villaID)
	return nil
}

func (s *BookingService) invalidateAvailability(ctx context.Context, villaID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, "villa-bookings:"+villaID)
}
