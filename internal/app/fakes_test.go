package app_test

import (
	"context"
	"fmt"
	"sync"

	"baanmae/internal/domain"
)

// ---- shared fakes ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
	sets  int
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Villa:
		*d = v.(domain.Villa)
	case *[]domain.Booking:
		*d = v.([]domain.Booking)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakeVillaRepo struct {
	mu     sync.Mutex
	villas map[string]domain.Villa // by id
}

func newFakeVillaRepo() *fakeVillaRepo {
	return &fakeVillaRepo{villas: map[string]domain.Villa{}}
}

func (r *fakeVillaRepo) CreateVilla(ctx context.Context, v domain.Villa) (domain.Villa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.villas {
		if existing.Slug == v.Slug {
			return domain.Villa{}, fmt.Errorf("%w: slug %q already exists", domain.ErrConflict, v.Slug)
		}
	}
	r.villas[v.ID] = v
	return v, nil
}

func (r *fakeVillaRepo) UpdateVilla(ctx context.Context, v domain.Villa) (domain.Villa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.villas[v.ID]; !ok {
		return domain.Villa{}, domain.ErrNotFound
	}
	r.villas[v.ID] = v
	return v, nil
}

func (r *fakeVillaRepo) DeleteVilla(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.villas[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.villas, id)
	return nil
}

func (r *fakeVillaRepo) GetVilla(ctx context.Context, id string) (domain.Villa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.villas[id]
	if !ok {
		return domain.Villa{}, domain.ErrNotFound
	}
	return v, nil
}

func (r *fakeVillaRepo) GetVillaBySlug(ctx context.Context, slug string) (domain.Villa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.villas {
		if v.Slug == slug {
			return v, nil
		}
	}
	return domain.Villa{}, domain.ErrNotFound
}

func (r *fakeVillaRepo) ListVillas(ctx context.Context, q domain.VillasQuery) ([]domain.Villa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Villa
	for _, v := range r.villas {
		out = append(out, v)
	}
	return out, nil
}

// fakeBookingRepo honors the same contract as the MySQL repo: overlap
// first, then villa existence, then insert.
type fakeBookingRepo struct {
	mu       sync.Mutex
	villas   map[string]domain.VillaSummary
	bookings []domain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{villas: map[string]domain.VillaSummary{}}
}

func (r *fakeBookingRepo) CreateBooking(ctx context.Context, b domain.Booking) (domain.BookingWithVilla, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.bookings {
		if e.VillaID != b.VillaID || e.Status != domain.BookingBooked {
			continue
		}
		if domain.RangesOverlap(b.StartDate, b.EndDate, e.StartDate, e.EndDate) {
			return domain.BookingWithVilla{}, fmt.Errorf("%w: booking dates overlap with existing booking", domain.ErrConflict)
		}
	}
	vs, ok := r.villas[b.VillaID]
	if !ok {
		return domain.BookingWithVilla{}, fmt.Errorf("%w: villa not found", domain.ErrNotFound)
	}
	r.bookings = append(r.bookings, b)
	return domain.BookingWithVilla{Booking: b, Villa: vs}, nil
}

func (r *fakeBookingRepo) ListBookings(ctx context.Context) ([]domain.BookingWithVilla, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.BookingWithVilla
	for _, b := range r.bookings {
		out = append(out, domain.BookingWithVilla{Booking: b, Villa: r.villas[b.VillaID]})
	}
	return out, nil
}

func (r *fakeBookingRepo) ListVillaBookings(ctx context.Context, villaID string) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.bookings {
		if b.VillaID == villaID && b.Status == domain.BookingBooked {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) DeleteBooking(ctx context.Context, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bookings {
		if b.ID == id {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			return b.VillaID, nil
		}
	}
	return "", domain.ErrNotFound
}

type fakeLeadRepo struct {
	mu    sync.Mutex
	leads []domain.Lead
}

func (r *fakeLeadRepo) CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = append(r.leads, l)
	return l, nil
}

func (r *fakeLeadRepo) ListLeads(ctx context.Context) ([]domain.LeadWithVilla, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.LeadWithVilla
	for _, l := range r.leads {
		out = append(out, domain.LeadWithVilla{Lead: l})
	}
	return out, nil
}

func (r *fakeLeadRepo) UpdateLeadStatus(ctx context.Context, id string, status domain.LeadStatus) (domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.leads {
		if l.ID == id {
			r.leads[i].Status = status
			return r.leads[i], nil
		}
	}
	return domain.Lead{}, domain.ErrNotFound
}

// fakeNotifier records pushes on a channel so tests can await the
// fire-and-forget dispatch.
type fakeNotifier struct {
	sent chan string
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan string, 8)}
}

func (n *fakeNotifier) Push(ctx context.Context, text string) error {
	n.sent <- text
	return n.err
}

// ---- helpers ----

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
