package domain

import "context"

type VillaRepository interface {
	// CreateVilla returns ErrConflict when the slug is already taken.
	CreateVilla(ctx context.Context, v Villa) (Villa, error)
	UpdateVilla(ctx context.Context, v Villa) (Villa, error)
	DeleteVilla(ctx context.Context, id string) error
	GetVilla(ctx context.Context, id string) (Villa, error)
	GetVillaBySlug(ctx context.Context, slug string) (Villa, error)
	ListVillas(ctx context.Context, q VillasQuery) ([]Villa, error)
}

type BookingRepository interface {
	// CreateBooking runs the overlap check, the villa existence check
	// and the insert inside a single transaction. Returns ErrConflict
	// when the range overlaps an existing BOOKED booking, ErrNotFound
	// when the villa is absent (checked after the overlap).
	CreateBooking(ctx context.Context, b Booking) (BookingWithVilla, error)
	ListBookings(ctx context.Context) ([]BookingWithVilla, error)
	// ListVillaBookings returns BOOKED bookings for one villa, start
	// date ascending. Public availability path.
	ListVillaBookings(ctx context.Context, villaID string) ([]Booking, error)
	// DeleteBooking reports the villa the booking belonged to so the
	// caller can evict its availability cache.
	DeleteBooking(ctx context.Context, id string) (villaID string, err error)
}

type LeadRepository interface {
	CreateLead(ctx context.Context, l Lead) (Lead, error)
	ListLeads(ctx context.Context) ([]LeadWithVilla, error)
	UpdateLeadStatus(ctx context.Context, id string, status LeadStatus) (Lead, error)
}

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpsertUser(ctx context.Context, u User) error
}

type ContentRepository interface {
	CreateHeroSlide(ctx context.Context, s HeroSlide) (HeroSlide, error)
	UpdateHeroSlide(ctx context.Context, s HeroSlide) (HeroSlide, error)
	DeleteHeroSlide(ctx context.Context, id string) error
	ListHeroSlides(ctx context.Context, activeOnly bool) ([]HeroSlide, error)

	CreateArticle(ctx context.Context, a Article) (Article, error)
	UpdateArticle(ctx context.Context, a Article) (Article, error)
	DeleteArticle(ctx context.Context, id string) error
	GetArticleBySlug(ctx context.Context, slug string) (Article, error)
	ListArticles(ctx context.Context, publishedOnly bool) ([]Article, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Notifier delivers a best-effort text message to the sales channel.
type Notifier interface {
	Push(ctx context.Context, text string) error
}
