package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"baanmae/internal/domain"
)

type VillaService struct {
	repo     domain.VillaRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewVillaService(r domain.VillaRepository, c domain.Cache, ttl time.Duration) *VillaService {
	return &VillaService{repo: r, cache: c, cacheTTL: ttl}
}

// CreateVillaInput carries the admin payload. Price is a pointer so a
// missing price is distinguishable from an explicit zero.
type CreateVillaInput struct {
	Name               string
	Slug               string
	Location           string
	Price              *float64
	Bedrooms           float64
	Bathrooms          float64
	Description        string
	Images             []string
	Facilities         []string
	NearbyPlaces       []string
	IsFeatured         bool
	Status             string
	DiscountPercentage float64

	NameTh, NameEn, NameCn                      string
	DescriptionTh, DescriptionEn, DescriptionCn string
	LocationEn, LocationCn                      string
	FeaturesEn, FeaturesCn                      string

	MapEmbedURL string
	Latitude    *float64
	Longitude   *float64
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeSlug replaces every whitespace run with a single hyphen and
// lowercases the result. Leading and trailing whitespace is stripped
// first so "My Villa " becomes "my-villa", not "my-villa-".
func NormalizeSlug(s string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(s), "-"))
}

func (s *VillaService) Create(ctx context.Context, in CreateVillaInput) (domain.Villa, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Slug) == "" ||
		strings.TrimSpace(in.Location) == "" || in.Price == nil {
		return domain.Villa{}, fmt.Errorf("%w: missing required fields: name, slug, location, price", domain.ErrValidation)
	}

	status := domain.VillaAvailable
	if in.Status == string(domain.VillaSoldOut) {
		status = domain.VillaSoldOut
	}

	v := domain.Villa{
		ID:                 uuid.NewString(),
		Name:               in.Name,
		Slug:               NormalizeSlug(in.Slug),
		Location:           in.Location,
		Price:              *in.Price,
		Bedrooms:           int(in.Bedrooms),
		Bathrooms:          int(in.Bathrooms),
		Description:        optStr(in.Description),
		Images:             orEmpty(in.Images),
		Facilities:         orEmpty(in.Facilities),
		NearbyPlaces:       orEmpty(in.NearbyPlaces),
		IsFeatured:         in.IsFeatured,
		Status:             status,
		DiscountPercentage: in.DiscountPercentage,
		NameTh:             optStr(in.NameTh),
		NameEn:             optStr(in.NameEn),
		NameCn:             optStr(in.NameCn),
		DescriptionTh:      optStr(in.DescriptionTh),
		DescriptionEn:      optStr(in.DescriptionEn),
		DescriptionCn:      optStr(in.DescriptionCn),
		LocationEn:         optStr(in.LocationEn),
		LocationCn:         optStr(in.LocationCn),
		FeaturesEn:         optStr(in.FeaturesEn),
		FeaturesCn:         optStr(in.FeaturesCn),
		MapEmbedURL:        optStr(in.MapEmbedURL),
		Latitude:           in.Latitude,
		Longitude:          in.Longitude,
	}

	out, err := s.repo.CreateVilla(ctx, v)
	if err != nil {
		return domain.Villa{}, err
	}
	s.invalidate(ctx, out.Slug)
	return out, nil
}

func (s *VillaService) Update(ctx context.Context, v domain.Villa) (domain.Villa, error) {
	if strings.TrimSpace(v.Name) == "" || strings.TrimSpace(v.Slug) == "" ||
		strings.TrimSpace(v.Location) == "" {
		return domain.Villa{}, fmt.Errorf("%w: missing required fields: name, slug, location", domain.ErrValidation)
	}
	v.Slug = NormalizeSlug(v.Slug)
	out, err := s.repo.UpdateVilla(ctx, v)
	if err != nil {
		return domain.Villa{}, err
	}
	s.invalidate(ctx, out.Slug)
	return out, nil
}

func (s *VillaService) Delete(ctx context.Context, id string) error {
	v, err := s.repo.GetVilla(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteVilla(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, v.Slug)
	return nil
}

// List is the admin search path; it always hits the store so the back
// office sees writes immediately.
func (s *VillaService) List(ctx context.Context, q domain.VillasQuery) ([]domain.Villa, error) {
	q.Q = strings.TrimSpace(q.Q)
	return s.repo.ListVillas(ctx, q)
}

// GetBySlug serves the public villa page through the cache.
func (s *VillaService) GetBySlug(ctx context.Context, slug string) (domain.Villa, error) {
	key := "villa:slug:" + slug
	var v domain.Villa
	if ok, _ := s.cache.Get(ctx, key, &v); ok {
		return v, nil
	}
	v, err := s.repo.GetVillaBySlug(ctx, slug)
	if err != nil {
		return domain.Villa{}, err
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
	return v, nil
}

func (s *VillaService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, "villa:slug:"+slug)
}

func optStr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func orEmpty(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
