package httpserver

import (
	"time"

	"baanmae/internal/domain"
)

// Wire shapes. Dates travel as RFC3339 timestamps, day-granular fields
// as YYYY-MM-DD.

const dateLayout = "2006-01-02"

type villaDTO struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Slug               string   `json:"slug"`
	Location           string   `json:"location"`
	Price              float64  `json:"price"`
	Bedrooms           int      `json:"bedrooms"`
	Bathrooms          int      `json:"bathrooms"`
	Description        *string  `json:"description,omitempty"`
	Images             []string `json:"images"`
	Facilities         []string `json:"facilities"`
	NearbyPlaces       []string `json:"nearbyPlaces"`
	IsFeatured         bool     `json:"isFeatured"`
	Status             string   `json:"status"`
	DiscountPercentage float64  `json:"discountPercentage"`
	NameTh             *string  `json:"nameTh,omitempty"`
	NameEn             *string  `json:"nameEn,omitempty"`
	NameCn             *string  `json:"nameCn,omitempty"`
	DescriptionTh      *string  `json:"descriptionTh,omitempty"`
	DescriptionEn      *string  `json:"descriptionEn,omitempty"`
	DescriptionCn      *string  `json:"descriptionCn,omitempty"`
	LocationEn         *string  `json:"locationEn,omitempty"`
	LocationCn         *string  `json:"locationCn,omitempty"`
	FeaturesEn         *string  `json:"featuresEn,omitempty"`
	FeaturesCn         *string  `json:"featuresCn,omitempty"`
	MapEmbedURL        *string  `json:"mapEmbedUrl,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	CreatedAt          string   `json:"createdAt"`
	UpdatedAt          string   `json:"updatedAt"`
}

func toVillaDTO(v domain.Villa) villaDTO {
	return villaDTO{
		ID: v.ID, Name: v.Name, Slug: v.Slug, Location: v.Location,
		Price: v.Price, Bedrooms: v.Bedrooms, Bathrooms: v.Bathrooms,
		Description: v.Description, Images: v.Images, Facilities: v.Facilities,
		NearbyPlaces: v.NearbyPlaces, IsFeatured: v.IsFeatured,
		Status: string(v.Status), DiscountPercentage: v.DiscountPercentage,
		NameTh: v.NameTh, NameEn: v.NameEn, NameCn: v.NameCn,
		DescriptionTh: v.DescriptionTh, DescriptionEn: v.DescriptionEn, DescriptionCn: v.DescriptionCn,
		LocationEn: v.LocationEn, LocationCn: v.LocationCn,
		FeaturesEn: v.FeaturesEn, FeaturesCn: v.FeaturesCn,
		MapEmbedURL: v.MapEmbedURL, Latitude: v.Latitude, Longitude: v.Longitude,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.Format(time.RFC3339),
	}
}

func toVillaDTOs(vs []domain.Villa) []villaDTO {
	out := make([]villaDTO, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVillaDTO(v))
	}
	return out
}

type villaSummaryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type bookingDTO struct {
	ID        string           `json:"id"`
	VillaID   string           `json:"villaId"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Status    string           `json:"status"`
	Notes     *string          `json:"notes,omitempty"`
	CreatedAt string           `json:"createdAt"`
	Villa     *villaSummaryDTO `json:"villa,omitempty"`
}

func toBookingDTO(b domain.Booking) bookingDTO {
	return bookingDTO{
		ID: b.ID, VillaID: b.VillaID,
		StartDate: b.StartDate.Format(dateLayout),
		EndDate:   b.EndDate.Format(dateLayout),
		Status:    string(b.Status),
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func toBookingWithVillaDTO(b domain.BookingWithVilla) bookingDTO {
	dto := toBookingDTO(b.Booking)
	dto.Villa = &villaSummaryDTO{ID: b.Villa.ID, Name: b.Villa.Name, Slug: b.Villa.Slug}
	return dto
}

// availabilityDTO is the reduced public shape: no notes, no villa join.
type availabilityDTO struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

func toAvailabilityDTOs(bs []domain.Booking) []availabilityDTO {
	out := make([]availabilityDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, availabilityDTO{
			ID:        b.ID,
			StartDate: b.StartDate.Format(dateLayout),
			EndDate:   b.EndDate.Format(dateLayout),
			Status:    string(b.Status),
		})
	}
	return out
}

type leadDTO struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Tel       string           `json:"tel"`
	LineID    *string          `json:"lineId,omitempty"`
	VisitDate *string          `json:"visitDate,omitempty"`
	Message   *string          `json:"message,omitempty"`
	VillaID   *string          `json:"villaId,omitempty"`
	Status    string           `json:"status"`
	CreatedAt string           `json:"createdAt"`
	Villa     *villaSummaryDTO `json:"villa,omitempty"`
}

func toLeadDTO(l domain.Lead) leadDTO {
	dto := leadDTO{
		ID: l.ID, Name: l.Name, Tel: l.Tel,
		LineID: l.LineID, Message: l.Message, VillaID: l.VillaID,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if l.VisitDate != nil {
		s := l.VisitDate.Format(dateLayout)
		dto.VisitDate = &s
	}
	return dto
}

func toLeadWithVillaDTO(l domain.LeadWithVilla) leadDTO {
	dto := toLeadDTO(l.Lead)
	if l.Villa != nil {
		dto.Villa = &villaSummaryDTO{ID: l.Villa.ID, Name: l.Villa.Name, Slug: l.Villa.Slug}
	}
	return dto
}

type heroSlideDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Subtitle  *string `json:"subtitle,omitempty"`
	ImageURL  string  `json:"imageUrl"`
	CTALabel  *string `json:"ctaLabel,omitempty"`
	CTAHref   *string `json:"ctaHref,omitempty"`
	SortOrder int     `json:"sortOrder"`
	IsActive  bool    `json:"isActive"`
}

func toHeroSlideDTO(s domain.HeroSlide) heroSlideDTO {
	return heroSlideDTO{
		ID: s.ID, Title: s.Title, Subtitle: s.Subtitle, ImageURL: s.ImageURL,
		CTALabel: s.CTALabel, CTAHref: s.CTAHref,
		SortOrder: s.SortOrder, IsActive: s.IsActive,
	}
}

type articleDTO struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Excerpt    *string `json:"excerpt,omitempty"`
	Body       string  `json:"body"`
	CoverImage *string `json:"coverImage,omitempty"`
	Published  bool    `json:"published"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

func toArticleDTO(a domain.Article) articleDTO {
	return articleDTO{
		ID: a.ID, Title: a.Title, Slug: a.Slug, Excerpt: a.Excerpt,
		Body: a.Body, CoverImage: a.CoverImage, Published: a.Published,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}
