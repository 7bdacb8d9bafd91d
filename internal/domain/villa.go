package domain

import "time"

type VillaStatus string

const (
	VillaAvailable VillaStatus = "AVAILABLE"
	VillaSoldOut   VillaStatus = "SOLD_OUT"
)

type Villa struct {
	ID                 string
	Name               string
	Slug               string
	Location           string
	Price              float64
	Bedrooms           int
	Bathrooms          int
	Description        *string
	Images             []string
	Facilities         []string
	NearbyPlaces       []string
	IsFeatured         bool
	Status             VillaStatus
	DiscountPercentage float64

	// per-language marketing copy; nil when not provided
	NameTh        *string
	NameEn        *string
	NameCn        *string
	DescriptionTh *string
	DescriptionEn *string
	DescriptionCn *string
	LocationEn    *string
	LocationCn    *string
	FeaturesEn    *string
	FeaturesCn    *string

	MapEmbedURL *string
	Latitude    *float64
	Longitude   *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VillaSummary is the denormalized shape embedded in booking and lead
// responses.
type VillaSummary struct {
	ID   string
	Name string
	Slug string
}

type VillasQuery struct {
	// Q filters case-insensitively over name and location when non-empty.
	Q string
}
