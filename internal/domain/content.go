package domain

import "time"

type HeroSlide struct {
	ID        string
	Title     string
	Subtitle  *string
	ImageURL  string
	CTALabel  *string
	CTAHref   *string
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
}

type Article struct {
	ID         string
	Title      string
	Slug       string
	Excerpt    *string
	Body       string
	CoverImage *string
	Published  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
