package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"baanmae/internal/domain"
)

// ContentService manages the marketing surfaces of the site: hero
// slides on the landing page and articles.
type ContentService struct {
	repo domain.ContentRepository
}

func NewContentService(r domain.ContentRepository) *ContentService {
	return &ContentService{repo: r}
}

type HeroSlideInput struct {
	Title     string
	Subtitle  string
	ImageURL  string
	CTALabel  string
	CTAHref   string
	SortOrder int
	IsActive  bool
}

func (s *ContentService) CreateHeroSlide(ctx context.Context, in HeroSlideInput) (domain.HeroSlide, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.ImageURL) == "" {
		return domain.HeroSlide{}, fmt.Errorf("%w: title and imageUrl are required", domain.ErrValidation)
	}
	return s.repo.CreateHeroSlide(ctx, domain.HeroSlide{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Subtitle:  optStr(in.Subtitle),
		ImageURL:  in.ImageURL,
		CTALabel:  optStr(in.CTALabel),
		CTAHref:   optStr(in.CTAHref),
		SortOrder: in.SortOrder,
		IsActive:  in.IsActive,
	})
}

func (s *ContentService) UpdateHeroSlide(ctx context.Context, slide domain.HeroSlide) (domain.HeroSlide, error) {
	if strings.TrimSpace(slide.Title) == "" || strings.TrimSpace(slide.ImageURL) == "" {
		return domain.HeroSlide{}, fmt.Errorf("%w: title and imageUrl are required", domain.ErrValidation)
	}
	return s.repo.UpdateHeroSlide(ctx, slide)
}

func (s *ContentService) DeleteHeroSlide(ctx context.Context, id string) error {
	return s.repo.DeleteHeroSlide(ctx, id)
}

// ListHeroSlides with activeOnly=true is the public landing-page feed.
func (s *ContentService) ListHeroSlides(ctx context.Context, activeOnly bool) ([]domain.HeroSlide, error) {
	return s.repo.ListHeroSlides(ctx, activeOnly)
}

type ArticleInput struct {
	Title      string
	Slug       string
	Excerpt    string
	Body       string
	CoverImage string
	Published  bool
}

func (s *ContentService) CreateArticle(ctx context.Context, in ArticleInput) (domain.Article, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Slug) == "" || strings.TrimSpace(in.Body) == "" {
		return domain.Article{}, fmt.Errorf("%w: title, slug and body are required", domain.ErrValidation)
	}
	return s.repo.CreateArticle(ctx, domain.Article{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Slug:       NormalizeSlug(in.Slug),
		Excerpt:    optStr(in.Excerpt),
		Body:       in.Body,
		CoverImage: optStr(in.CoverImage),
		Published:  in.Published,
	})
}

func (s *ContentService) UpdateArticle(ctx context.Context, a domain.Article) (domain.Article, error) {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Slug) == "" || strings.TrimSpace(a.Body) == "" {
		return domain.Article{}, fmt.Errorf("%w: title, slug and body are required", domain.ErrValidation)
	}
	a.Slug = NormalizeSlug(a.Slug)
	return s.repo.UpdateArticle(ctx, a)
}

func (s *ContentService) DeleteArticle(ctx context.Context, id string) error {
	return s.repo.DeleteArticle(ctx, id)
}

func (s *ContentService) GetArticleBySlug(ctx context.Context, slug string) (domain.Article, error) {
	return s.repo.GetArticleBySlug(ctx, slug)
}

func (s *ContentService) ListArticles(ctx context.Context, publishedOnly bool) ([]domain.Article, error) {
	return s.repo.ListArticles(ctx, publishedOnly)
}
