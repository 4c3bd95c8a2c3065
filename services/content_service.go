package services

import (
	"context"
	"strings"

	"farm-shop/models"
)

const (
	RecipePageSize   = 9
	testimonialLimit = 20
)

type RecipeStore interface {
	ListActive(ctx context.Context, page, limit int) ([]models.Recipe, int, error)
	GetBySlug(ctx context.Context, slug string) (*models.Recipe, error)
}

type GalleryStore interface {
	ListCategories(ctx context.Context) ([]models.GalleryCategory, error)
}

type TestimonialStore interface {
	Create(ctx context.Context, t *models.Testimonial) error
	ListApproved(ctx context.Context, limit int) ([]models.Testimonial, error)
	Approve(ctx context.Context, id int64) error
}

type RecipeRenderer interface {
	RenderRecipe(recipe *models.Recipe) ([]byte, error)
}

// ContentService serves the editorial parts of the site: recipes, the
// Instagram gallery and customer testimonials.
type ContentService struct {
	recipes      RecipeStore
	gallery      GalleryStore
	testimonials TestimonialStore
	renderer     RecipeRenderer
}

func NewContentService(recipes RecipeStore, gallery GalleryStore, testimonials TestimonialStore, renderer RecipeRenderer) *ContentService {
	return &ContentService{
		recipes:      recipes,
		gallery:      gallery,
		testimonials: testimonials,
		renderer:     renderer,
	}
}

func (s *ContentService) Recipes(ctx context.Context, page int) ([]models.Recipe, models.PaginationMeta, error) {
	if page < 1 {
		page = 1
	}
	recipes, total, err := s.recipes.ListActive(ctx, page, RecipePageSize)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}
	return recipes, models.NewPaginationMeta(page, RecipePageSize, total), nil
}

func (s *ContentService) Recipe(ctx context.Context, slug string) (*models.Recipe, error) {
	return s.recipes.GetBySlug(ctx, slug)
}

func (s *ContentService) RecipePDF(ctx context.Context, slug string) (*models.Recipe, []byte, error) {
	recipe, err := s.recipes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.renderer.RenderRecipe(recipe)
	if err != nil {
		return nil, nil, err
	}
	return recipe, pdf, nil
}

func (s *ContentService) Gallery(ctx context.Context) ([]models.GalleryCategory, error) {
	return s.gallery.ListCategories(ctx)
}

func (s *ContentService) Testimonials(ctx context.Context) ([]models.Testimonial, error) {
	return s.testimonials.ListApproved(ctx, testimonialLimit)
}

// SubmitTestimonial stores the testimonial pending moderation.
func (s *ContentService) SubmitTestimonial(ctx context.Context, req models.TestimonialRequest) (*models.Testimonial, error) {
	t := &models.Testimonial{
		Name:     strings.TrimSpace(req.Name),
		Location: strings.TrimSpace(req.Location),
		Message:  strings.TrimSpace(req.Message),
		Rating:   req.Rating,
	}
	if err := s.testimonials.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *ContentService) ApproveTestimonial(ctx context.Context, id int64) error {
	return s.testimonials.Approve(ctx, id)
}
