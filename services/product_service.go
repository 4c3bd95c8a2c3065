package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"

	"farm-shop/config"
	"farm-shop/models"
	"farm-shop/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	ShopPageSize     = 12
	homeFeaturedSize = 12
	homeBadgeSize    = 8
	relatedSize      = 8
)

type ProductStore interface {
	ProductCatalog
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListAvailable(ctx context.Context, page, limit int) ([]models.Product, int, error)
	ListByCategory(ctx context.Context, categoryID int64, page, limit int) ([]models.Product, int, error)
	ListHighlighted(ctx context.Context, badge string, limit int) ([]models.Product, error)
	ListRelated(ctx context.Context, categoryID, excludeID int64, limit int) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListImages(ctx context.Context, productID int64) ([]models.ProductImage, error)
	AddImage(ctx context.Context, img *models.ProductImage) error
	DeleteImage(ctx context.Context, productID, imageID int64) (*models.ProductImage, error)
	ListApprovedReviews(ctx context.Context, productID int64) ([]models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) error
	ApproveReview(ctx context.Context, id int64) error
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) error
}

// ImageStore saves an uploaded product image and returns its public
// reference.
type ImageStore interface {
	SaveImage(ctx context.Context, header *multipart.FileHeader, folder string) (string, error)
	DeleteImage(ctx context.Context, ref string) error
}

type ProductService struct {
	repo              ProductStore
	cache             repositories.ProductListCache
	images            ImageStore
	sfg               singleflight.Group
	reviewAutoApprove bool
}

func NewProductService(repo ProductStore, cache repositories.ProductListCache, images ImageStore, reviewAutoApprove bool) *ProductService {
	return &ProductService{
		repo:              repo,
		cache:             cache,
		images:            images,
		reviewAutoApprove: reviewAutoApprove,
	}
}

func (s *ProductService) Home(ctx context.Context) (*models.HomePage, error) {
	featured, err := s.repo.ListHighlighted(ctx, "", homeFeaturedSize)
	if err != nil {
		return nil, err
	}
	hot, err := s.repo.ListHighlighted(ctx, "hot", homeBadgeSize)
	if err != nil {
		return nil, err
	}
	fresh, err := s.repo.ListHighlighted(ctx, "new", homeBadgeSize)
	if err != nil {
		return nil, err
	}
	return &models.HomePage{FeaturedProducts: featured, HotProducts: hot, NewProducts: fresh}, nil
}

// Shop returns one page of available products. Pages are cached and
// concurrent misses for the same page share one database round trip.
func (s *ProductService) Shop(ctx context.Context, page int) (*models.ShopPage, error) {
	if page < 1 {
		page = 1
	}

	cached, err := s.cache.Get(ctx, page, ShopPageSize)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repositories.ErrCacheMiss) {
		config.Logger.Warn("product cache get failed", zap.Error(err))
	}

	v, err, _ := s.sfg.Do(fmt.Sprintf("shop:%d", page), func() (interface{}, error) {
		products, total, err := s.repo.ListAvailable(ctx, page, ShopPageSize)
		if err != nil {
			return nil, err
		}
		categories, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, err
		}

		shop := &models.ShopPage{
			Products:   products,
			Categories: categories,
			Meta:       models.NewPaginationMeta(page, ShopPageSize, total),
		}
		if err := s.cache.Set(ctx, page, ShopPageSize, shop); err != nil {
			config.Logger.Warn("product cache set failed", zap.Error(err))
		}
		return shop, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.ShopPage), nil
}

func (s *ProductService) Category(ctx context.Context, slug string, page int) (*models.CategoryPage, error) {
	if page < 1 {
		page = 1
	}
	category, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	products, total, err := s.repo.ListByCategory(ctx, category.ID, page, ShopPageSize)
	if err != nil {
		return nil, err
	}
	return &models.CategoryPage{
		Category: *category,
		Products: products,
		Meta:     models.NewPaginationMeta(page, ShopPageSize, total),
	}, nil
}

func (s *ProductService) Detail(ctx context.Context, slug string) (*models.ProductDetail, error) {
	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.ListImages(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.Images = images

	reviews, err := s.repo.ListApprovedReviews(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	related, err := s.repo.ListRelated(ctx, product.CategoryID, product.ID, relatedSize)
	if err != nil {
		return nil, err
	}

	return &models.ProductDetail{
		Product:         *product,
		MainImage:       product.MainImage(),
		GalleryImages:   images,
		Reviews:         reviews,
		Rating:          models.NewRatingSummary(reviews),
		RelatedProducts: related,
	}, nil
}

func (s *ProductService) SubmitReview(ctx context.Context, slug string, req models.ReviewRequest) (*models.Review, error) {
	product, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	review := &models.Review{
		ProductID:  product.ID,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Comment:    strings.TrimSpace(req.Comment),
		Rating:     req.Rating,
		IsApproved: s.reviewAutoApprove,
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ProductService) ApproveReview(ctx context.Context, id int64) error {
	return s.repo.ApproveReview(ctx, id)
}

func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	oldPrice, err := parseOptionalPrice(req.OldPrice)
	if err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}

	product := &models.Product{
		CategoryID:       req.CategoryID,
		Name:             strings.TrimSpace(req.Name),
		Slug:             slug,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Price:            price,
		OldPrice:         oldPrice,
		Available:        boolOr(req.Available, true),
		InStock:          boolOr(req.InStock, true),
		IsFeatured:       req.IsFeatured,
		IsNew:            req.IsNew,
		IsHot:            req.IsHot,
		OnSale:           req.OnSale,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.ShortDescription != nil {
		product.ShortDescription = *req.ShortDescription
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if product.Price, err = parsePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.OldPrice != nil {
		if product.OldPrice, err = parseOptionalPrice(*req.OldPrice); err != nil {
			return nil, err
		}
	}
	product.Available = boolOr(req.Available, product.Available)
	product.InStock = boolOr(req.InStock, product.InStock)
	product.IsFeatured = boolOr(req.IsFeatured, product.IsFeatured)
	product.IsNew = boolOr(req.IsNew, product.IsNew)
	product.IsHot = boolOr(req.IsHot, product.IsHot)
	product.OnSale = boolOr(req.OnSale, product.OnSale)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) AddProductImage(ctx context.Context, productID int64, header *multipart.FileHeader, altText string, isMain bool) (*models.ProductImage, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	ref, err := s.images.SaveImage(ctx, header, "products")
	if err != nil {
		return nil, err
	}

	img := &models.ProductImage{
		ProductID: productID,
		Image:     ref,
		AltText:   strings.TrimSpace(altText),
		IsMain:    isMain,
	}
	if err := s.repo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return img, nil
}

// DeleteProductImage removes the image row first; a stored file that cannot
// be deleted is only logged.
func (s *ProductService) DeleteProductImage(ctx context.Context, productID, imageID int64) error {
	img, err := s.repo.DeleteImage(ctx, productID, imageID)
	if err != nil {
		return err
	}
	if err := s.images.DeleteImage(ctx, img.Image); err != nil {
		config.Logger.Warn("stored image not deleted", zap.String("image", img.Image), zap.Error(err))
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		config.Logger.Warn("product cache invalidate failed", zap.Error(err))
	}
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	return strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	return price.Round(2), nil
}

func parseOptionalPrice(raw string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.NullDecimal{}, nil
	}
	price, err := parsePrice(raw)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(price), nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
