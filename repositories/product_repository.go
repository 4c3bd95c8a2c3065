package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farm-shop/models"

	"github.com/jackc/pgx/v5"
)

const productColumns = `p.id, p.category_id, p.name, p.slug, p.short_description, p.description,
	p.price, p.old_price, p.available, p.in_stock, p.is_featured, p.is_new, p.is_hot, p.on_sale,
	p.created, p.updated`

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row pgx.Row, p *models.Product) error {
	return row.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.ShortDescription, &p.Description,
		&p.Price, &p.OldPrice, &p.Available, &p.InStock, &p.IsFeatured, &p.IsNew, &p.IsHot, &p.OnSale,
		&p.Created, &p.Updated,
	)
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// LookupMany resolves ids to current catalog rows. Ids without a row are
// simply absent from the result.
func (r *ProductRepository) LookupMany(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	found := make(map[int64]models.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	products, err := r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup products: %w", err)
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := scanProduct(r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var (
		p   models.Product
		cat models.Category
	)
	err := r.db.QueryRow(ctx,
		`SELECT `+productColumns+`, c.id, c.name, c.slug
		 FROM products p JOIN categories c ON c.id = p.category_id
		 WHERE p.slug = $1 AND p.available = true`, slug).Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.ShortDescription, &p.Description,
		&p.Price, &p.OldPrice, &p.Available, &p.InStock, &p.IsFeatured, &p.IsNew, &p.IsHot, &p.OnSale,
		&p.Created, &p.Updated,
		&cat.ID, &cat.Name, &cat.Slug,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", slug, err)
	}
	p.Category = &cat
	return &p, nil
}

func (r *ProductRepository) ListAvailable(ctx context.Context, page, limit int) ([]models.Product, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE available = true`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	products, err := r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p
		 WHERE p.available = true ORDER BY p.created DESC LIMIT $1 OFFSET $2`,
		limit, pageOffset(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64, page, limit int) ([]models.Product, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE available = true AND category_id = $1`, categoryID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count category products: %w", err)
	}

	products, err := r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p
		 WHERE p.available = true AND p.category_id = $1
		 ORDER BY p.created DESC LIMIT $2 OFFSET $3`,
		categoryID, limit, pageOffset(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list category products: %w", err)
	}
	return products, total, nil
}

// ListHighlighted returns the newest available products, optionally
// restricted to the is_hot or is_new badge.
func (r *ProductRepository) ListHighlighted(ctx context.Context, badge string, limit int) ([]models.Product, error) {
	where := "p.available = true"
	switch badge {
	case "hot":
		where += " AND p.is_hot = true"
	case "new":
		where += " AND p.is_new = true"
	}

	products, err := r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p WHERE `+where+` ORDER BY p.created DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s products: %w", badge, err)
	}
	return products, nil
}

func (r *ProductRepository) ListRelated(ctx context.Context, categoryID, excludeID int64, limit int) ([]models.Product, error) {
	products, err := r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products p
		 WHERE p.available = true AND p.category_id = $1 AND p.id <> $2
		 ORDER BY p.created DESC LIMIT $3`,
		categoryID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list related products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *ProductRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx, `SELECT id, name, slug FROM categories WHERE slug = $1`, slug).
		Scan(&c.ID, &c.Name, &c.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %q: %w", slug, err)
	}
	return &c, nil
}

func (r *ProductRepository) ListImages(ctx context.Context, productID int64) ([]models.ProductImage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, image, alt_text, is_main FROM product_images
		 WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	images := []models.ProductImage{}
	for rows.Next() {
		var img models.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.Image, &img.AltText, &img.IsMain); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// AddImage stores an image for the product. A new main image demotes the
// previous one.
func (r *ProductRepository) AddImage(ctx context.Context, img *models.ProductImage) error {
	err := r.db.QueryRow(ctx,
		`WITH demoted AS (
			UPDATE product_images SET is_main = false
			WHERE product_id = $1 AND $4::boolean AND is_main
		)
		INSERT INTO product_images (product_id, image, alt_text, is_main)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		img.ProductID, img.Image, img.AltText, img.IsMain,
	).Scan(&img.ID)
	if isForeignKeyViolation(err) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("add image: %w", err)
	}
	return nil
}

// DeleteImage removes one image of a product and returns the deleted row so
// the caller can drop the stored file.
func (r *ProductRepository) DeleteImage(ctx context.Context, productID, imageID int64) (*models.ProductImage, error) {
	img := &models.ProductImage{}
	err := r.db.QueryRow(ctx,
		`DELETE FROM product_images WHERE id = $1 AND product_id = $2
		 RETURNING id, product_id, image, alt_text, is_main`,
		imageID, productID,
	).Scan(&img.ID, &img.ProductID, &img.Image, &img.AltText, &img.IsMain)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete image: %w", err)
	}
	return img, nil
}

func (r *ProductRepository) ListApprovedReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, name, email, comment, rating, is_approved, created_at
		 FROM reviews WHERE product_id = $1 AND is_approved = true
		 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.Name, &rv.Email, &rv.Comment,
			&rv.Rating, &rv.IsApproved, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *ProductRepository) CreateReview(ctx context.Context, review *models.Review) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO reviews (product_id, name, email, comment, rating, is_approved)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		review.ProductID, review.Name, review.Email, review.Comment, review.Rating, review.IsApproved,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *ProductRepository) ApproveReview(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE reviews SET is_approved = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("approve review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (category_id, name, slug, short_description, description, price, old_price,
			available, in_stock, is_featured, is_new, is_hot, on_sale)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created, updated`,
		p.CategoryID, p.Name, p.Slug, p.ShortDescription, p.Description, p.Price, p.OldPrice,
		p.Available, p.InStock, p.IsFeatured, p.IsNew, p.IsHot, p.OnSale,
	).Scan(&p.ID, &p.Created, &p.Updated)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if isForeignKeyViolation(err) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	p.Updated = time.Now()
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET category_id = $1, name = $2, short_description = $3, description = $4,
			price = $5, old_price = $6, available = $7, in_stock = $8, is_featured = $9, is_new = $10,
			is_hot = $11, on_sale = $12, updated = $13
		 WHERE id = $14`,
		p.CategoryID, p.Name, p.ShortDescription, p.Description, p.Price, p.OldPrice,
		p.Available, p.InStock, p.IsFeatured, p.IsNew, p.IsHot, p.OnSale, p.Updated, p.ID,
	)
	if isForeignKeyViolation(err) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes the product row. Carts that still reference it drop the
// entry the next time they are reconciled.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
