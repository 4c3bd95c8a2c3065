package repositories

import (
	"context"
	"fmt"

	"farm-shop/models"
)

type GalleryRepository struct {
	db DBTX
}

func NewGalleryRepository(db DBTX) *GalleryRepository {
	return &GalleryRepository{db: db}
}

// ListCategories returns every category with its active items attached.
func (r *GalleryRepository) ListCategories(ctx context.Context) ([]models.GalleryCategory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, slug, description, sort_order FROM gallery_categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list gallery categories: %w", err)
	}
	defer rows.Close()

	categories := []models.GalleryCategory{}
	index := map[int64]int{}
	for rows.Next() {
		var c models.GalleryCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Order); err != nil {
			return nil, err
		}
		c.Items = []models.GalleryItem{}
		index[c.ID] = len(categories)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	items, err := r.db.Query(ctx,
		`SELECT id, category_id, title, subtitle, instagram_url, content_type, likes, comments,
			sort_order, is_active, created_at, updated_at
		 FROM gallery_items WHERE is_active = true
		 ORDER BY sort_order, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list gallery items: %w", err)
	}
	defer items.Close()

	for items.Next() {
		var it models.GalleryItem
		if err := items.Scan(&it.ID, &it.CategoryID, &it.Title, &it.Subtitle, &it.InstagramURL,
			&it.ContentType, &it.Likes, &it.Comments, &it.Order, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		it.EmbedID = models.InstagramEmbedID(it.InstagramURL)
		if i, ok := index[it.CategoryID]; ok {
			categories[i].Items = append(categories[i].Items, it)
		}
	}
	return categories, items.Err()
}
