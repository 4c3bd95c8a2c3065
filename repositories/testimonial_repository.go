package repositories

import (
	"context"
	"fmt"

	"farm-shop/models"
)

type TestimonialRepository struct {
	db DBTX
}

func NewTestimonialRepository(db DBTX) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

func (r *TestimonialRepository) Create(ctx context.Context, t *models.Testimonial) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO testimonials (name, location, message, rating, is_approved)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		t.Name, t.Location, t.Message, t.Rating, t.IsApproved,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

func (r *TestimonialRepository) ListApproved(ctx context.Context, limit int) ([]models.Testimonial, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, location, message, rating, is_approved, created_at
		 FROM testimonials WHERE is_approved = true ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	out := []models.Testimonial{}
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Location, &t.Message, &t.Rating, &t.IsApproved, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TestimonialRepository) Approve(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE testimonials SET is_approved = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("approve testimonial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTestimonialNotFound
	}
	return nil
}
