package repositories

import (
	"context"
	"errors"
	"fmt"

	"farm-shop/models"

	"github.com/jackc/pgx/v5"
)

const recipeColumns = `r.id, r.title, r.slug, r.image, r.description, r.instructions,
	r.prep_time, r.cook_time, r.servings, r.difficulty, r.is_active, r.created_at`

type RecipeRepository struct {
	db DBTX
}

func NewRecipeRepository(db DBTX) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func scanRecipe(row pgx.Row, rc *models.Recipe) error {
	return row.Scan(&rc.ID, &rc.Title, &rc.Slug, &rc.Image, &rc.Description, &rc.Instructions,
		&rc.PrepTime, &rc.CookTime, &rc.Servings, &rc.Difficulty, &rc.IsActive, &rc.CreatedAt)
}

func (r *RecipeRepository) ListActive(ctx context.Context, page, limit int) ([]models.Recipe, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM recipes WHERE is_active = true`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+recipeColumns+` FROM recipes r WHERE r.is_active = true
		 ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`, limit, pageOffset(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		var rc models.Recipe
		if err := scanRecipe(rows, &rc); err != nil {
			return nil, 0, err
		}
		recipes = append(recipes, rc)
	}
	return recipes, total, rows.Err()
}

// GetBySlug loads an active recipe with its featured products and
// ingredient lines.
func (r *RecipeRepository) GetBySlug(ctx context.Context, slug string) (*models.Recipe, error) {
	var rc models.Recipe
	err := scanRecipe(r.db.QueryRow(ctx,
		`SELECT `+recipeColumns+` FROM recipes r WHERE r.slug = $1 AND r.is_active = true`, slug), &rc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe %q: %w", slug, err)
	}

	featured, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products p
		 JOIN recipe_featured_products f ON f.product_id = p.id
		 WHERE f.recipe_id = $1 ORDER BY p.name`, rc.ID)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	defer featured.Close()
	for featured.Next() {
		var p models.Product
		if err := scanProduct(featured, &p); err != nil {
			return nil, err
		}
		rc.FeaturedProducts = append(rc.FeaturedProducts, p)
	}
	if err := featured.Err(); err != nil {
		return nil, err
	}

	ingredients, err := r.db.Query(ctx,
		`SELECT `+productColumns+`, i.quantity, i.notes FROM recipe_ingredients i
		 JOIN products p ON p.id = i.product_id
		 WHERE i.recipe_id = $1 ORDER BY i.id`, rc.ID)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer ingredients.Close()
	for ingredients.Next() {
		var (
			ing models.RecipeIngredient
			p   = &ing.Product
		)
		if err := ingredients.Scan(
			&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.ShortDescription, &p.Description,
			&p.Price, &p.OldPrice, &p.Available, &p.InStock, &p.IsFeatured, &p.IsNew, &p.IsHot, &p.OnSale,
			&p.Created, &p.Updated, &ing.Quantity, &ing.Notes,
		); err != nil {
			return nil, err
		}
		rc.Ingredients = append(rc.Ingredients, ing)
	}
	return &rc, ingredients.Err()
}
