package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               int64               `json:"id"`
	CategoryID       int64               `json:"category_id"`
	Category         *Category           `json:"category,omitempty"`
	Name             string              `json:"name"`
	Slug             string              `json:"slug"`
	ShortDescription string              `json:"short_description"`
	Description      string              `json:"description"`
	Price            decimal.Decimal     `json:"price"`
	OldPrice         decimal.NullDecimal `json:"old_price"`
	Available        bool                `json:"available"`
	InStock          bool                `json:"in_stock"`
	IsFeatured       bool                `json:"is_featured"`
	IsNew            bool                `json:"is_new"`
	IsHot            bool                `json:"is_hot"`
	OnSale           bool                `json:"on_sale"`
	Images           []ProductImage      `json:"images,omitempty"`
	Created          time.Time           `json:"created"`
	Updated          time.Time           `json:"updated"`
}

type ProductImage struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Image     string `json:"image"`
	AltText   string `json:"alt_text"`
	IsMain    bool   `json:"is_main"`
}

// MainImage is the image flagged main, else the first one.
func (p *Product) MainImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsMain {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

type Review struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"rating"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingSummary falls back to five stars for products without reviews.
type RatingSummary struct {
	Average float64 `json:"average_rating"`
	Count   int     `json:"review_count"`
}

func NewRatingSummary(reviews []Review) RatingSummary {
	if len(reviews) == 0 {
		return RatingSummary{Average: 5.0}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return RatingSummary{Average: float64(sum) / float64(len(reviews)), Count: len(reviews)}
}

type ProductDetail struct {
	Product         Product        `json:"product"`
	MainImage       *ProductImage  `json:"main_image"`
	GalleryImages   []ProductImage `json:"gallery_images"`
	Reviews         []Review       `json:"reviews"`
	Rating          RatingSummary  `json:"rating"`
	RelatedProducts []Product      `json:"related_products"`
}

type HomePage struct {
	FeaturedProducts []Product `json:"featured_products"`
	HotProducts      []Product `json:"hot_products"`
	NewProducts      []Product `json:"new_products"`
}
