package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// AddToCartRequest accepts the quantity as a JSON number, a JSON string or
// a form value. Empty means one.
type AddToCartRequest struct {
	Quantity json.Number `json:"quantity" form:"quantity"`
}

type SetShippingRequest struct {
	ShippingZone string `json:"shipping_zone" form:"shipping_zone"`
}

type CartView struct {
	Items           []CartLine      `json:"items"`
	Removed         []int64         `json:"removed,omitempty"`
	TotalItems      int             `json:"total_items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingZones   []ShippingZone  `json:"shipping_zones"`
	SelectedZone    string          `json:"selected_zone,omitempty"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Total           decimal.Decimal `json:"total"`
	WhatsAppMessage string          `json:"whatsapp_message"`
}

// BulkUpdateResult lists which quantity fields were applied and which were
// rejected because they did not parse.
type BulkUpdateResult struct {
	Updated  []int64           `json:"updated"`
	Removed  []int64           `json:"removed"`
	Rejected map[string]string `json:"rejected,omitempty"`
}

type CreateProductRequest struct {
	CategoryID       int64  `json:"category_id" form:"category_id" binding:"required,gt=0"`
	Name             string `json:"name" form:"name" binding:"required,max=200"`
	Slug             string `json:"slug" form:"slug" binding:"omitempty,max=220"`
	ShortDescription string `json:"short_description" form:"short_description" binding:"max=255"`
	Description      string `json:"description" form:"description" binding:"required"`
	Price            string `json:"price" form:"price" binding:"required,numeric"`
	OldPrice         string `json:"old_price" form:"old_price" binding:"omitempty,numeric"`
	Available        *bool  `json:"available" form:"available"`
	InStock          *bool  `json:"in_stock" form:"in_stock"`
	IsFeatured       bool   `json:"is_featured" form:"is_featured"`
	IsNew            bool   `json:"is_new" form:"is_new"`
	IsHot            bool   `json:"is_hot" form:"is_hot"`
	OnSale           bool   `json:"on_sale" form:"on_sale"`
}

type UpdateProductRequest struct {
	CategoryID       *int64  `json:"category_id" form:"category_id" binding:"omitempty,gt=0"`
	Name             *string `json:"name" form:"name" binding:"omitempty,max=200"`
	ShortDescription *string `json:"short_description" form:"short_description" binding:"omitempty,max=255"`
	Description      *string `json:"description" form:"description"`
	Price            *string `json:"price" form:"price" binding:"omitempty,numeric"`
	OldPrice         *string `json:"old_price" form:"old_price" binding:"omitempty,numeric"`
	Available        *bool   `json:"available" form:"available"`
	InStock          *bool   `json:"in_stock" form:"in_stock"`
	IsFeatured       *bool   `json:"is_featured" form:"is_featured"`
	IsNew            *bool   `json:"is_new" form:"is_new"`
	IsHot            *bool   `json:"is_hot" form:"is_hot"`
	OnSale           *bool   `json:"on_sale" form:"on_sale"`
}

type ReviewRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=100"`
	Email   string `json:"email" form:"email" binding:"omitempty,email"`
	Comment string `json:"comment" form:"comment" binding:"required"`
	Rating  int    `json:"rating" form:"rating" binding:"required,min=1,max=5"`
}

type TestimonialRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=100"`
	Location string `json:"location" form:"location" binding:"max=100"`
	Message  string `json:"message" form:"message" binding:"required,min=10"`
	Rating   int    `json:"rating" form:"rating" binding:"required,min=1,max=5"`
}
