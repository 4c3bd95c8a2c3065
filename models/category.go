package models

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryPage struct {
	Category Category       `json:"category"`
	Products []Product      `json:"products"`
	Meta     PaginationMeta `json:"meta"`
}

type ShopPage struct {
	Products   []Product      `json:"products"`
	Categories []Category     `json:"categories"`
	Meta       PaginationMeta `json:"meta"`
}
