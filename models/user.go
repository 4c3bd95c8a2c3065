package models

import "time"

const RoleAdmin = "admin"

// User is a back-office account. Shoppers are anonymous and identified by
// their session only.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
