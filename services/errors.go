package services

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderTooLarge      = errors.New("order total is too large to place online")
	ErrCheckoutInProgress = errors.New("checkout already in progress for this session")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPrice       = errors.New("price must be a non-negative decimal")
)
