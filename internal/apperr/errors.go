// Package apperr holds the failure kinds shared by the basket, order and
// session layers. Callers match them with errors.Is.
package apperr

import "errors"

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrNotFound         = errors.New("not found")
	ErrEmptyBasket      = errors.New("basket is empty")
	ErrAlreadyDelivered = errors.New("order is already delivered")
	ErrTokenExpired     = errors.New("token expired")
)
