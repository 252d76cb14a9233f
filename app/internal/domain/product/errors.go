package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrBrandNotFound   = errors.New("brand not found")
)
