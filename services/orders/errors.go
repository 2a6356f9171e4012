package main

import "errors"

// Erros de domínio — resultados esperados das operações, não falhas do sistema.
// Falhas de storage (conectividade, corrupção) propagam sem tradução.
var (
	ErrOrderNotFound        = errors.New("order does not exist")
	ErrProductNotFound      = errors.New("product does not exist")
	ErrOrderAlreadyPaid     = errors.New("order has already been cashed out")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrItemNotOnOrder       = errors.New("item is not on the order")
	ErrInsufficientQuantity = errors.New("cannot remove more items than are on the order")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
)
