package domain

import (
	"context"
	"time"
)

// Product representa o item principal do catálogo (a Entidade).
// O Slug alimenta a base do SKU das variantes geradas (4 primeiros caracteres,
// sem hífens, maiúsculos).
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"` // Único; usado como base dos SKUs das variantes
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFilter define os parâmetros de busca e paginação.
type ProductFilter struct {
	Page       int
	Limit      int
	Name       string
	Slug       string
	ActiveOnly bool
}

// --- Interfaces de Contrato (O CORAÇÃO DA ARQUITETURA LIMPA) ---

// ProductService é a interface que a camada de Serviço (Business Logic) DEVE implementar.
// Ela define o que o Handler (Camada API) pode pedir para a camada de Serviço fazer.
type ProductService interface {
	CreateProduct(ctx context.Context, product Product) (Product, error)
	GetProductByID(ctx context.Context, id string) (Product, error)
	GetProducts(ctx context.Context, page, limit int, filters map[string]string) ([]Product, error)
	UpdateProduct(ctx context.Context, product Product) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductRepository é a interface que a camada de Repositório (Data Access) DEVE implementar.
// Ela define o que a camada de Serviço pode pedir para a camada de Persistência (DB/Cache) fazer.
type ProductRepository interface {
	Save(ctx context.Context, product Product) (Product, error)
	FindByID(ctx context.Context, id string) (Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, id string) error
}
