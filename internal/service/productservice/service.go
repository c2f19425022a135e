package productservice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// maxPageLimit é o teto de itens por página (proteção contra abusos).
const maxPageLimit = 100

// ProductRepository define o contrato (interface) que este Serviço espera
// da camada de Persistência (DB, Cache).
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Service é a estrutura que implementa a interface domain.ProductService.
type Service struct {
	repo   ProductRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateProduct valida e persiste um novo produto.
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	// 1. Validação de Regras de Negócio
	if product.Name == "" {
		return domain.Product{}, apperror.NewValidationError("O nome do produto é obrigatório.")
	}
	if product.Price <= 0 {
		return domain.Product{}, apperror.NewValidationError("O preço do produto deve ser positivo.")
	}

	// 2. Preenchimento de ID, Slug e timestamps
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}
	product.IsActive = true
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	// 3. Delegação para a Camada de Persistência (Repository)
	createdProduct, err := s.repo.Save(ctx, product)
	if err != nil {
		// Violação da constraint única de slug vira conflito de negócio (409).
		var dbErr *apperror.InternalError
		if errors.As(err, &dbErr) && strings.Contains(dbErr.Error(), "products_slug_key") {
			return domain.Product{}, apperror.NewConflictError(fmt.Sprintf("O slug '%s' já está em uso.", product.Slug))
		}
		return domain.Product{}, err
	}

	return createdProduct, nil
}

// GetProductByID busca um produto pelo ID.
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	// 1. Validação de Formato (Business Logic)
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	// 2. Delegação para o Repositório
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não foi encontrado.", id))
		}
		return domain.Product{}, err
	}

	return product, nil
}

// GetProducts busca produtos com paginação e filtros opcionais
// (name, slug, is_active).
func (s *Service) GetProducts(ctx context.Context, page, limit int, filters map[string]string) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if limit < 0 {
		limit = 0 // O repositório aplica o default
	}

	filter := domain.ProductFilter{
		Page:  page,
		Limit: limit,
	}
	if filters != nil {
		filter.Name = filters["name"]
		filter.Slug = filters["slug"]
		filter.ActiveOnly = filters["is_active"] == "true"
	}

	products, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, apperror.NewInternalError("Falha interna ao buscar produtos.", err)
	}

	return products, nil
}

// UpdateProduct atualiza um produto existente.
func (s *Service) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if _, err := uuid.Parse(product.ID); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	if product.Name == "" {
		return domain.Product{}, apperror.NewValidationError("O nome do produto é obrigatório.")
	}
	if product.Price <= 0 {
		return domain.Product{}, apperror.NewValidationError("O preço do produto deve ser positivo.")
	}
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	return updated, nil
}

// DeleteProduct remove um produto (e suas variantes, em cascata).
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	return s.repo.Delete(ctx, id)
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify deriva um slug a partir do nome do produto: minúsculas, sequências
// não alfanuméricas viram um único hífen, sem hífens nas pontas.
// O slug alimenta a base do SKU das variantes geradas.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
