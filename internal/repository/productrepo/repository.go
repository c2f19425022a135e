package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gocatalog/internal/domain"
	"gocatalog/internal/errors"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/logger"
)

// Chave de cache para produtos (estratégia Cache-Aside).
const productCacheKey = "product:%s"

// ProductRepository implementa a interface domain.ProductRepository.
// Ela contém as conexões necessárias para acessar dados.
type ProductRepository struct {
	DB        *sql.DB       // Conexão principal com o banco de dados (PostgreSQL)
	Cache     cache.Client  // Cliente para operações de cache (Redis)
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
// Aqui injetamos as dependências de Infraestrutura (DB e Cache).
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Save persiste um novo Produto no banco de dados.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	r.logger.Debug("Iniciando Save de produto no repositório.", map[string]interface{}{"slug": product.Slug})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        INSERT INTO products (id, name, slug, description, price, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, name, slug, description, price, is_active, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(
		&product.ID, &product.Name, &product.Slug, &product.Description,
		&product.Price, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao criar produto", err)
	}

	r.logger.Info("Produto criado com sucesso.", map[string]interface{}{"id": product.ID, "slug": product.Slug})
	return product, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	var product domain.Product

	// --- 1. Estratégia Cache-Aside (READ) ---
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		// Cache HIT
		if json.Unmarshal([]byte(cachedData), &product) == nil {
			return product, nil
		}
		// Se a desserialização falhar, continua para o DB
	} else if err != cache.ErrCacheMiss {
		// Erro real de cache (ex: conexão perdida): logamos, mas continuamos.
		r.logger.Warn("Falha ao ler do cache Redis. Caindo para o DB.", map[string]interface{}{"key": key})
	}

	// --- 2. Busca no Banco de Dados (PostgreSQL) ---
	const query = `
        SELECT id, name, slug, description, price, is_active, created_at, updated_at
        FROM products
        WHERE id = $1`

	row := r.DB.QueryRowContext(ctxTimeout, query, id)

	err = row.Scan(
		&product.ID, &product.Name, &product.Slug, &product.Description,
		&product.Price, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)

	// Tratamento do Erro de Busca (Crucial para o 404)
	if err == sql.ErrNoRows {
		r.logger.Info("Produto não encontrado.", map[string]interface{}{"id": id})
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto no DB", err)
	}

	// --- 3. Estratégia Cache-Aside (WRITE) ---
	// Se encontrado no DB, populamos o cache para futuras requisições.
	if productJSON, marshalErr := json.Marshal(product); marshalErr == nil {
		r.Cache.Set(ctxTimeout, key, productJSON, r.CacheTTL)
	}

	return product, nil
}

// FindAll busca produtos com filtro e paginação.
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	r.logger.Debug("Iniciando FindAll de produtos no repositório.", map[string]interface{}{"page": filter.Page, "limit": filter.Limit})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, name, slug, description, price, is_active, created_at, updated_at
        FROM products
        WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argPos)
		args = append(args, "%"+filter.Name+"%")
		argPos++
	}
	if filter.Slug != "" {
		query += fmt.Sprintf(" AND slug = $%d", argPos)
		args = append(args, filter.Slug)
		argPos++
	}
	if filter.ActiveOnly {
		query += " AND is_active = TRUE"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll query.", err)
		return nil, errors.NewDBError("Falha ao buscar produtos", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		err := rows.Scan(
			&product.ID, &product.Name, &product.Slug, &product.Description,
			&product.Price, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Falha ao mapear produto na iteração de FindAll.", err)
			return nil, errors.NewDBError("Falha ao mapear produtos do DB", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de produtos.", err)
		return nil, errors.NewDBError("Erro após iteração de produtos", err)
	}

	r.logger.Info("FindAll concluído com sucesso.", map[string]interface{}{"total_products": len(products)})
	return products, nil
}

// Update atualiza um produto existente e invalida a entrada de cache correspondente.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	r.logger.Debug("Iniciando Update de produto no repositório.", map[string]interface{}{"id": product.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	product.UpdatedAt = time.Now().UTC()

	const query = `
        UPDATE products
        SET name = $1, slug = $2, description = $3, price = $4, is_active = $5, updated_at = $6
        WHERE id = $7
        RETURNING id, name, slug, description, price, is_active, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		product.Name, product.Slug, product.Description, product.Price,
		product.IsActive, product.UpdatedAt, product.ID,
	).Scan(
		&product.ID, &product.Name, &product.Slug, &product.Description,
		&product.Price, &product.IsActive, &product.CreatedAt, &product.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", product.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao atualizar produto", err)
	}

	// Invalidação do cache (a próxima leitura repopula)
	r.Cache.Delete(ctxTimeout, fmt.Sprintf(productCacheKey, product.ID))

	r.logger.Info("Produto atualizado com sucesso.", map[string]interface{}{"id": product.ID})
	return product, nil
}

// Delete remove um produto e invalida a entrada de cache correspondente.
// As variantes do produto são removidas em cascata pelo schema.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de produto no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar produto no DB.", err)
		return errors.NewDBError("Falha ao deletar produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}

	r.Cache.Delete(ctxTimeout, fmt.Sprintf(productCacheKey, id))

	r.logger.Info("Produto deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
