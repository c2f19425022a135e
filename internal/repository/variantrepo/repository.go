package variantrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gocatalog/internal/domain"
	"gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// VariantRepository implementa a interface domain.VariantRepository: a camada
// de persistência do motor de geração de variantes e do controle de estoque.
type VariantRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewVariantRepository cria e retorna uma nova instância do Repositório de Variantes.
func NewVariantRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *VariantRepository {
	return &VariantRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// InsertVariantWithLinks insere a linha da variante e as linhas de junção com os
// valores de atributo em UMA transação. Falha no vínculo desfaz a variante daquela
// linha — nenhuma variante órfã (sem atributos) sobrevive a um erro de junção.
// O lote inteiro NÃO é transacional: cada linha é uma unidade de trabalho independente.
func (r *VariantRepository) InsertVariantWithLinks(ctx context.Context, productID string, variant domain.GeneratedVariant) (domain.PersistedVariant, error) {
	r.logger.Debug("Inserindo variante no repositório.", map[string]interface{}{"product_id": productID, "sku": variant.SKU})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de variante.", err)
		return domain.PersistedVariant{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	const variantSQL = `
        INSERT INTO variants (id, product_id, sku, price, quantity_in_stock, version, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, 1, $6, $7)
        RETURNING id, sku`

	var persisted domain.PersistedVariant
	err = tx.QueryRowContext(ctxTimeout, variantSQL,
		uuid.New().String(),
		productID,
		variant.SKU,
		variant.Price,
		variant.QuantityInStock,
		now,
		now,
	).Scan(&persisted.ID, &persisted.SKU)

	if err == sql.ErrNoRows {
		// Caso defensivo: INSERT ... RETURNING sem linha devolvida.
		return domain.PersistedVariant{}, domain.ErrVariantNotCreated
	}
	if err != nil {
		// Violação de unicidade de SKU cai aqui (constraint variants_sku_key).
		return domain.PersistedVariant{}, err
	}

	// Vínculo com os valores de atributo: um único INSERT multi-linha.
	if len(variant.AttributeValueIDs) > 0 {
		placeholders := make([]string, 0, len(variant.AttributeValueIDs))
		args := make([]interface{}, 0, len(variant.AttributeValueIDs)*2)
		for i, valueID := range variant.AttributeValueIDs {
			placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
			args = append(args, persisted.ID, valueID)
		}

		linkSQL := `INSERT INTO variant_attribute_values (variant_id, attribute_value_id) VALUES ` +
			strings.Join(placeholders, ", ")

		if _, err := tx.ExecContext(ctxTimeout, linkSQL, args...); err != nil {
			return domain.PersistedVariant{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.PersistedVariant{}, err
	}

	r.logger.Info("Variante criada com sucesso.", map[string]interface{}{"id": persisted.ID, "sku": persisted.SKU})
	return persisted, nil
}

// SKUExists verifica se já existe uma variante persistida com o SKU informado.
func (r *VariantRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT EXISTS(SELECT 1 FROM variants WHERE sku = $1)`, sku,
	).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar existência de SKU.", err)
		return false, errors.NewDBError("Falha ao verificar SKU", err)
	}

	return exists, nil
}

// FindByProduct busca todas as variantes de um produto.
func (r *VariantRepository) FindByProduct(ctx context.Context, productID string) ([]domain.Variant, error) {
	r.logger.Debug("Buscando variantes do produto.", map[string]interface{}{"product_id": productID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT id, product_id, sku, price, quantity_in_stock, version, created_at, updated_at
        FROM variants
        WHERE product_id = $1
        ORDER BY sku`

	rows, err := r.DB.QueryContext(ctxTimeout, query, productID)
	if err != nil {
		r.logger.Error("Falha ao buscar variantes no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar variantes", err)
	}
	defer rows.Close()

	variants := []domain.Variant{}
	for rows.Next() {
		var v domain.Variant
		err := rows.Scan(
			&v.ID, &v.ProductID, &v.SKU, &v.Price,
			&v.QuantityInStock, &v.Version, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Falha ao mapear variante na iteração.", err)
			return nil, errors.NewDBError("Falha ao mapear variantes do DB", err)
		}
		variants = append(variants, v)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de variantes", err)
	}

	return variants, nil
}

// AttributeValueIDsForVariant devolve os IDs de valores de atributo vinculados
// a uma variante (linhas de junção), na ordem de inserção.
func (r *VariantRepository) AttributeValueIDsForVariant(ctx context.Context, variantID string) ([]string, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT attribute_value_id
        FROM variant_attribute_values
        WHERE variant_id = $1`

	rows, err := r.DB.QueryContext(ctxTimeout, query, variantID)
	if err != nil {
		r.logger.Error("Falha ao buscar vínculos de variante no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar vínculos de variante", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewDBError("Falha ao mapear vínculos de variante", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de vínculos", err)
	}

	return ids, nil
}

// AdjustStock aplica um ajuste ao estoque de uma variante, utilizando transação
// e controle de concorrência otimista (coluna 'version').
func (r *VariantRepository) AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.Variant, error) {
	r.logger.Debug("Iniciando ajuste de estoque no repositório.", map[string]interface{}{
		"variant_id": adjustment.VariantID,
		"delta":      adjustment.Delta,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para ajuste de estoque.", err)
		return domain.Variant{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	// 1. Obter a variante atual (a 'version' atual é crucial para o OCC)
	const querySelect = `
        SELECT id, product_id, sku, price, quantity_in_stock, version, created_at, updated_at
        FROM variants
        WHERE id = $1`

	var current domain.Variant
	err = tx.QueryRowContext(ctxTimeout, querySelect, adjustment.VariantID).Scan(
		&current.ID, &current.ProductID, &current.SKU, &current.Price,
		&current.QuantityInStock, &current.Version, &current.CreatedAt, &current.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		r.logger.Info("Variante não encontrada para ajuste de estoque.", map[string]interface{}{"variant_id": adjustment.VariantID})
		return domain.Variant{}, errors.NewNotFoundError(fmt.Sprintf("Variante com ID %s não encontrada.", adjustment.VariantID))
	}
	if err != nil {
		r.logger.Error("Falha ao selecionar variante para ajuste.", err)
		return domain.Variant{}, errors.NewDBError("Falha ao buscar variante para ajuste", err)
	}

	// 2. Aplicar o ajuste e verificar se a quantidade resultará em negativo
	newQuantity := current.QuantityInStock + adjustment.Delta
	if newQuantity < 0 {
		r.logger.Warn("Tentativa de ajustar estoque para quantidade negativa.", map[string]interface{}{
			"variant_id":       adjustment.VariantID,
			"current_quantity": current.QuantityInStock,
			"delta":            adjustment.Delta,
		})
		return domain.Variant{}, errors.NewValidationError("Ajuste resultaria em quantidade de estoque negativa.")
	}

	// 3. Atualizar o estoque com OCC (checa a versão antiga)
	const queryUpdate = `
        UPDATE variants
        SET quantity_in_stock = $1, version = $2, updated_at = $3
        WHERE id = $4 AND version = $5`

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctxTimeout, queryUpdate,
		newQuantity,
		current.Version+1,
		now,
		adjustment.VariantID,
		current.Version,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar estoque da variante.", err)
		return domain.Variant{}, errors.NewDBError("Falha ao atualizar estoque", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Variant{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Falha no controle de concorrência otimista (OCC). Versão do registro desatualizada.", map[string]interface{}{
			"variant_id": adjustment.VariantID,
			"version":    current.Version,
		})
		return domain.Variant{}, errors.NewConflictError("O registro de estoque foi modificado por outra operação. Tente novamente.")
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de ajuste de estoque.", err)
		return domain.Variant{}, errors.NewDBError("Falha ao commitar transação", err)
	}

	current.QuantityInStock = newQuantity
	current.Version++
	current.UpdatedAt = now

	r.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"variant_id":   current.ID,
		"new_quantity": current.QuantityInStock,
		"new_version":  current.Version,
	})
	return current, nil
}
