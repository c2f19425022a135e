package attributerepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gocatalog/internal/domain"
	"gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// AttributeRepository implementa a interface domain.AttributeRepository: o
// catálogo de atributos e valores consumido pelo motor de geração de variantes.
type AttributeRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAttributeRepository cria e retorna uma nova instância do Repositório de Atributos.
func NewAttributeRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *AttributeRepository {
	return &AttributeRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// CreateAttribute insere um novo atributo no banco de dados.
func (r *AttributeRepository) CreateAttribute(ctx context.Context, attribute domain.Attribute) (domain.Attribute, error) {
	r.logger.Debug("Iniciando CreateAttribute no repositório.", map[string]interface{}{"name": attribute.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if attribute.ID == "" {
		attribute.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	attribute.CreatedAt = now
	attribute.UpdatedAt = now

	const query = `
        INSERT INTO attributes (id, name, created_at, updated_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, name, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		attribute.ID, attribute.Name, attribute.CreatedAt, attribute.UpdatedAt,
	).Scan(
		&attribute.ID, &attribute.Name, &attribute.CreatedAt, &attribute.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir atributo no DB.", err)
		return domain.Attribute{}, errors.NewDBError("Falha ao criar atributo", err)
	}

	r.logger.Info("Atributo criado com sucesso.", map[string]interface{}{"id": attribute.ID, "name": attribute.Name})
	return attribute, nil
}

// GetAttributeByID busca um atributo pelo ID, incluindo seus valores.
func (r *AttributeRepository) GetAttributeByID(ctx context.Context, id string) (domain.Attribute, error) {
	r.logger.Debug("Iniciando GetAttributeByID no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT id, name, created_at, updated_at
        FROM attributes
        WHERE id = $1`

	var attribute domain.Attribute
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&attribute.ID, &attribute.Name, &attribute.CreatedAt, &attribute.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		r.logger.Info("Atributo não encontrado.", map[string]interface{}{"id": id})
		return domain.Attribute{}, errors.NewNotFoundError(fmt.Sprintf("Atributo com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar atributo no DB.", err)
		return domain.Attribute{}, errors.NewDBError("Falha ao buscar atributo", err)
	}

	values, err := r.valuesForAttribute(ctxTimeout, id)
	if err != nil {
		return domain.Attribute{}, err
	}
	attribute.Values = values

	return attribute, nil
}

// GetAllAttributes busca todos os atributos com seus valores.
func (r *AttributeRepository) GetAllAttributes(ctx context.Context) ([]domain.Attribute, error) {
	r.logger.Debug("Iniciando GetAllAttributes no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        SELECT id, name, created_at, updated_at
        FROM attributes
        ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar GetAllAttributes query.", err)
		return nil, errors.NewDBError("Falha ao buscar todos os atributos", err)
	}
	defer rows.Close()

	var attributes []domain.Attribute
	for rows.Next() {
		var attribute domain.Attribute
		err := rows.Scan(
			&attribute.ID, &attribute.Name, &attribute.CreatedAt, &attribute.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Falha ao mapear atributo na iteração de GetAllAttributes.", err)
			return nil, errors.NewDBError("Falha ao mapear atributos do DB", err)
		}
		attributes = append(attributes, attribute)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de atributos.", err)
		return nil, errors.NewDBError("Erro após iteração de atributos", err)
	}

	for i := range attributes {
		values, err := r.valuesForAttribute(ctxTimeout, attributes[i].ID)
		if err != nil {
			return nil, err
		}
		attributes[i].Values = values
	}

	r.logger.Info("GetAllAttributes concluído com sucesso.", map[string]interface{}{"total_attributes": len(attributes)})
	return attributes, nil
}

// DeleteAttribute remove um atributo (e seus valores, em cascata pelo schema).
func (r *AttributeRepository) DeleteAttribute(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando DeleteAttribute no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM attributes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar atributo no DB.", err)
		return errors.NewDBError("Falha ao deletar atributo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Atributo com ID %s não encontrado.", id))
	}

	r.logger.Info("Atributo deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// AddValue insere um novo valor para um atributo existente.
func (r *AttributeRepository) AddValue(ctx context.Context, value domain.AttributeValue) (domain.AttributeValue, error) {
	r.logger.Debug("Iniciando AddValue no repositório.", map[string]interface{}{"attribute_id": value.AttributeID, "value": value.Value})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if value.ID == "" {
		value.ID = uuid.New().String()
	}
	value.CreatedAt = time.Now().UTC()

	const query = `
        INSERT INTO attribute_values (id, attribute_id, value, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, attribute_id, value, created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		value.ID, value.AttributeID, value.Value, value.CreatedAt,
	).Scan(
		&value.ID, &value.AttributeID, &value.Value, &value.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir valor de atributo no DB.", err)
		return domain.AttributeValue{}, errors.NewDBError("Falha ao criar valor de atributo", err)
	}

	r.logger.Info("Valor de atributo criado com sucesso.", map[string]interface{}{"id": value.ID, "attribute_id": value.AttributeID})
	return value, nil
}

// DeleteValue remove um valor de atributo.
func (r *AttributeRepository) DeleteValue(ctx context.Context, valueID string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM attribute_values WHERE id = $1`, valueID)
	if err != nil {
		r.logger.Error("Falha ao deletar valor de atributo no DB.", err)
		return errors.NewDBError("Falha ao deletar valor de atributo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Valor de atributo com ID %s não encontrado.", valueID))
	}

	return nil
}

// AttributesForGeneration devolve as seleções de atributos na ordem pedida pelo
// chamador, com os valores de cada atributo na ordem de criação. A ordem importa:
// ela determina a ordem dos fragmentos do SKU e a ordem de iteração do produto
// cartesiano. Erro se algum atributo não existir ou não tiver valores.
func (r *AttributeRepository) AttributesForGeneration(ctx context.Context, attributeIDs []string) ([]domain.AttributeSelection, error) {
	r.logger.Debug("Montando seleções de atributos para geração.", map[string]interface{}{"total_attributes": len(attributeIDs)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	selections := make([]domain.AttributeSelection, 0, len(attributeIDs))
	for _, attributeID := range attributeIDs {
		var name string
		err := r.DB.QueryRowContext(ctxTimeout, `SELECT name FROM attributes WHERE id = $1`, attributeID).Scan(&name)
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError(fmt.Sprintf("Atributo com ID %s não encontrado.", attributeID))
		}
		if err != nil {
			r.logger.Error("Falha ao buscar atributo para geração.", err)
			return nil, errors.NewDBError("Falha ao buscar atributo para geração", err)
		}

		values, err := r.valuesForAttribute(ctxTimeout, attributeID)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, errors.NewValidationError(fmt.Sprintf("O atributo '%s' não possui valores cadastrados.", name))
		}

		selections = append(selections, domain.AttributeSelection{
			AttributeID:   attributeID,
			AttributeName: name,
			Values:        values,
		})
	}

	return selections, nil
}

// valuesForAttribute busca os valores de um atributo na ordem de criação.
func (r *AttributeRepository) valuesForAttribute(ctx context.Context, attributeID string) ([]domain.AttributeValue, error) {
	const query = `
        SELECT id, attribute_id, value, created_at
        FROM attribute_values
        WHERE attribute_id = $1
        ORDER BY created_at, id`

	rows, err := r.DB.QueryContext(ctx, query, attributeID)
	if err != nil {
		r.logger.Error("Falha ao buscar valores de atributo no DB.", err)
		return nil, errors.NewDBError("Falha ao buscar valores de atributo", err)
	}
	defer rows.Close()

	var values []domain.AttributeValue
	for rows.Next() {
		var value domain.AttributeValue
		if err := rows.Scan(&value.ID, &value.AttributeID, &value.Value, &value.CreatedAt); err != nil {
			r.logger.Error("Falha ao mapear valor de atributo.", err)
			return nil, errors.NewDBError("Falha ao mapear valores de atributo", err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Erro após iteração de valores de atributo", err)
	}

	return values, nil
}
