package stockservice

import (
	"context"
	"errors"
	"fmt"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// StockRepository define o contrato que o Serviço de Estoque espera da camada
// de Persistência (o ajuste vive no repositório de variantes).
type StockRepository interface {
	AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.Variant, error)
}

// Service aplica ajustes de estoque a variantes, com controle de concorrência
// otimista delegado ao repositório.
type Service struct {
	repo   StockRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo StockRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// AdjustStock aplica um ajuste (delta) ao estoque de uma variante.
func (s *Service) AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.Variant, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{
		"variant_id": adjustment.VariantID,
		"delta":      adjustment.Delta,
	})

	if adjustment.VariantID == "" {
		return domain.Variant{}, apperror.NewValidationError("O ID da variante é obrigatório.")
	}
	if adjustment.Delta == 0 {
		return domain.Variant{}, apperror.NewValidationError("O ajuste de estoque (delta) não pode ser zero.")
	}

	variant, err := s.repo.AdjustStock(ctx, adjustment)
	if err != nil {
		s.logger.Error("Falha ao ajustar estoque no repositório.", err)
		var conflictErr *apperror.ConflictError
		if errors.As(err, &conflictErr) {
			return domain.Variant{}, apperror.NewConflictError(fmt.Sprintf("Falha de concorrência: %s", conflictErr.Error()))
		}
		var validationErr *apperror.ValidationError
		if errors.As(err, &validationErr) {
			return domain.Variant{}, err
		}
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.Variant{}, err
		}
		return domain.Variant{}, apperror.NewInternalError("Falha interna ao ajustar estoque.", err)
	}

	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"variant_id":   variant.ID,
		"new_quantity": variant.QuantityInStock,
		"new_version":  variant.Version,
	})
	return variant, nil
}
