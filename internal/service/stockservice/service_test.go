package stockservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/service/stockservice"
)

// MockStockRepository é uma implementação mock da interface StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) AdjustStock(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.Variant, error) {
	args := m.Called(ctx, adjustment)
	return args.Get(0).(domain.Variant), args.Error(1)
}

// TestAdjustStock_Success testa o ajuste de estoque com incremento de versão.
func TestAdjustStock_Success(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := stockservice.NewService(mockRepo, mockLogger)

	variantID := uuid.New().String()
	adjustment := domain.StockAdjustmentRequest{VariantID: variantID, Delta: 5}
	expected := domain.Variant{ID: variantID, QuantityInStock: 15, Version: 2}

	mockRepo.On("AdjustStock", mock.Anything, adjustment).Return(expected, nil)

	ctx := context.Background()
	variant, err := svc.AdjustStock(ctx, adjustment)

	assert.NoError(t, err)
	assert.Equal(t, 15, variant.QuantityInStock)
	assert.Equal(t, 2, variant.Version)
	mockRepo.AssertExpectations(t)
}

// TestAdjustStock_Fail_DeltaZero testa a rejeição de ajuste nulo.
func TestAdjustStock_Fail_DeltaZero(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := stockservice.NewService(mockRepo, mockLogger)

	ctx := context.Background()
	_, err := svc.AdjustStock(ctx, domain.StockAdjustmentRequest{VariantID: uuid.New().String(), Delta: 0})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "AdjustStock")
}

// TestAdjustStock_Fail_SemVariantID testa a rejeição de requisição sem variante.
func TestAdjustStock_Fail_SemVariantID(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := stockservice.NewService(mockRepo, mockLogger)

	ctx := context.Background()
	_, err := svc.AdjustStock(ctx, domain.StockAdjustmentRequest{VariantID: "", Delta: 3})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "AdjustStock")
}

// TestAdjustStock_Fail_ConflitoDeConcorrencia testa a tradução do conflito de
// OCC (versão desatualizada) para a mensagem de concorrência.
func TestAdjustStock_Fail_ConflitoDeConcorrencia(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := stockservice.NewService(mockRepo, mockLogger)

	adjustment := domain.StockAdjustmentRequest{VariantID: uuid.New().String(), Delta: -3}
	occErr := apperror.NewConflictError("A variante foi modificada por outra operação.")
	mockRepo.On("AdjustStock", mock.Anything, adjustment).Return(domain.Variant{}, occErr)

	ctx := context.Background()
	_, err := svc.AdjustStock(ctx, adjustment)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), "Falha de concorrência")
	mockRepo.AssertExpectations(t)
}

// TestAdjustStock_Fail_EstoqueNegativo testa que a validação do repositório
// (resultado negativo) passa intacta para o chamador.
func TestAdjustStock_Fail_EstoqueNegativo(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := stockservice.NewService(mockRepo, mockLogger)

	adjustment := domain.StockAdjustmentRequest{VariantID: uuid.New().String(), Delta: -99}
	repoErr := apperror.NewValidationError("O ajuste deixaria o estoque negativo.")
	mockRepo.On("AdjustStock", mock.Anything, adjustment).Return(domain.Variant{}, repoErr)

	ctx := context.Background()
	_, err := svc.AdjustStock(ctx, adjustment)

	assert.Error(t, err)
	assert.Equal(t, repoErr, err)
	mockRepo.AssertExpectations(t)
}

// TestAdjustStock_Fail_RepoError testa o encapsulamento de erros genéricos.
func TestAdjustStock_Fail_RepoError(t *testing.T) {
	mockRepo := new(MockStockRepository)
	mockLogger := logger.NewLogger("debug")

	svc := stockservice.NewService(mockRepo, mockLogger)

	adjustment := domain.StockAdjustmentRequest{VariantID: uuid.New().String(), Delta: 1}
	mockRepo.On("AdjustStock", mock.Anything, adjustment).Return(domain.Variant{}, errors.New("database connection lost"))

	ctx := context.Background()
	_, err := svc.AdjustStock(ctx, adjustment)

	assert.Error(t, err)
	assert.IsType(t, &apperror.InternalError{}, err)
	mockRepo.AssertExpectations(t)
}
