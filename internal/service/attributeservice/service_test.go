package attributeservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/service/attributeservice"
)

// MockAttributeRepository é uma implementação mock da interface AttributeRepository
type MockAttributeRepository struct {
	mock.Mock
}

func (m *MockAttributeRepository) CreateAttribute(ctx context.Context, attribute domain.Attribute) (domain.Attribute, error) {
	args := m.Called(ctx, attribute)
	return args.Get(0).(domain.Attribute), args.Error(1)
}

func (m *MockAttributeRepository) GetAttributeByID(ctx context.Context, id string) (domain.Attribute, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Attribute), args.Error(1)
}

func (m *MockAttributeRepository) GetAllAttributes(ctx context.Context) ([]domain.Attribute, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Attribute), args.Error(1)
}

func (m *MockAttributeRepository) DeleteAttribute(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttributeRepository) AddValue(ctx context.Context, value domain.AttributeValue) (domain.AttributeValue, error) {
	args := m.Called(ctx, value)
	return args.Get(0).(domain.AttributeValue), args.Error(1)
}

func (m *MockAttributeRepository) DeleteValue(ctx context.Context, valueID string) error {
	args := m.Called(ctx, valueID)
	return args.Error(0)
}

// TestCreateAttribute_Success_ComValoresIniciais testa a criação de um atributo
// com valores iniciais cadastrados na ordem recebida (a ordem de criação é a
// ordem de iteração na geração de variantes).
func TestCreateAttribute_Success_ComValoresIniciais(t *testing.T) {
	mockRepo := new(MockAttributeRepository)
	mockLogger := logger.NewLogger("debug")

	svc := attributeservice.NewService(mockRepo, mockLogger)

	attrID := uuid.New().String()
	input := domain.Attribute{
		Name: "Tamanho",
		Values: []domain.AttributeValue{
			{Value: "Small"},
			{Value: "Large"},
		},
	}

	mockRepo.On("CreateAttribute", mock.Anything, input).Return(domain.Attribute{ID: attrID, Name: "Tamanho"}, nil)
	mockRepo.On("AddValue", mock.Anything, domain.AttributeValue{AttributeID: attrID, Value: "Small"}).
		Return(domain.AttributeValue{ID: uuid.New().String(), AttributeID: attrID, Value: "Small"}, nil)
	mockRepo.On("AddValue", mock.Anything, domain.AttributeValue{AttributeID: attrID, Value: "Large"}).
		Return(domain.AttributeValue{ID: uuid.New().String(), AttributeID: attrID, Value: "Large"}, nil)

	ctx := context.Background()
	created, err := svc.CreateAttribute(ctx, input)

	assert.NoError(t, err)
	assert.Len(t, created.Values, 2)
	assert.Equal(t, "Small", created.Values[0].Value)
	assert.Equal(t, "Large", created.Values[1].Value)
	mockRepo.AssertExpectations(t)
}

// TestCreateAttribute_Fail_NomeVazio testa a rejeição de atributo sem nome.
func TestCreateAttribute_Fail_NomeVazio(t *testing.T) {
	mockRepo := new(MockAttributeRepository)
	mockLogger := logger.NewLogger("debug")

	svc := attributeservice.NewService(mockRepo, mockLogger)

	ctx := context.Background()
	_, err := svc.CreateAttribute(ctx, domain.Attribute{Name: ""})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "CreateAttribute")
}

// TestAddValue_Fail_AtributoInexistente testa que o valor não é inserido quando
// o atributo não existe (404 antes do INSERT).
func TestAddValue_Fail_AtributoInexistente(t *testing.T) {
	mockRepo := new(MockAttributeRepository)
	mockLogger := logger.NewLogger("debug")

	svc := attributeservice.NewService(mockRepo, mockLogger)

	attrID := uuid.New().String()
	notFound := apperror.NewNotFoundError("Atributo não encontrado.")
	mockRepo.On("GetAttributeByID", mock.Anything, attrID).Return(domain.Attribute{}, notFound)

	ctx := context.Background()
	_, err := svc.AddValue(ctx, attrID, "Red")

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "AddValue")
}

// TestAddValue_Fail_ValorVazio testa a rejeição de valor vazio.
func TestAddValue_Fail_ValorVazio(t *testing.T) {
	mockRepo := new(MockAttributeRepository)
	mockLogger := logger.NewLogger("debug")

	svc := attributeservice.NewService(mockRepo, mockLogger)

	ctx := context.Background()
	_, err := svc.AddValue(ctx, uuid.New().String(), "")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "GetAttributeByID")
}

// TestDeleteAttribute_Fail_InvalidUUID testa a rejeição de IDs malformados.
func TestDeleteAttribute_Fail_InvalidUUID(t *testing.T) {
	mockRepo := new(MockAttributeRepository)
	mockLogger := logger.NewLogger("debug")

	svc := attributeservice.NewService(mockRepo, mockLogger)

	ctx := context.Background()
	err := svc.DeleteAttribute(ctx, "nao-e-um-uuid")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "DeleteAttribute")
}

// TestGetAllAttributes_Success testa a listagem dos atributos do catálogo.
func TestGetAllAttributes_Success(t *testing.T) {
	mockRepo := new(MockAttributeRepository)
	mockLogger := logger.NewLogger("debug")

	svc := attributeservice.NewService(mockRepo, mockLogger)

	expected := []domain.Attribute{
		{ID: uuid.New().String(), Name: "Cor"},
		{ID: uuid.New().String(), Name: "Tamanho"},
	}
	mockRepo.On("GetAllAttributes", mock.Anything).Return(expected, nil)

	ctx := context.Background()
	attributes, err := svc.GetAllAttributes(ctx)

	assert.NoError(t, err)
	assert.Equal(t, expected, attributes)
	mockRepo.AssertExpectations(t)
}
