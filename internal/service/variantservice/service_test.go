package variantservice_test

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
	"gocatalog/internal/service/variantservice"
)

// MockVariantRepository é uma implementação mock da interface VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) InsertVariantWithLinks(ctx context.Context, productID string, variant domain.GeneratedVariant) (domain.PersistedVariant, error) {
	args := m.Called(ctx, productID, variant)
	return args.Get(0).(domain.PersistedVariant), args.Error(1)
}

func (m *MockVariantRepository) SKUExists(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockVariantRepository) FindByProduct(ctx context.Context, productID string) ([]domain.Variant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.Variant), args.Error(1)
}

func (m *MockVariantRepository) AttributeValueIDsForVariant(ctx context.Context, variantID string) ([]string, error) {
	args := m.Called(ctx, variantID)
	return args.Get(0).([]string), args.Error(1)
}

// MockProductRepository é uma implementação mock da interface ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

// MockAttributeRepository é uma implementação mock da interface AttributeRepository
type MockAttributeRepository struct {
	mock.Mock
}

func (m *MockAttributeRepository) AttributesForGeneration(ctx context.Context, attributeIDs []string) ([]domain.AttributeSelection, error) {
	args := m.Called(ctx, attributeIDs)
	return args.Get(0).([]domain.AttributeSelection), args.Error(1)
}

// newTestService monta o serviço com os três mocks.
func newTestService() (*variantservice.Service, *MockVariantRepository, *MockProductRepository, *MockAttributeRepository) {
	mockRepo := new(MockVariantRepository)
	mockProductRepo := new(MockProductRepository)
	mockAttrRepo := new(MockAttributeRepository)
	mockLogger := logger.NewLogger("debug")

	svc := variantservice.NewService(mockRepo, mockProductRepo, mockAttrRepo, mockLogger)
	return svc, mockRepo, mockProductRepo, mockAttrRepo
}

// TestGenerateAndCreate_Success testa o caminho feliz: produto + 1 atributo com
// 2 valores geram e persistem 2 variantes.
func TestGenerateAndCreate_Success(t *testing.T) {
	svc, mockRepo, mockProductRepo, mockAttrRepo := newTestService()

	productID := uuid.New().String()
	product := domain.Product{ID: productID, Name: "Summer Tee", Slug: "summer-tee"}
	selections := []domain.AttributeSelection{
		selection("Cor", "Red", "Blue"),
	}

	mockProductRepo.On("FindByID", mock.Anything, productID).Return(product, nil)
	mockAttrRepo.On("AttributesForGeneration", mock.Anything, []string{"cor-id"}).Return(selections, nil)
	mockRepo.On("SKUExists", mock.Anything, mock.Anything).Return(false, nil)

	// Os IDs de valores de atributo selecionados chegam intactos à persistência:
	// cada linha leva exatamente o ID do seu valor, na ordem dos atributos.
	matchRow := func(sku, valueID string) interface{} {
		return mock.MatchedBy(func(v domain.GeneratedVariant) bool {
			return v.SKU == sku &&
				len(v.AttributeValueIDs) == 1 &&
				v.AttributeValueIDs[0] == valueID
		})
	}
	mockRepo.On("InsertVariantWithLinks", mock.Anything, productID, matchRow("SUMM-RED", "Cor-Red")).
		Return(domain.PersistedVariant{ID: uuid.New().String(), SKU: "SUMM-RED"}, nil).Once()
	mockRepo.On("InsertVariantWithLinks", mock.Anything, productID, matchRow("SUMM-BLU", "Cor-Blue")).
		Return(domain.PersistedVariant{ID: uuid.New().String(), SKU: "SUMM-BLU"}, nil).Once()

	ctx := context.Background()
	result, err := svc.GenerateAndCreate(ctx, productID, domain.GenerateVariantsRequest{
		Attributes:      []string{"cor-id"},
		DefaultPrice:    49.90,
		DefaultQuantity: 5,
	})

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.Len(t, result.Variants, 2)
	// Sem falhas, Errors fica nil (ausente do JSON), não lista vazia
	assert.Nil(t, result.Errors)
	mockRepo.AssertExpectations(t)
	mockProductRepo.AssertExpectations(t)
	mockAttrRepo.AssertExpectations(t)
}

// TestGenerateAndCreate_FalhaParcialNaoAbortaOLote testa o isolamento por
// linha: a falha da segunda variante não impede a criação das demais.
func TestGenerateAndCreate_FalhaParcialNaoAbortaOLote(t *testing.T) {
	svc, mockRepo, mockProductRepo, mockAttrRepo := newTestService()

	productID := uuid.New().String()
	product := domain.Product{ID: productID, Name: "Summer Tee", Slug: "summer-tee"}
	selections := []domain.AttributeSelection{
		selection("Cor", "Red", "Green", "Blue"),
	}

	mockProductRepo.On("FindByID", mock.Anything, productID).Return(product, nil)
	mockAttrRepo.On("AttributesForGeneration", mock.Anything, []string{"cor-id"}).Return(selections, nil)
	mockRepo.On("SKUExists", mock.Anything, mock.Anything).Return(false, nil)

	matchSKU := func(sku string) interface{} {
		return mock.MatchedBy(func(v domain.GeneratedVariant) bool { return v.SKU == sku })
	}
	mockRepo.On("InsertVariantWithLinks", mock.Anything, productID, matchSKU("SUMM-RED")).
		Return(domain.PersistedVariant{ID: uuid.New().String(), SKU: "SUMM-RED"}, nil)
	mockRepo.On("InsertVariantWithLinks", mock.Anything, productID, matchSKU("SUMM-GRE")).
		Return(domain.PersistedVariant{}, errors.New(`pq: duplicate key value violates unique constraint "variants_sku_key"`))
	mockRepo.On("InsertVariantWithLinks", mock.Anything, productID, matchSKU("SUMM-BLU")).
		Return(domain.PersistedVariant{ID: uuid.New().String(), SKU: "SUMM-BLU"}, nil)

	ctx := context.Background()
	result, err := svc.GenerateAndCreate(ctx, productID, domain.GenerateVariantsRequest{
		Attributes: []string{"cor-id"},
	})

	assert.NoError(t, err) // falha parcial NÃO é erro da operação
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, result.Variants, 2)
	// A linha falhada não aparece entre as criadas
	for _, v := range result.Variants {
		assert.NotEqual(t, "SUMM-GRE", v.SKU)
	}
	// A mensagem de erro identifica o SKU e a causa
	assert.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Failed to create variant with SKU SUMM-GRE:")
	assert.Contains(t, result.Errors[0], "variants_sku_key")
	mockRepo.AssertExpectations(t)
}

// TestGenerateAndCreate_InsercaoSemLinha testa a mensagem do caso defensivo em
// que o INSERT não devolve linha (sem causa subjacente).
func TestGenerateAndCreate_InsercaoSemLinha(t *testing.T) {
	svc, mockRepo, mockProductRepo, mockAttrRepo := newTestService()

	productID := uuid.New().String()
	product := domain.Product{ID: productID, Slug: "summer-tee"}
	selections := []domain.AttributeSelection{selection("Cor", "Red")}

	mockProductRepo.On("FindByID", mock.Anything, productID).Return(product, nil)
	mockAttrRepo.On("AttributesForGeneration", mock.Anything, mock.Anything).Return(selections, nil)
	mockRepo.On("SKUExists", mock.Anything, mock.Anything).Return(false, nil)
	mockRepo.On("InsertVariantWithLinks", mock.Anything, productID, mock.Anything).
		Return(domain.PersistedVariant{}, domain.ErrVariantNotCreated)

	ctx := context.Background()
	result, err := svc.GenerateAndCreate(ctx, productID, domain.GenerateVariantsRequest{
		Attributes: []string{"cor-id"},
	})

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{"Failed to create variant with SKU: SUMM-RED"}, result.Errors)
}

// TestGenerateAndCreate_ListaDeAtributosVazia testa a violação de contrato:
// erro de validação antes de qualquer acesso a storage.
func TestGenerateAndCreate_ListaDeAtributosVazia(t *testing.T) {
	svc, mockRepo, mockProductRepo, _ := newTestService()

	ctx := context.Background()
	_, err := svc.GenerateAndCreate(ctx, uuid.New().String(), domain.GenerateVariantsRequest{
		Attributes: []string{},
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockProductRepo.AssertNotCalled(t, "FindByID")
	mockRepo.AssertNotCalled(t, "InsertVariantWithLinks")
}

// TestGenerateAndCreate_IDDeProdutoInvalido testa a rejeição de ID não-UUID.
func TestGenerateAndCreate_IDDeProdutoInvalido(t *testing.T) {
	svc, _, mockProductRepo, _ := newTestService()

	ctx := context.Background()
	_, err := svc.GenerateAndCreate(ctx, "nao-e-um-uuid", domain.GenerateVariantsRequest{
		Attributes: []string{"cor-id"},
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockProductRepo.AssertNotCalled(t, "FindByID")
}

// TestGenerateAndCreate_ProdutoNaoEncontrado testa a propagação do 404 do
// repositório de produtos, antes de qualquer geração.
func TestGenerateAndCreate_ProdutoNaoEncontrado(t *testing.T) {
	svc, mockRepo, mockProductRepo, mockAttrRepo := newTestService()

	productID := uuid.New().String()
	notFound := apperror.NewNotFoundError("Produto não encontrado.")
	mockProductRepo.On("FindByID", mock.Anything, productID).Return(domain.Product{}, notFound)

	ctx := context.Background()
	_, err := svc.GenerateAndCreate(ctx, productID, domain.GenerateVariantsRequest{
		Attributes: []string{"cor-id"},
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockAttrRepo.AssertNotCalled(t, "AttributesForGeneration")
	mockRepo.AssertNotCalled(t, "InsertVariantWithLinks")
}

// TestGenerateAndCreate_AtributoSemValores testa que o erro do catálogo de
// atributos aborta a operação inteira (falha rápida, nada é criado).
func TestGenerateAndCreate_AtributoSemValores(t *testing.T) {
	svc, mockRepo, mockProductRepo, mockAttrRepo := newTestService()

	productID := uuid.New().String()
	product := domain.Product{ID: productID, Slug: "summer-tee"}
	mockProductRepo.On("FindByID", mock.Anything, productID).Return(product, nil)
	mockAttrRepo.On("AttributesForGeneration", mock.Anything, mock.Anything).
		Return([]domain.AttributeSelection{}, apperror.NewValidationError("O atributo 'Cor' não possui valores cadastrados."))

	ctx := context.Background()
	_, err := svc.GenerateAndCreate(ctx, productID, domain.GenerateVariantsRequest{
		Attributes: []string{"cor-id"},
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "InsertVariantWithLinks")
}

// TestGenerateAndCreate_ColisaoDeSKUUsaDesempate testa que, quando o SKU base
// já existe no storage, a inserção usa o SKU com sufixo de desempate.
func TestGenerateAndCreate_ColisaoDeSKUUsaDesempate(t *testing.T) {
	svc, mockRepo, mockProductRepo, mockAttrRepo := newTestService()

	productID := uuid.New().String()
	product := domain.Product{ID: productID, Slug: "summer-tee"}
	selections := []domain.AttributeSelection{selection("Cor", "Red")}

	mockProductRepo.On("FindByID", mock.Anything, productID).Return(product, nil)
	mockAttrRepo.On("AttributesForGeneration", mock.Anything, mock.Anything).Return(selections, nil)
	mockRepo.On("SKUExists", mock.Anything, "SUMM-RED").Return(true, nil)
	mockRepo.On("InsertVariantWithLinks", mock.Anything, productID, mock.MatchedBy(func(v domain.GeneratedVariant) bool {
		// SKU base + "-" + 6 dígitos de desempate
		return len(v.SKU) == len("SUMM-RED")+7 && v.SKU[:9] == "SUMM-RED-"
	})).Return(domain.PersistedVariant{ID: uuid.New().String()}, nil)

	ctx := context.Background()
	result, err := svc.GenerateAndCreate(ctx, productID, domain.GenerateVariantsRequest{
		Attributes: []string{"cor-id"},
	})

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.CreatedCount)
	mockRepo.AssertExpectations(t)
}

// TestGenerateAndCreate_QuantidadePadraoNegativa testa a rejeição de estoque
// padrão negativo.
func TestGenerateAndCreate_QuantidadePadraoNegativa(t *testing.T) {
	svc, _, _, _ := newTestService()

	ctx := context.Background()
	_, err := svc.GenerateAndCreate(ctx, uuid.New().String(), domain.GenerateVariantsRequest{
		Attributes:      []string{"cor-id"},
		DefaultQuantity: -1,
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestGenerateAndCreate_PrecoPadraoNegativo testa a rejeição de preço padrão
// negativo, simétrica à de estoque negativo.
func TestGenerateAndCreate_PrecoPadraoNegativo(t *testing.T) {
	svc, _, mockProductRepo, _ := newTestService()

	ctx := context.Background()
	_, err := svc.GenerateAndCreate(ctx, uuid.New().String(), domain.GenerateVariantsRequest{
		Attributes:   []string{"cor-id"},
		DefaultPrice: -0.01,
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockProductRepo.AssertNotCalled(t, "FindByID")
}

// TestBulkCreate_LoteVazio testa que um lote vazio é um sucesso trivial.
func TestBulkCreate_LoteVazio(t *testing.T) {
	svc, _, _, _ := newTestService()

	ctx := context.Background()
	result := svc.BulkCreate(ctx, uuid.New().String(), nil)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Equal(t, 0, result.FailedCount)
	assert.NotNil(t, result.Variants)
	assert.Empty(t, result.Variants)
	assert.Nil(t, result.Errors)
}

// TestGetVariantsByProduct_Success testa a listagem de variantes persistidas.
func TestGetVariantsByProduct_Success(t *testing.T) {
	svc, mockRepo, _, _ := newTestService()

	productID := uuid.New().String()
	expected := []domain.Variant{
		{ID: uuid.New().String(), ProductID: productID, SKU: "SUMM-BLU"},
		{ID: uuid.New().String(), ProductID: productID, SKU: "SUMM-RED"},
	}
	mockRepo.On("FindByProduct", mock.Anything, productID).Return(expected, nil)

	ctx := context.Background()
	variants, err := svc.GetVariantsByProduct(ctx, productID)

	assert.NoError(t, err)
	assert.Equal(t, expected, variants)
	mockRepo.AssertExpectations(t)
}

// TestGetAttributeValuesForVariant_Success testa a leitura das linhas de
// junção de uma variante persistida, na ordem em que foram gravadas.
func TestGetAttributeValuesForVariant_Success(t *testing.T) {
	svc, mockRepo, _, _ := newTestService()

	variantID := uuid.New().String()
	expected := []string{"Tamanho-Large", "Cor-Red"}
	mockRepo.On("AttributeValueIDsForVariant", mock.Anything, variantID).Return(expected, nil)

	ctx := context.Background()
	ids, err := svc.GetAttributeValuesForVariant(ctx, variantID)

	assert.NoError(t, err)
	assert.Equal(t, expected, ids)
	mockRepo.AssertExpectations(t)
}

// TestGetAttributeValuesForVariant_IDInvalido testa a rejeição de ID não-UUID.
func TestGetAttributeValuesForVariant_IDInvalido(t *testing.T) {
	svc, mockRepo, _, _ := newTestService()

	ctx := context.Background()
	_, err := svc.GetAttributeValuesForVariant(ctx, "nao-e-um-uuid")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "AttributeValueIDsForVariant")
}
