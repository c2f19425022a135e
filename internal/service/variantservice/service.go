package variantservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// VariantRepository define o contrato que este Serviço espera da camada de
// Persistência de variantes.
type VariantRepository interface {
	InsertVariantWithLinks(ctx context.Context, productID string, variant domain.GeneratedVariant) (domain.PersistedVariant, error)
	SKUExists(ctx context.Context, sku string) (bool, error)
	FindByProduct(ctx context.Context, productID string) ([]domain.Variant, error)
	AttributeValueIDsForVariant(ctx context.Context, variantID string) ([]string, error)
}

// ProductRepository é o subconjunto do repositório de produtos que a geração precisa.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

// AttributeRepository é o subconjunto do catálogo de atributos que a geração precisa.
type AttributeRepository interface {
	AttributesForGeneration(ctx context.Context, attributeIDs []string) ([]domain.AttributeSelection, error)
}

// Service implementa a interface domain.VariantService: o motor de geração de
// combinações e a orquestração da criação em lote.
type Service struct {
	repo        VariantRepository
	productRepo ProductRepository
	attrRepo    AttributeRepository
	logger      logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Variantes.
func NewService(repo VariantRepository, productRepo ProductRepository, attrRepo AttributeRepository, logger logger.Logger) *Service {
	return &Service{
		repo:        repo,
		productRepo: productRepo,
		attrRepo:    attrRepo,
		logger:      logger,
	}
}

// GenerateAndCreate é a operação do endpoint POST /v1/products/{id}/variants/generate:
// valida o contrato do chamador, monta as seleções de atributos, gera as
// combinações e as persiste em lote.
//
// Violações de contrato (lista de atributos vazia, atributo sem valores,
// produto inexistente) falham rápido, ANTES de qualquer geração — nenhum
// estado parcial é criado. Depois que o lote começa, falhas são por linha e
// não abortam o restante (ver BulkCreate).
func (s *Service) GenerateAndCreate(ctx context.Context, productID string, req domain.GenerateVariantsRequest) (domain.BulkCreationResult, error) {
	s.logger.Debug("Iniciando geração de variantes no serviço.", map[string]interface{}{
		"product_id":       productID,
		"total_attributes": len(req.Attributes),
	})

	// 1. Validação de contrato do chamador
	if _, err := uuid.Parse(productID); err != nil {
		return domain.BulkCreationResult{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	if len(req.Attributes) == 0 {
		return domain.BulkCreationResult{}, apperror.NewValidationError("A lista de atributos não pode ser vazia.")
	}
	if req.DefaultPrice < 0 {
		return domain.BulkCreationResult{}, apperror.NewValidationError("O preço padrão não pode ser negativo.")
	}
	if req.DefaultQuantity < 0 {
		return domain.BulkCreationResult{}, apperror.NewValidationError("A quantidade padrão de estoque não pode ser negativa.")
	}

	// 2. O produto precisa existir: o slug alimenta a base do SKU.
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.BulkCreationResult{}, err
	}

	// 3. Catálogo de atributos (erro se algum atributo não tiver valores)
	selections, err := s.attrRepo.AttributesForGeneration(ctx, req.Attributes)
	if err != nil {
		return domain.BulkCreationResult{}, err
	}

	// 4. Geração pura das combinações
	variants := GenerateCombinations(product.Slug, selections, req.DefaultPrice, req.DefaultQuantity)

	// 5. Desempate de SKU: quando o SKU base já existe no storage, troca pelo
	//    UniqueSKU (sufixo de timestamp) antes de inserir. A checagem é do
	//    chamador, não da função de SKU.
	for i := range variants {
		exists, err := s.repo.SKUExists(ctx, variants[i].SKU)
		if err != nil {
			// Falha na checagem não impede a tentativa de inserção: a
			// constraint única do DB continua sendo a autoridade final.
			s.logger.Warn("Falha ao checar existência de SKU; seguindo com o SKU base.", map[string]interface{}{"sku": variants[i].SKU})
			continue
		}
		if exists {
			labels := make([]string, len(variants[i].AttributeDetails))
			for j, d := range variants[i].AttributeDetails {
				labels[j] = d.Value
			}
			variants[i].SKU = UniqueSKU(product.Slug, labels)
		}
	}

	// 6. Persistência em lote com isolamento de falhas por linha
	result := s.BulkCreate(ctx, productID, variants)

	s.logger.Info("Geração de variantes concluída.", map[string]interface{}{
		"product_id": productID,
		"created":    result.CreatedCount,
		"failed":     result.FailedCount,
	})
	return result, nil
}

// rowOutcome é o resultado de uma linha do lote: criada ou falhada.
// O fold final achata os outcomes em contadores e listas do BulkCreationResult.
type rowOutcome struct {
	created *domain.PersistedVariant
	failure string
}

// BulkCreate persiste cada GeneratedVariant como uma linha independente,
// sequencialmente, na ordem de entrada. Falha em uma linha é registrada e o
// lote CONTINUA — não há transação envolvendo o lote inteiro, e linhas já
// criadas não sofrem rollback. Uma colisão de SKU não pode descartar uma
// geração de 90 variantes.
//
// Success é verdadeiro sse FailedCount == 0; Errors fica nil quando não houve
// falhas (ausente do JSON, não lista vazia). Variants contém apenas as linhas
// criadas, na ordem de criação. Cancelamento no meio do lote não é suportado:
// uma vez invocado, o laço percorre todas as variantes geradas.
func (s *Service) BulkCreate(ctx context.Context, productID string, variants []domain.GeneratedVariant) domain.BulkCreationResult {
	outcomes := make([]rowOutcome, 0, len(variants))
	for _, variant := range variants {
		outcomes = append(outcomes, s.processRow(ctx, productID, variant))
	}

	result := domain.BulkCreationResult{
		Variants: []domain.PersistedVariant{},
	}
	for _, outcome := range outcomes {
		if outcome.created != nil {
			result.Variants = append(result.Variants, *outcome.created)
			result.CreatedCount++
			continue
		}
		result.Errors = append(result.Errors, outcome.failure)
		result.FailedCount++
	}
	result.Success = result.FailedCount == 0

	return result
}

// processRow executa o protocolo de uma linha do lote: inserir a variante e
// vinculá-la aos valores de atributo (uma transação por linha, no repositório).
// Qualquer erro vira o outcome de falha daquela linha, com o SKU e a causa.
func (s *Service) processRow(ctx context.Context, productID string, variant domain.GeneratedVariant) rowOutcome {
	persisted, err := s.repo.InsertVariantWithLinks(ctx, productID, variant)
	if err != nil {
		s.logger.Warn("Falha ao criar variante no lote.", map[string]interface{}{"sku": variant.SKU, "reason": err.Error()})

		// Caso defensivo: INSERT não devolveu linha.
		if errors.Is(err, domain.ErrVariantNotCreated) {
			return rowOutcome{failure: fmt.Sprintf("Failed to create variant with SKU: %s", variant.SKU)}
		}
		return rowOutcome{failure: fmt.Sprintf("Failed to create variant with SKU %s: %s", variant.SKU, err.Error())}
	}

	return rowOutcome{created: &persisted}
}

// GetVariantsByProduct lista as variantes persistidas de um produto.
func (s *Service) GetVariantsByProduct(ctx context.Context, productID string) ([]domain.Variant, error) {
	variants, err := s.repo.FindByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Falha ao listar variantes do produto.", err)
		return nil, err
	}
	return variants, nil
}

// GetAttributeValuesForVariant devolve os IDs de valores de atributo vinculados
// a uma variante persistida (as linhas de junção gravadas na criação).
func (s *Service) GetAttributeValuesForVariant(ctx context.Context, variantID string) ([]string, error) {
	if _, err := uuid.Parse(variantID); err != nil {
		return nil, apperror.NewValidationError("O ID da variante deve ser um UUID válido.")
	}

	ids, err := s.repo.AttributeValueIDsForVariant(ctx, variantID)
	if err != nil {
		s.logger.Error("Falha ao listar vínculos da variante.", err)
		return nil, err
	}
	return ids, nil
}
