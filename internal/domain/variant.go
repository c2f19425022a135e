package domain

import (
	"context"
	"errors"
	"time"
)

// ErrVariantNotCreated sinaliza o caso defensivo em que o INSERT da variante
// não devolve linha alguma. O serviço o traduz na mensagem de falha da linha.
var ErrVariantNotCreated = errors.New("a inserção da variante não retornou linha")

// Variant representa um SKU concreto e comprável de um Produto, identificado
// pela combinação de valores de atributos (e.g., Tamanho=Grande, Cor=Vermelho).
// O controle de estoque é feito a nível de Variant, com coluna 'version' para
// controle de concorrência otimista.
type Variant struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	SKU             string    `json:"sku"` // Único globalmente (constraint no DB)
	Price           float64   `json:"price"`
	QuantityInStock int       `json:"quantity_in_stock"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AttributeDetail é a descrição legível de uma posição da combinação,
// para exibição no back office.
type AttributeDetail struct {
	AttributeID   string `json:"attribute_id"`
	AttributeName string `json:"attribute_name"`
	Value         string `json:"value"`
}

// GeneratedVariant é o resultado efêmero do gerador de combinações: uma
// variante por elemento do produto cartesiano, ainda não persistida.
type GeneratedVariant struct {
	SKU               string            `json:"sku"`
	Price             float64           `json:"price"`
	QuantityInStock   int               `json:"quantity_in_stock"`
	AttributeValueIDs []string          `json:"attribute_value_ids"`
	AttributeDetails  []AttributeDetail `json:"attribute_details"`
}

// PersistedVariant é o retorno mínimo da criação de uma variante.
type PersistedVariant struct {
	ID  string `json:"id"`
	SKU string `json:"sku"`
}

// BulkCreationResult é o relatório itemizado de uma criação em lote.
// Success é verdadeiro sse FailedCount == 0. Errors fica ausente do JSON
// quando não houve falhas (nil, não lista vazia).
type BulkCreationResult struct {
	Success      bool               `json:"success"`
	CreatedCount int                `json:"created_count"`
	FailedCount  int                `json:"failed_count"`
	Variants     []PersistedVariant `json:"variants"`
	Errors       []string           `json:"errors,omitempty"`
}

// GenerateVariantsRequest é o payload de POST /v1/products/{id}/variants/generate.
type GenerateVariantsRequest struct {
	Attributes      []string `json:"attributes"` // IDs dos atributos selecionados
	DefaultPrice    float64  `json:"default_price"`
	DefaultQuantity int      `json:"default_quantity"`
}

// GenerateVariantsResponse é o envelope de resposta do endpoint de geração.
// O HTTP retorna 201 mesmo com falhas parciais; success=false é sinalizado
// dentro do payload, não pelo status.
type GenerateVariantsResponse struct {
	Success bool               `json:"success"`
	Data    BulkCreationResult `json:"data"`
}

// StockAdjustmentRequest é o payload esperado para o ajuste de estoque de uma variante.
type StockAdjustmentRequest struct {
	VariantID string `json:"variant_id"`
	Delta     int    `json:"delta"` // Quantidade a ser adicionada/removida
}

// VariantService define o contrato de lógica de negócio do motor de variantes.
type VariantService interface {
	GenerateAndCreate(ctx context.Context, productID string, req GenerateVariantsRequest) (BulkCreationResult, error)
	BulkCreate(ctx context.Context, productID string, variants []GeneratedVariant) BulkCreationResult
	GetVariantsByProduct(ctx context.Context, productID string) ([]Variant, error)
	GetAttributeValuesForVariant(ctx context.Context, variantID string) ([]string, error)
}

// VariantRepository define o contrato de persistência das variantes.
type VariantRepository interface {
	// InsertVariantWithLinks insere a linha da variante e as linhas de junção
	// com os valores de atributo em UMA transação: falha no vínculo desfaz a
	// variante daquela linha (sem órfãos).
	InsertVariantWithLinks(ctx context.Context, productID string, variant GeneratedVariant) (PersistedVariant, error)
	SKUExists(ctx context.Context, sku string) (bool, error)
	FindByProduct(ctx context.Context, productID string) ([]Variant, error)
	AttributeValueIDsForVariant(ctx context.Context, variantID string) ([]string, error)
	AdjustStock(ctx context.Context, adjustment StockAdjustmentRequest) (Variant, error)
}
