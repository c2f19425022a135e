package domain

import (
	"context"
	"time"
)

// Attribute representa um eixo de variação de um produto (e.g., "Tamanho", "Cor").
type Attribute struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Values    []AttributeValue `json:"values,omitempty"`
}

// AttributeValue representa um valor concreto de um atributo (e.g., "Grande", "Vermelho").
type AttributeValue struct {
	ID          string    `json:"id"`
	AttributeID string    `json:"attribute_id"`
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttributeSelection é o insumo da geração de variantes: um atributo com os
// valores selecionados, na ordem em que o chamador os quer combinados.
// Invariante (contrato do chamador): Values não-vazio — o catálogo de atributos
// rejeita a geração quando algum atributo não tem valores.
type AttributeSelection struct {
	AttributeID   string           `json:"attribute_id"`
	AttributeName string           `json:"attribute_name"`
	Values        []AttributeValue `json:"values"`
}

// AttributeService define o contrato de lógica de negócio do catálogo de atributos.
type AttributeService interface {
	CreateAttribute(ctx context.Context, attribute Attribute) (Attribute, error)
	GetAttributeByID(ctx context.Context, id string) (Attribute, error)
	GetAllAttributes(ctx context.Context) ([]Attribute, error)
	DeleteAttribute(ctx context.Context, id string) error
	AddValue(ctx context.Context, attributeID string, value string) (AttributeValue, error)
	DeleteValue(ctx context.Context, valueID string) error
}

// AttributeRepository define o contrato de persistência do catálogo de atributos.
type AttributeRepository interface {
	CreateAttribute(ctx context.Context, attribute Attribute) (Attribute, error)
	GetAttributeByID(ctx context.Context, id string) (Attribute, error)
	GetAllAttributes(ctx context.Context) ([]Attribute, error)
	DeleteAttribute(ctx context.Context, id string) error
	AddValue(ctx context.Context, value AttributeValue) (AttributeValue, error)
	DeleteValue(ctx context.Context, valueID string) error

	// AttributesForGeneration devolve as seleções na ordem pedida pelo chamador,
	// com os valores de cada atributo na ordem de criação. Erro se algum
	// atributo não existir ou não tiver valores.
	AttributesForGeneration(ctx context.Context, attributeIDs []string) ([]AttributeSelection, error)
}
