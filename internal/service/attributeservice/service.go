package attributeservice

import (
	"context"

	"github.com/google/uuid"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// AttributeRepository define o contrato que o Serviço de Atributos espera da
// camada de Persistência.
type AttributeRepository interface {
	CreateAttribute(ctx context.Context, attribute domain.Attribute) (domain.Attribute, error)
	GetAttributeByID(ctx context.Context, id string) (domain.Attribute, error)
	GetAllAttributes(ctx context.Context) ([]domain.Attribute, error)
	DeleteAttribute(ctx context.Context, id string) error
	AddValue(ctx context.Context, value domain.AttributeValue) (domain.AttributeValue, error)
	DeleteValue(ctx context.Context, valueID string) error
}

// Service é a estrutura que implementa a interface domain.AttributeService.
type Service struct {
	repo   AttributeRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Atributos.
func NewService(repo AttributeRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateAttribute valida e persiste um novo atributo (eixo de variação).
func (s *Service) CreateAttribute(ctx context.Context, attribute domain.Attribute) (domain.Attribute, error) {
	if attribute.Name == "" {
		return domain.Attribute{}, apperror.NewValidationError("O nome do atributo não pode ser vazio.")
	}

	created, err := s.repo.CreateAttribute(ctx, attribute)
	if err != nil {
		s.logger.Error("Falha ao criar atributo no repositório.", err)
		return domain.Attribute{}, err
	}

	// Valores informados junto com o atributo são cadastrados na ordem recebida
	// (a ordem de criação é a ordem de iteração na geração de variantes).
	for _, value := range attribute.Values {
		savedValue, err := s.repo.AddValue(ctx, domain.AttributeValue{
			AttributeID: created.ID,
			Value:       value.Value,
		})
		if err != nil {
			s.logger.Error("Falha ao criar valor inicial do atributo.", err)
			return domain.Attribute{}, err
		}
		created.Values = append(created.Values, savedValue)
	}

	return created, nil
}

// GetAttributeByID busca um atributo (com valores) pelo ID.
func (s *Service) GetAttributeByID(ctx context.Context, id string) (domain.Attribute, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Attribute{}, apperror.NewValidationError("O ID do atributo deve ser um UUID válido.")
	}

	return s.repo.GetAttributeByID(ctx, id)
}

// GetAllAttributes lista todos os atributos com seus valores.
func (s *Service) GetAllAttributes(ctx context.Context) ([]domain.Attribute, error) {
	attributes, err := s.repo.GetAllAttributes(ctx)
	if err != nil {
		return nil, apperror.NewInternalError("Falha interna ao buscar atributos.", err)
	}
	return attributes, nil
}

// DeleteAttribute remove um atributo e seus valores.
func (s *Service) DeleteAttribute(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do atributo deve ser um UUID válido.")
	}

	return s.repo.DeleteAttribute(ctx, id)
}

// AddValue cadastra um novo valor para um atributo existente.
func (s *Service) AddValue(ctx context.Context, attributeID string, value string) (domain.AttributeValue, error) {
	if _, err := uuid.Parse(attributeID); err != nil {
		return domain.AttributeValue{}, apperror.NewValidationError("O ID do atributo deve ser um UUID válido.")
	}
	if value == "" {
		return domain.AttributeValue{}, apperror.NewValidationError("O valor do atributo não pode ser vazio.")
	}

	// O atributo precisa existir (404 antes de inserir o valor)
	if _, err := s.repo.GetAttributeByID(ctx, attributeID); err != nil {
		return domain.AttributeValue{}, err
	}

	return s.repo.AddValue(ctx, domain.AttributeValue{
		AttributeID: attributeID,
		Value:       value,
	})
}

// DeleteValue remove um valor de atributo.
func (s *Service) DeleteValue(ctx context.Context, valueID string) error {
	if _, err := uuid.Parse(valueID); err != nil {
		return apperror.NewValidationError("O ID do valor deve ser um UUID válido.")
	}

	return s.repo.DeleteValue(ctx, valueID)
}
