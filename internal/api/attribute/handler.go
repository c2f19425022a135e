package attribute

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// AttributeService define o contrato que o Handler espera da camada de Serviço.
type AttributeService interface {
	CreateAttribute(ctx context.Context, attribute domain.Attribute) (domain.Attribute, error)
	GetAttributeByID(ctx context.Context, id string) (domain.Attribute, error)
	GetAllAttributes(ctx context.Context) ([]domain.Attribute, error)
	DeleteAttribute(ctx context.Context, id string) error
	AddValue(ctx context.Context, attributeID string, value string) (domain.AttributeValue, error)
	DeleteValue(ctx context.Context, valueID string) error
}

// AddValueRequest é o payload para cadastrar um valor de atributo.
type AddValueRequest struct {
	Value string `json:"value"`
}

// Handler agrupa todos os métodos de Handler de atributos.
type Handler struct {
	Service AttributeService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AttributeService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		// Sucesso
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	// TRATAMENTO DE ERROS
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// CreateAttributeHandler lida com a requisição POST /v1/attributes.
// @Summary Cria um novo atributo
// @Description Cria um eixo de variação (e.g., "Tamanho") com valores iniciais opcionais.
// @Tags attributes
// @Accept json
// @Produce json
// @Param attribute body domain.Attribute true "Dados do atributo"
// @Success 201 {object} domain.Attribute "Atributo criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /attributes [post]
func (h *Handler) CreateAttributeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var attribute domain.Attribute
	if err := json.NewDecoder(r.Body).Decode(&attribute); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateAttribute(ctx, attribute)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, created, nil, http.StatusCreated)
}

// GetAttributeByIDHandler lida com a requisição GET /v1/attributes/{id}.
// @Summary Obtém um atributo por ID (com valores)
// @Tags attributes
// @Produce json
// @Param id path string true "ID do Atributo"
// @Success 200 {object} domain.Attribute "Atributo encontrado"
// @Failure 404 {object} domain.ErrorResponse "Atributo não encontrado"
// @Router /attributes/{id} [get]
func (h *Handler) GetAttributeByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attribute, err := h.Service.GetAttributeByID(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, attribute, nil, http.StatusOK)
}

// ListAttributesHandler lida com a requisição GET /v1/attributes.
// @Summary Lista todos os atributos com seus valores
// @Tags attributes
// @Produce json
// @Success 200 {array} domain.Attribute "Atributos"
// @Router /attributes [get]
func (h *Handler) ListAttributesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	attributes, err := h.Service.GetAllAttributes(ctx)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, attributes, nil, http.StatusOK)
}

// DeleteAttributeHandler lida com a requisição DELETE /v1/attributes/{id}.
// @Summary Remove um atributo e seus valores
// @Tags attributes
// @Param id path string true "ID do Atributo"
// @Success 204 "Atributo removido"
// @Failure 404 {object} domain.ErrorResponse "Atributo não encontrado"
// @Security ApiKeyAuth
// @Router /attributes/{id} [delete]
func (h *Handler) DeleteAttributeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Service.DeleteAttribute(ctx, r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// AddValueHandler lida com a requisição POST /v1/attributes/{id}/values.
// @Summary Cadastra um valor para um atributo
// @Description A ordem de cadastro dos valores é a ordem de iteração na geração de variantes.
// @Tags attributes
// @Accept json
// @Produce json
// @Param id path string true "ID do Atributo"
// @Param value body AddValueRequest true "Valor a cadastrar"
// @Success 201 {object} domain.AttributeValue "Valor criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Atributo não encontrado"
// @Security ApiKeyAuth
// @Router /attributes/{id}/values [post]
func (h *Handler) AddValueHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddValueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	value, err := h.Service.AddValue(ctx, r.PathValue("id"), req.Value)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, value, nil, http.StatusCreated)
}

// DeleteValueHandler lida com a requisição DELETE /v1/attribute-values/{id}.
// @Summary Remove um valor de atributo
// @Tags attributes
// @Param id path string true "ID do Valor"
// @Success 204 "Valor removido"
// @Failure 404 {object} domain.ErrorResponse "Valor não encontrado"
// @Security ApiKeyAuth
// @Router /attribute-values/{id} [delete]
func (h *Handler) DeleteValueHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Service.DeleteValue(ctx, r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}
