package variant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/middleware"
)

// VariantService define o contrato que o Handler espera da camada de Serviço.
type VariantService interface {
	GenerateAndCreate(ctx context.Context, productID string, req domain.GenerateVariantsRequest) (domain.BulkCreationResult, error)
	GetVariantsByProduct(ctx context.Context, productID string) ([]domain.Variant, error)
	GetAttributeValuesForVariant(ctx context.Context, variantID string) ([]string, error)
}

// Handler agrupa todos os métodos de Handler de variantes.
type Handler struct {
	Service VariantService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc VariantService, log logger.Logger) *Handler {
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

// GenerateVariantsHandler lida com a requisição POST /v1/products/{id}/variants/generate.
//
// O endpoint responde 201 com o BulkCreationResult completo MESMO quando
// algumas linhas falharam: success=false é sinalizado dentro do payload, não
// pelo status HTTP. O chamador deve inspecionar o corpo, não só o status.
//
// @Summary Gera e cria variantes em lote
// @Description Computa o produto cartesiano dos valores dos atributos selecionados, deriva os SKUs e persiste cada variante como unidade independente, com relatório itemizado de sucessos e falhas.
// @Tags variants
// @Accept json
// @Produce json
// @Param id path string true "ID do Produto"
// @Param request body domain.GenerateVariantsRequest true "Atributos selecionados, preço e estoque padrão"
// @Success 201 {object} domain.GenerateVariantsResponse "Resultado itemizado da criação em lote"
// @Failure 400 {object} domain.ErrorResponse "Contrato violado (lista de atributos vazia, atributo sem valores)"
// @Failure 404 {object} domain.ErrorResponse "Produto ou atributo não encontrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /products/{id}/variants/generate [post]
func (h *Handler) GenerateVariantsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if claims, ok := middleware.GetUserClaimsFromContext(ctx); ok {
		h.Logger.Info("Geração de variantes solicitada.", map[string]interface{}{
			"user_id": claims.UserID,
			"role":    claims.Role,
		})
	}

	productID := r.PathValue("id")

	var req domain.GenerateVariantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusBadRequest)
		return
	}

	result, err := h.Service.GenerateAndCreate(ctx, productID, req)
	if err != nil {
		// Violações de contrato falham rápido, antes de qualquer persistência.
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	response := domain.GenerateVariantsResponse{
		Success: result.Success,
		Data:    result,
	}
	h.handleServiceResponse(w, r, response, nil, http.StatusCreated)
}

// ListVariantsHandler lida com a requisição GET /v1/products/{id}/variants.
// @Summary Lista as variantes de um produto
// @Tags variants
// @Produce json
// @Param id path string true "ID do Produto"
// @Success 200 {array} domain.Variant "Variantes do produto"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /products/{id}/variants [get]
func (h *Handler) ListVariantsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	variants, err := h.Service.GetVariantsByProduct(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, variants, nil, http.StatusOK)
}

// ListVariantAttributeValuesHandler lida com GET /v1/variants/{id}/attribute-values.
// @Summary Lista os valores de atributo vinculados a uma variante
// @Description Devolve os IDs de valores de atributo gravados na criação da variante (linhas de junção).
// @Tags variants
// @Produce json
// @Param id path string true "ID da Variante"
// @Success 200 {array} string "IDs dos valores de atributo"
// @Failure 400 {object} domain.ErrorResponse "ID malformado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /variants/{id}/attribute-values [get]
func (h *Handler) ListVariantAttributeValuesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := h.Service.GetAttributeValuesForVariant(ctx, r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, ids, nil, http.StatusOK)
}
