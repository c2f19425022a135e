package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gocatalog/internal/api/attribute"
	"gocatalog/internal/api/product"
	"gocatalog/internal/api/stock"
	"gocatalog/internal/api/user"
	"gocatalog/internal/api/variant"
	"gocatalog/internal/domain"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/middleware"
	"gocatalog/internal/pkg/token"
)

// RateLimitConfig agrupa os parâmetros do rate limiter global.
type RateLimitConfig struct {
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(
	productHandler *product.Handler,
	variantHandler *variant.Handler,
	attributeHandler *attribute.Handler,
	stockHandler *stock.Handler,
	userHandler *user.Handler,
	tokenSvc *token.Service,
	cacheClient cache.Client,
	rateLimit RateLimitConfig,
) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	// Middlewares de autenticação/autorização para rotas de escrita
	auth := middleware.NewAuthMiddleware(tokenSvc)
	canWrite := middleware.PermissionMiddleware(domain.RoleAdmin, domain.RoleEditor)
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(canWrite(h))
	}

	// --- 1. Health Check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- 2. Autenticação (rotas públicas) ---
	mux.HandleFunc("POST /v1/register", userHandler.RegisterUserHandler)
	mux.HandleFunc("POST /v1/login", userHandler.LoginUserHandler)

	// --- 3. Produtos ---
	mux.HandleFunc("POST /v1/products", protected(productHandler.CreateProductHandler))
	mux.HandleFunc("GET /v1/products", productHandler.ListProductsHandler)
	mux.HandleFunc("GET /v1/products/{id}", productHandler.GetProductByIDHandler)
	mux.HandleFunc("PUT /v1/products/{id}", protected(productHandler.UpdateProductHandler))
	mux.HandleFunc("DELETE /v1/products/{id}", protected(productHandler.DeleteProductHandler))

	// --- 4. Variantes (motor de geração + listagem) ---
	mux.HandleFunc("POST /v1/products/{id}/variants/generate", protected(variantHandler.GenerateVariantsHandler))
	mux.HandleFunc("GET /v1/products/{id}/variants", variantHandler.ListVariantsHandler)
	mux.HandleFunc("GET /v1/variants/{id}/attribute-values", variantHandler.ListVariantAttributeValuesHandler)

	// --- 5. Catálogo de Atributos ---
	mux.HandleFunc("POST /v1/attributes", protected(attributeHandler.CreateAttributeHandler))
	mux.HandleFunc("GET /v1/attributes", attributeHandler.ListAttributesHandler)
	mux.HandleFunc("GET /v1/attributes/{id}", attributeHandler.GetAttributeByIDHandler)
	mux.HandleFunc("DELETE /v1/attributes/{id}", protected(attributeHandler.DeleteAttributeHandler))
	mux.HandleFunc("POST /v1/attributes/{id}/values", protected(attributeHandler.AddValueHandler))
	mux.HandleFunc("DELETE /v1/attribute-values/{id}", protected(attributeHandler.DeleteValueHandler))

	// --- 6. Estoque ---
	mux.HandleFunc("POST /v1/stock/adjust", protected(stockHandler.AdjustStockHandler))

	// --- 7. Documentação (Swagger UI) ---
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Middleware global: rate limiting por IP (contador no Redis)
	return middleware.RateLimiter(cacheClient, rateLimit.MaxRequests, rateLimit.Period)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
