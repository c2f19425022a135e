package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Registro da documentação Swagger gerada (servida em /swagger/doc.json)
	_ "gocatalog/docs"

	// Nossos pacotes de infraestrutura e utilitários
	"gocatalog/config"
	"gocatalog/internal/pkg/cache"
	"gocatalog/internal/pkg/database"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/token"

	// Camadas da aplicação para Injeção de Dependências
	"gocatalog/internal/api/attribute"
	"gocatalog/internal/api/product"
	"gocatalog/internal/api/router"
	"gocatalog/internal/api/stock"
	"gocatalog/internal/api/user"
	"gocatalog/internal/api/variant"
	"gocatalog/internal/repository/attributerepo"
	"gocatalog/internal/repository/productrepo"
	"gocatalog/internal/repository/userrepo"
	"gocatalog/internal/repository/variantrepo"
	"gocatalog/internal/service/attributeservice"
	"gocatalog/internal/service/productservice"
	"gocatalog/internal/service/stockservice"
	"gocatalog/internal/service/userservice"
	"gocatalog/internal/service/variantservice"
)

// @title GoCatalog API
// @version 1.0
// @description Back office de catálogo: produtos, atributos e geração de variantes em lote.
// @BasePath /v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	stdlog.Println("⚡ Inicializando serviço GoCatalog...")

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// O godotenv.Load() procura por um arquivo chamado .env na raiz.
	if err := godotenv.Load(); err != nil {
		// Se o arquivo .env não for encontrado, avisamos mas continuamos, pois
		// as variáveis essenciais podem estar no ambiente do sistema (ex: Docker).
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig() // Carrega as configurações (URLs, Timeouts, etc.)
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close() // Fecha a conexão de DB ao sair
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Montagem da Clean Architecture)
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	attributeRepo := attributerepo.NewAttributeRepository(db, cfg.DBTimeout, log)
	variantRepo := variantrepo.NewVariantRepository(db, cfg.DBTimeout, log)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	productSvc := productservice.NewService(productRepo, log)
	attributeSvc := attributeservice.NewService(attributeRepo, log)
	variantSvc := variantservice.NewService(variantRepo, productRepo, attributeRepo, log)
	stockSvc := stockservice.NewService(variantRepo, log)
	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	productHandler := product.NewHandler(productSvc, log)
	attributeHandler := attribute.NewHandler(attributeSvc, log)
	variantHandler := variant.NewHandler(variantSvc, log)
	stockHandler := stock.NewHandler(stockSvc, log)
	userHandler := user.NewHandler(userSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor

	// O roteador recebe os Handlers e aplica os middlewares globais
	r := router.NewRouter(
		productHandler,
		variantHandler,
		attributeHandler,
		stockHandler,
		userHandler,
		tokenSvc,
		cacheClient,
		router.RateLimitConfig{
			MaxRequests: cfg.RateLimitMaxRequests,
			Period:      cfg.RateLimitPeriod,
		},
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r, // O roteador final
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoCatalog ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	// Lógica do Graceful Shutdown (captura de sinal)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	// Timeout para desligamento (usa o contexto)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
