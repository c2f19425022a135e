package userservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
	"gocatalog/internal/pkg/token"
	"gocatalog/internal/service/userservice"
)

// MockUserRepository é uma implementação mock da interface domain.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

// newTestTokenService usa o serviço real de tokens com um segredo de teste.
func newTestTokenService() *token.Service {
	return token.NewService("segredo-de-teste", time.Hour)
}

// TestRegister_Success testa o registro com hashing de senha e role padrão.
func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockLogger := logger.NewLogger("debug")

	svc := userservice.NewService(mockRepo, newTestTokenService(), mockLogger)

	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		// A senha nunca é persistida em claro, e a role padrão é editor
		return u.Email == "ana@example.com" &&
			u.PasswordHash != "senha123" &&
			u.Role == domain.RoleEditor
	})).Return(domain.User{ID: "user-1", Email: "ana@example.com", Role: domain.RoleEditor}, nil)

	ctx := context.Background()
	user, err := svc.Register(ctx, domain.UserRegistration{Email: "ana@example.com", Password: "senha123"})

	assert.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	mockRepo.AssertExpectations(t)
}

// TestRegister_Fail_EmailDuplicado testa a tradução do erro de DB para 409.
func TestRegister_Fail_EmailDuplicado(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockLogger := logger.NewLogger("debug")

	svc := userservice.NewService(mockRepo, newTestTokenService(), mockLogger)

	dbErr := apperror.NewDBError("Falha ao salvar usuário", errors.New(`pq: duplicate key value violates unique constraint "users_email_key"`))
	mockRepo.On("Save", mock.Anything, mock.Anything).Return(domain.User{}, dbErr)

	ctx := context.Background()
	_, err := svc.Register(ctx, domain.UserRegistration{Email: "ana@example.com", Password: "senha123"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
	assert.Contains(t, err.Error(), "ana@example.com")
}

// TestRegister_Fail_CamposObrigatorios testa a validação de email e senha.
func TestRegister_Fail_CamposObrigatorios(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockLogger := logger.NewLogger("debug")

	svc := userservice.NewService(mockRepo, newTestTokenService(), mockLogger)

	ctx := context.Background()
	_, err := svc.Register(ctx, domain.UserRegistration{Email: "", Password: "senha123"})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Save")
}

// TestLogin_Success testa o login com senha correta e emissão de JWT.
func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockLogger := logger.NewLogger("debug")

	tokenSvc := newTestTokenService()
	svc := userservice.NewService(mockRepo, tokenSvc, mockLogger)

	hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	user := domain.User{ID: "user-1", Email: "ana@example.com", PasswordHash: string(hash), Role: domain.RoleAdmin}
	mockRepo.On("FindByEmail", mock.Anything, "ana@example.com").Return(user, nil)

	ctx := context.Background()
	tokenString, err := svc.Login(ctx, "ana@example.com", "senha123")

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	// O token emitido deve validar e carregar as claims do usuário
	claims, err := tokenSvc.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, string(domain.RoleAdmin), claims.Role)
}

// TestLogin_Fail_SenhaIncorreta testa que senha errada vira 401 genérico.
func TestLogin_Fail_SenhaIncorreta(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockLogger := logger.NewLogger("debug")

	svc := userservice.NewService(mockRepo, newTestTokenService(), mockLogger)

	hash, _ := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.DefaultCost)
	user := domain.User{ID: "user-1", Email: "ana@example.com", PasswordHash: string(hash)}
	mockRepo.On("FindByEmail", mock.Anything, "ana@example.com").Return(user, nil)

	ctx := context.Background()
	_, err := svc.Login(ctx, "ana@example.com", "senha-errada")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
}

// TestLogin_Fail_UsuarioInexistente testa que NotFound vira 401 genérico,
// sem revelar se o email existe.
func TestLogin_Fail_UsuarioInexistente(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockLogger := logger.NewLogger("debug")

	svc := userservice.NewService(mockRepo, newTestTokenService(), mockLogger)

	notFound := apperror.NewNotFoundError("Usuário não encontrado.")
	mockRepo.On("FindByEmail", mock.Anything, "ninguem@example.com").Return(domain.User{}, notFound)

	ctx := context.Background()
	_, err := svc.Login(ctx, "ninguem@example.com", "senha123")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	assert.Contains(t, err.Error(), "Credenciais inválidas")
}
