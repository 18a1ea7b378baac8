package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"titlehub/internal/config"
	"titlehub/internal/http-api/auth"
	"titlehub/internal/http-api/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// MockCodeStore mocks the CodeStore interface
type MockCodeStore struct {
	mock.Mock
}

func (m *MockCodeStore) MarkConsumed(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCodeStore) IsConsumed(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockSender mocks the mail.Sender interface
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func testAuthService(userRepo *MockUserRepository, codeStore *MockCodeStore, sender *MockSender) AuthService {
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		ConfirmationSecret: "confirm-secret",
		TokenTTL:           24 * time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(userRepo, codeStore, sender, logger, cfg)
}

func TestSignup_NewUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeStore := new(MockCodeStore)
	mockSender := new(MockSender)
	authService := testAuthService(mockUserRepo, mockCodeStore, mockSender)

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockSender.On("Send", "test@example.com", mock.Anything, mock.Anything).Return(nil)

	user, err := authService.Signup(context.Background(), "testuser", "test@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	mockUserRepo.AssertExpectations(t)
	mockSender.AssertExpectations(t)
}

func TestSignup_ExistingPairingResendsCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeStore := new(MockCodeStore)
	mockSender := new(MockSender)
	authService := testAuthService(mockUserRepo, mockCodeStore, mockSender)

	existing := &models.User{ID: "user-id", Username: "testuser", Email: "test@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(existing, nil)
	mockSender.On("Send", "test@example.com", mock.Anything, mock.Anything).Return(nil)

	user, err := authService.Signup(context.Background(), "testuser", "test@example.com")

	assert.NoError(t, err)
	assert.Equal(t, existing, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockSender.AssertExpectations(t)
}

func TestSignup_UsernameTakenByOtherEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeStore := new(MockCodeStore)
	mockSender := new(MockSender)
	authService := testAuthService(mockUserRepo, mockCodeStore, mockSender)

	existing := &models.User{Username: "testuser", Email: "other@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(existing, nil)

	user, err := authService.Signup(context.Background(), "testuser", "test@example.com")

	assert.ErrorIs(t, err, ErrDuplicateIdentity)
	assert.Nil(t, user)
	mockSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignup_EmailTakenByOtherUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeStore := new(MockCodeStore)
	mockSender := new(MockSender)
	authService := testAuthService(mockUserRepo, mockCodeStore, mockSender)

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "taken@example.com").
		Return(&models.User{Username: "other"}, nil)

	user, err := authService.Signup(context.Background(), "testuser", "taken@example.com")

	assert.ErrorIs(t, err, ErrDuplicateIdentity)
	assert.Nil(t, user)
}

func TestSignup_ReservedUsername(t *testing.T) {
	authService := testAuthService(new(MockUserRepository), new(MockCodeStore), new(MockSender))

	user, err := authService.Signup(context.Background(), "me", "me@example.com")

	assert.ErrorIs(t, err, ErrReservedUsername)
	assert.Nil(t, user)
}

func TestSignup_InvalidUsername(t *testing.T) {
	authService := testAuthService(new(MockUserRepository), new(MockCodeStore), new(MockSender))

	user, err := authService.Signup(context.Background(), "bad name!", "test@example.com")

	assert.ErrorIs(t, err, ErrInvalidUsername)
	assert.Nil(t, user)
}

func TestSignup_MailFailureDoesNotFailSignup(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeStore := new(MockCodeStore)
	mockSender := new(MockSender)
	authService := testAuthService(mockUserRepo, mockCodeStore, mockSender)

	existing := &models.User{ID: "user-id", Username: "testuser", Email: "test@example.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(existing, nil)
	mockSender.On("Send", "test@example.com", mock.Anything, mock.Anything).
		Return(assert.AnError)

	user, err := authService.Signup(context.Background(), "testuser", "test@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, user)
}

func TestExchangeToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeStore := new(MockCodeStore)
	mockSender := new(MockSender)
	authService := testAuthService(mockUserRepo, mockCodeStore, mockSender)

	user := &models.User{ID: "user-id", Username: "testuser", Email: "test@example.com"}
	code := auth.MakeCode("confirm-secret", user)

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	mockCodeStore.On("IsConsumed", mock.Anything, code).Return(false, nil)
	mockCodeStore.On("MarkConsumed", mock.Anything, code).Return(nil)

	token, err := authService.ExchangeToken(context.Background(), "testuser", code)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	mockCodeStore.AssertExpectations(t)
}

func TestExchangeToken_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo, new(MockCodeStore), new(MockSender))

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	token, err := authService.ExchangeToken(context.Background(), "ghost", "whatever")

	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Empty(t, token)
}

func TestExchangeToken_WrongCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := testAuthService(mockUserRepo, new(MockCodeStore), new(MockSender))

	user := &models.User{ID: "user-id", Username: "testuser"}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	token, err := authService.ExchangeToken(context.Background(), "testuser", "not-the-code")

	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Empty(t, token)
}

func TestExchangeToken_ConsumedCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockCodeStore := new(MockCodeStore)
	authService := testAuthService(mockUserRepo, mockCodeStore, new(MockSender))

	user := &models.User{ID: "user-id", Username: "testuser"}
	code := auth.MakeCode("confirm-secret", user)

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	mockCodeStore.On("IsConsumed", mock.Anything, code).Return(true, nil)

	token, err := authService.ExchangeToken(context.Background(), "testuser", code)

	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Empty(t, token)
	mockCodeStore.AssertNotCalled(t, "MarkConsumed", mock.Anything, mock.Anything)
}

func TestValidateToken_Expired(t *testing.T) {
	authService := testAuthService(new(MockUserRepository), new(MockCodeStore), new(MockSender))

	claims := Claims{
		UserID:   "user-id",
		Username: "testuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("test-secret"))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Nil(t, validatedClaims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	authService := testAuthService(new(MockUserRepository), new(MockCodeStore), new(MockSender))

	claims := Claims{
		UserID: "user-id",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte("some-other-secret"))

	validatedClaims, err := authService.ValidateToken(tokenString)

	assert.Error(t, err)
	assert.Nil(t, validatedClaims)
}

func TestValidateToken_Garbage(t *testing.T) {
	authService := testAuthService(new(MockUserRepository), new(MockCodeStore), new(MockSender))

	validatedClaims, err := authService.ValidateToken("invalid.token.here")

	assert.Error(t, err)
	assert.Nil(t, validatedClaims)
}
