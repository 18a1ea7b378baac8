package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"titlehub/internal/config"
	"titlehub/internal/http-api/auth"
	"titlehub/internal/http-api/models"
	"titlehub/internal/http-api/repository"
	"titlehub/internal/mail"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// usernamePattern matches the accepted identifier alphabet.
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Claims is the verified content of a bearer token. The token carries the
// stable user id only; role is resolved from the directory per request.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Signup registers the identity (or re-accepts an existing exact
	// pairing) and dispatches a confirmation code by email.
	Signup(ctx context.Context, username, email string) (*models.User, error)
	// ExchangeToken trades a valid, unconsumed confirmation code for a
	// signed bearer token.
	ExchangeToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo           repository.UserRepository
	codeStore          repository.CodeStore
	sender             mail.Sender
	logger             *slog.Logger
	jwtSecret          string
	confirmationSecret string
	tokenTTL           time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeStore repository.CodeStore,
	sender mail.Sender,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:           userRepo,
		codeStore:          codeStore,
		sender:             sender,
		logger:             logger,
		jwtSecret:          cfg.JWTSecret,
		confirmationSecret: cfg.ConfirmationSecret,
		tokenTTL:           cfg.TokenTTL,
	}
}

// Signup is get-or-create: the exact (username, email) pairing re-sends a
// fresh code; a pairing that collides with someone else's username or email
// is rejected.
func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if username == "me" {
		return nil, ErrReservedUsername
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Email != email {
			return nil, ErrDuplicateIdentity
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return nil, ErrDuplicateIdentity
		}
		user = &models.User{Username: username, Email: email, Role: models.RoleUser}
		if err := s.userRepo.Create(ctx, user); err != nil {
			// two concurrent signups can race past the lookups; the
			// unique indexes settle it
			if repository.IsUniqueViolation(err) {
				return nil, ErrDuplicateIdentity
			}
			return nil, err
		}
	default:
		return nil, err
	}

	code := auth.MakeCode(s.confirmationSecret, user)
	if err := s.sender.Send(user.Email, "Confirmation code", mail.ConfirmationBody(code)); err != nil {
		// delivery is out-of-band; a mail outage must not fail signup
		s.logger.Error("confirmation mail delivery failed",
			"username", user.Username, "error", err)
	}

	return user, nil
}

func (s *authService) ExchangeToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUnknownUser
		}
		return "", err
	}

	if !auth.CheckCode(s.confirmationSecret, user, code) {
		return "", ErrInvalidCode
	}

	consumed, err := s.codeStore.IsConsumed(ctx, code)
	if err != nil {
		return "", err
	}
	if consumed {
		return "", ErrInvalidCode
	}
	if err := s.codeStore.MarkConsumed(ctx, code); err != nil {
		return "", err
	}

	return s.generateToken(user)
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return claims, nil
}
