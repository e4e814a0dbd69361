package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	errors "github.com/alshifa/hospital-management/internal"
	"github.com/alshifa/hospital-management/internal/core/events"
	"github.com/alshifa/hospital-management/internal/rbac"
)

// Service orchestrates the login, registration and refresh flows.
type Service struct {
	repo       RepositoryAPI
	tokenGen   TokenGeneratorAPI
	bus        *events.EventBus
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokenGen:   tokenGen,
		bus:        bus,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Login verifies credentials and issues a token pair. A missing account, a
// deactivated account and a wrong password all fail with the same error so
// the endpoint cannot be used to enumerate accounts.
func (s *Service) Login(dto LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	identity, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		// Only an absent account maps to the credentials sentinel. A
		// datastore failure is a server fault and must say so.
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return nil, errors.ErrInvalidCredentials
		}
		return nil, errors.NewInternalError("failed to load account", err)
	}
	if !identity.IsActive {
		return nil, errors.ErrInvalidCredentials
	}

	if err := VerifyPassword(identity.PasswordHash, dto.Password); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	// Last-login bookkeeping rides the event bus so a slow write never
	// delays the response.
	s.publish(NewUserLoggedInEvent(identity.ID, identity.Email))

	tokens, err := s.tokenGen.GenerateTokenPair(identity.ID, identity.Email, identity.Role)
	if err != nil {
		return nil, errors.NewInternalError("failed to issue tokens", err)
	}

	return &Session{User: identity.ToPublic(), TokenPair: tokens}, nil
}

// Register creates a new active identity and logs it in immediately.
func (s *Service) Register(dto RegisterDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(dto.Email); err == nil {
		return nil, errors.ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	now := time.Now()
	identity := &Identity{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PhoneNumber:  dto.PhoneNumber,
		Role:         rbac.Role(dto.Role),
		IsActive:     true,
		DepartmentID: dto.DepartmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The store's unique-email constraint is the backstop for concurrent
	// registrations racing past the lookup above.
	if err := s.repo.Create(identity); err != nil {
		if appErr, ok := errors.IsAppError(err); ok {
			return nil, appErr
		}
		return nil, errors.NewInternalError("failed to create user", err)
	}

	s.publish(NewUserRegisteredEvent(identity.ID, identity.Email, string(identity.Role)))

	tokens, err := s.tokenGen.GenerateTokenPair(identity.ID, identity.Email, identity.Role)
	if err != nil {
		return nil, errors.NewInternalError("failed to issue tokens", err)
	}

	return &Session{User: identity.ToPublic(), TokenPair: tokens}, nil
}

// Refresh redeems a refresh token for a freshly rotated pair. The identity is
// re-loaded so a deactivated or deleted account cannot ride an old token, and
// the new pair carries the account's current role.
func (s *Service) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenGen.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidToken
	}

	identity, err := s.repo.GetByID(claims.UserID)
	if err != nil {
		// A missing subject behind a once-valid token is a trust failure,
		// not a lookup failure.
		return nil, errors.ErrInvalidToken
	}
	if !identity.IsActive {
		return nil, errors.ErrInvalidToken
	}

	tokens, err := s.tokenGen.GenerateTokenPair(identity.ID, identity.Email, identity.Role)
	if err != nil {
		return nil, errors.NewInternalError("failed to issue tokens", err)
	}

	return &tokens, nil
}

// CurrentUser loads the live identity projection for /auth/me.
func (s *Service) CurrentUser(userID string) (*PublicUser, error) {
	identity, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, errors.ErrUserNotFound
	}
	public := identity.ToPublic()
	return &public, nil
}

func (s *Service) VerifyAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.VerifyAccessToken(tokenString)
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("failed to publish auth event", "event_type", event.EventType(), "error", err)
	}
}

// JWTTokenGenerator signs and verifies the two token kinds with independent
// HS256 secrets. A token signed with one secret never verifies under the
// other.
type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// GenerateTokenPair signs the same claim set under both secrets with their
// respective lifetimes.
func (j *JWTTokenGenerator) GenerateTokenPair(userID, email string, role rbac.Role) (TokenPair, error) {
	accessToken, err := j.sign(j.AccessTokenSecret, j.AccessTokenTTL, userID, email, role)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := j.sign(j.RefreshTokenSecret, j.RefreshTokenTTL, userID, email, role)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (j *JWTTokenGenerator) VerifyAccessToken(tokenString string) (*Claims, error) {
	return j.verify(tokenString, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return j.verify(tokenString, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(secret []byte, ttl time.Duration, userID, email string, role rbac.Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// verify parses under exactly one secret. Every failure mode (malformed,
// expired, wrong secret) collapses into the same error so the endpoint never
// acts as a verification oracle.
func (j *JWTTokenGenerator) verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.ErrInvalidToken
}
