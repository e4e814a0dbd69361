package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/alshifa/hospital-management/internal/rbac"
)

// Identity is the internal domain model of a stored principal. The password
// hash never crosses the transport boundary; handlers only ever see
// PublicUser projections.
type Identity struct {
	ID             string
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	PhoneNumber    string
	Role           rbac.Role
	IsActive       bool
	DepartmentID   *string
	DepartmentName string
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicUser is the identity projection returned by login, register and
// /auth/me responses.
type PublicUser struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Role        rbac.Role  `json:"role"`
	Department  string     `json:"department,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (i *Identity) ToPublic() PublicUser {
	return PublicUser{
		ID:          i.ID,
		Email:       i.Email,
		FirstName:   i.FirstName,
		LastName:    i.LastName,
		PhoneNumber: i.PhoneNumber,
		Role:        i.Role,
		Department:  i.DepartmentName,
		LastLoginAt: i.LastLoginAt,
	}
}

// Claims is the signed token payload: subject id, email and role plus the
// registered issued-at/expiry fields. Nothing else goes into the token body.
type Claims struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Role   rbac.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair is the stateless session handed to a client: both tokens carry
// the same claims under different secrets and lifetimes.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session is the full login/register response payload.
type Session struct {
	User PublicUser `json:"user"`
	TokenPair
}

// TokenGeneratorAPI issues and verifies the two token kinds. Verification
// failures are indistinguishable to callers by design.
type TokenGeneratorAPI interface {
	GenerateTokenPair(userID, email string, role rbac.Role) (TokenPair, error)
	VerifyAccessToken(tokenString string) (*Claims, error)
	VerifyRefreshToken(tokenString string) (*Claims, error)
}

// RepositoryAPI is the credential-store contract consumed by the session
// flow. Email uniqueness is enforced by the store itself.
type RepositoryAPI interface {
	GetByEmail(email string) (*Identity, error)
	GetByID(id string) (*Identity, error)
	Create(identity *Identity) error
	UpdateLastLogin(id string, when time.Time) error
}

// ServiceAPI is what handlers and middleware depend on.
type ServiceAPI interface {
	Login(dto LoginDTO) (*Session, error)
	Register(dto RegisterDTO) (*Session, error)
	Refresh(refreshToken string) (*TokenPair, error)
	CurrentUser(userID string) (*PublicUser, error)
	VerifyAccessToken(tokenString string) (*Claims, error)
	HashPassword(password string) (string, error)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
