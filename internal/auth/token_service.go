package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"blogapi/internal/model"
)

// TokenKind distinguishes access tokens from refresh tokens. It is embedded as
// a claim so a refresh token can never be replayed where an access token is
// expected, and vice versa.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

var (
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenSignature is returned when a token's signature does not verify.
	ErrTokenSignature = errors.New("token signature invalid")
	// ErrTokenMalformed is returned when a token cannot be parsed at all.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenKind is returned when a token of the wrong kind is presented.
	ErrTokenKind = errors.New("unexpected token kind")
)

// Claims represents JWT claims carried by both token kinds.
type Claims struct {
	UserID uint      `json:"user_id"`
	Role   string    `json:"role"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bounded tokens. It is a pure
// codec: tokens are stateless and validity is signature plus expiry only.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a token service with the given signing secret and TTLs.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken issues a short-lived access token for the user.
func (s *TokenService) GenerateAccessToken(user *model.User) (string, error) {
	return s.generate(user, TokenKindAccess, s.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token for the user.
func (s *TokenService) GenerateRefreshToken(user *model.User) (string, error) {
	return s.generate(user, TokenKindRefresh, s.refreshTTL)
}

func (s *TokenService) generate(user *model.User, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses a token string, checks the signature and expiry, and enforces
// the expected kind. Failure causes stay distinguishable so the middleware can
// log them without leaking the reason to the client.
func (s *TokenService) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.Kind != kind {
		return nil, ErrTokenKind
	}
	return claims, nil
}

// classifyParseError maps jwt/v4 validation errors onto the token error taxonomy.
func classifyParseError(err error) error {
	var vErr *jwt.ValidationError
	if !errors.As(err, &vErr) {
		return ErrTokenMalformed
	}
	switch {
	case vErr.Errors&jwt.ValidationErrorExpired != 0:
		return ErrTokenExpired
	case vErr.Errors&jwt.ValidationErrorSignatureInvalid != 0:
		return ErrTokenSignature
	default:
		return ErrTokenMalformed
	}
}
