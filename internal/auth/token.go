package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/uav-store/backend/internal/domain"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService issues and verifies HS256 bearer tokens. It holds no state
// beyond the signing secret and TTL given at construction.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a new service. A non-positive ttl falls back to a day.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenService{secret: key, ttl: ttl, now: time.Now}
}

// Claims describes the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
}

// VerifiedToken is what a successful Verify yields.
type VerifiedToken struct {
	ID        string
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issue signs a token for subjectID.
func (ts *TokenService) Issue(subjectID string) (domain.Token, error) {
	if subjectID == "" {
		return domain.Token{}, errors.New("empty subject")
	}
	issuedAt := ts.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(ts.ttl)
	id := uuid.NewString()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return domain.Token{}, err
	}
	return domain.Token{
		ID:        id,
		SubjectID: subjectID,
		Value:     signed,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature, structure and expiry. Every failure is ErrInvalidToken.
func (ts *TokenService) Verify(tokenStr string) (*VerifiedToken, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return ts.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(ts.now),
	)
	if err != nil {
		return nil, ErrInvalidToken.WithCause(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken.WithCause(errors.New("invalid token claims"))
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, ErrInvalidToken.WithCause(errors.New("missing sub or iat claim"))
	}

	return &VerifiedToken{
		ID:        claims.ID,
		SubjectID: claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// TTL returns the configured token lifetime.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}
