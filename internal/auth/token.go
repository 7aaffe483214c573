package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// fingerprintLabel is MACed with the secret so services can compare secrets
// without revealing them.
const fingerprintLabel = "task-deadlines/jwt-secret-fingerprint/v1"

// Claims is the token payload shared by all services. UserID must be a JSON
// integer: a string or fractional id fails decoding and the token is rejected.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 tokens with one injected secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for id that expires after the manager's TTL.
func (m *Manager) Issue(id domain.Identity) (string, error) {
	if m.ttl <= 0 {
		return "", errors.New("token ttl is not configured")
	}

	now := m.now()
	claims := Claims{
		UserID:   id.UserID,
		Username: id.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature, algorithm and expiry and returns the identity the
// token carries. Every failure is an apperr.KindAuthInvalid error.
func (m *Manager) Verify(tokenString string) (domain.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.Identity{}, apperr.AuthInvalid(err)
	}
	if !token.Valid {
		return domain.Identity{}, apperr.AuthInvalid(errors.New("token is not valid"))
	}
	if claims.UserID <= 0 {
		return domain.Identity{}, apperr.AuthInvalid(fmt.Errorf("invalid userId %d", claims.UserID))
	}
	if claims.Username == "" {
		return domain.Identity{}, apperr.AuthInvalid(errors.New("username claim is empty"))
	}

	return domain.Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

// Fingerprint identifies the secret without disclosing it.
func (m *Manager) Fingerprint() string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(fingerprintLabel))
	return hex.EncodeToString(mac.Sum(nil))
}
