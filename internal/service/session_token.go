package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("session token invalid")
	ErrTokenExpired = errors.New("session token expired")
)

// SessionClaims identifica la sesion de estado a la que pertenece el token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionToken es la respuesta al crear una sesion.
type SessionToken struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// SessionTokenService emite y valida tokens HS256 de sesion.
type SessionTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewSessionTokenService crea el servicio. Sin secreto genera uno efimero:
// los tokens dejan de valer al reiniciar el proceso.
func NewSessionTokenService(secret string, ttl time.Duration) *SessionTokenService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(err)
		}
		key = []byte(hex.EncodeToString(key))
	}
	return &SessionTokenService{
		secret: key,
		ttl:    ttl,
		issuer: "skincare-advisor",
	}
}

func (s *SessionTokenService) Issue(sessionID string) (SessionToken, error) {
	if strings.TrimSpace(sessionID) == "" {
		return SessionToken{}, ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, ExpiresIn: int64(s.ttl.Seconds())}, nil
}

func (s *SessionTokenService) Parse(tokenString string) (SessionClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return SessionClaims{}, ErrTokenInvalid
	}
	var claims SessionClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrTokenExpired
		}
		return SessionClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.SessionID) == "" || claims.Subject != claims.SessionID {
		return SessionClaims{}, ErrTokenInvalid
	}
	return claims, nil
}
