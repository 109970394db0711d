package authenticator

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/questx-lab/lottery/config"
)

// tokenIssuer is stamped on every token and required when verifying.
const tokenIssuer = "lottery"

var errInvalidIssuer = errors.New("token issued by another service")

type claims[T any] struct {
	jwt.RegisteredClaims
	Object T `json:"obj,omitempty"`
}

type jwtTokenEngine[T any] struct {
	secret     []byte
	expiration time.Duration
	parser     *jwt.Parser
	now        func() time.Time
}

func NewTokenEngine[T any](cfg config.TokenConfigs) TokenEngine[T] {
	return &jwtTokenEngine[T]{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		now:        time.Now,
	}
}

// Generate signs obj for the subject sub. Each token carries a random id.
func (e *jwtTokenEngine[T]) Generate(sub string, obj T) (string, error) {
	now := e.now()
	c := claims[T]{
		Object: obj,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sub,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.expiration)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(e.secret)
}

func (e *jwtTokenEngine[T]) Verify(token string) (T, error) {
	var c claims[T]
	_, err := e.parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return e.secret, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	if !c.VerifyIssuer(tokenIssuer, true) {
		var zero T
		return zero, errInvalidIssuer
	}

	return c.Object, nil
}
