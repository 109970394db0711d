package authenticator_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/questx-lab/lottery/config"
	"github.com/questx-lab/lottery/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type accessToken struct {
	ID string `json:"id"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})
	token, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user1", obj.ID)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: -time.Second,
	})
	token, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)

	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})
	token, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)

	other := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "other",
		Expiration: time.Minute,
	})
	_, err = other.Verify(token)
	require.Error(t, err)
}

func TestJWTUniqueTokens(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})

	first, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)
	second, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestJWTForeignIssuer(t *testing.T) {
	claims := jwt.MapClaims{
		"iss": "someone-else",
		"exp": time.Now().Add(time.Minute).Unix(),
		"obj": map[string]any{"id": "user1"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	engine := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})
	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTOtherSigningMethod(t *testing.T) {
	claims := jwt.MapClaims{
		"iss": "lottery",
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	engine := authenticator.NewTokenEngine[accessToken](config.TokenConfigs{
		Secret:     "secret",
		Expiration: time.Minute,
	})
	_, err = engine.Verify(token)
	require.Error(t, err)
}
