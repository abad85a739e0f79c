package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearer(t *testing.T) {
	assert.Equal(t, "Bearer abc123", Bearer("abc123"))
}

func TestBasicAndDecodeBasicRoundTrip(t *testing.T) {
	header := Basic("admin", "secret123")
	assert.True(t, len(header) > len("Basic "))

	user, pass, err := DecodeBasic(header)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "secret123", pass)
}

func TestDecodeBasicRejectsMalformed(t *testing.T) {
	_, _, err := DecodeBasic("Basic " + base64.StdEncoding.EncodeToString([]byte("no-colon-here")))
	require.Error(t, err)
}

func TestParseJWTDecodesHeaderAndPayload(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"user-1","exp":1700000000}`))
	token := header + "." + payload + ".signature"

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "HS256", claims.Header["alg"])
	assert.Equal(t, "user-1", claims.Payload["sub"])
}

func TestParseJWTStripsBearerPrefix(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{}`))
	token := "Bearer " + header + "." + payload + ".sig"

	_, err := ParseJWT(token)
	require.NoError(t, err)
}

func TestParseJWTRejectsMalformed(t *testing.T) {
	_, err := ParseJWT("not-a-jwt")
	require.Error(t, err)
}

func TestTokenRejectsUnsupportedFlow(t *testing.T) {
	_, err := Token(nil, TokenRequest{ //nolint:staticcheck // exercising validation before ctx use
		Flow:         "authorization_code",
		TokenURL:     "https://auth.example.com/token",
		ClientID:     "id",
		ClientSecret: "secret",
	})
	require.Error(t, err)
}

func TestTokenRequiresCoreFields(t *testing.T) {
	_, err := Token(nil, TokenRequest{Flow: ClientCredentials}) //nolint:staticcheck
	require.Error(t, err)
}
