package token_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/SergeiKhy/shortener-gateway/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeToken собирает JWT-подобный токен с заданным payload (подпись фиктивная)
func makeToken(t *testing.T, payload map[string]any) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString(data)
	return header + "." + body + ".signature"
}

// TestDecodeUnverified_Success проверяет успешное декодирование payload
func TestDecodeUnverified_Success(t *testing.T) {
	raw := makeToken(t, map[string]any{
		"user_id": "7f6b7a1e-1111-2222-3333-444455556666",
		"email":   "user@example.com",
		"exp":     1893456000,
	})

	claims, err := token.DecodeUnverified(raw)
	require.NoError(t, err)
	assert.Equal(t, "7f6b7a1e-1111-2222-3333-444455556666", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

// TestDecodeUnverified_Malformed проверяет отклонение некорректных токенов
func TestDecodeUnverified_Malformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-token",
		"one.two",
		"a.b.c.d",
		"header.!!!notbase64!!!.sig",
	}

	for _, raw := range cases {
		claims, err := token.DecodeUnverified(raw)
		assert.ErrorIs(t, err, token.ErrMalformedToken, "token: %q", raw)
		assert.Nil(t, claims)
	}
}

// TestDecodeUnverified_BadJSON проверяет payload с невалидным JSON
func TestDecodeUnverified_BadJSON(t *testing.T) {
	body := base64.RawURLEncoding.EncodeToString([]byte("{not json"))
	raw := "header." + body + ".sig"

	claims, err := token.DecodeUnverified(raw)
	assert.ErrorIs(t, err, token.ErrMalformedToken)
	assert.Nil(t, claims)
}

// TestDecodeUnverified_MissingUserID проверяет payload без user_id
func TestDecodeUnverified_MissingUserID(t *testing.T) {
	raw := makeToken(t, map[string]any{"email": "user@example.com"})

	claims, err := token.DecodeUnverified(raw)
	assert.ErrorIs(t, err, token.ErrMissingUserID)
	assert.Nil(t, claims)
}

// TestDecodeUnverified_PaddedSegment проверяет токен с base64-паддингом
func TestDecodeUnverified_PaddedSegment(t *testing.T) {
	data, err := json.Marshal(map[string]any{"user_id": "u1", "email": "a@b.c"})
	require.NoError(t, err)

	body := base64.URLEncoding.EncodeToString(data) // со знаками '='
	raw := "header." + body + ".sig"

	claims, err := token.DecodeUnverified(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}
