package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"senidea-backend-go/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService() services.TokenService {
	return services.TokenService{
		Secret:    []byte("test-secret"),
		Issuer:    "senidea",
		AccessTTL: time.Hour,
	}
}

func identityEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"user_id": CurrentUserID(r),
			"role":    CurrentRole(r),
		})
	})
}

func TestWithAuthRejectsMissingToken(t *testing.T) {
	handler := WithAuth(testTokenService())(identityEcho())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Authentication required", body.Error)
}

func TestWithAuthRejectsMalformedHeader(t *testing.T) {
	handler := WithAuth(testTokenService())(identityEcho())

	for _, header := range []string{"Basic abc", "Bearer", "Bearer not.a.jwt"} {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", header)
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestWithAuthRejectsExpiredToken(t *testing.T) {
	tokens := testTokenService()
	tokens.AccessTTL = -time.Minute
	signed, _, err := tokens.CreateAccessToken(7, "donor@example.org", "Donor")
	require.NoError(t, err)

	handler := WithAuth(testTokenService())(identityEcho())
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWithAuthAttachesIdentity(t *testing.T) {
	tokens := testTokenService()
	signed, _, err := tokens.CreateAccessToken(7, "donor@example.org", "Donor")
	require.NoError(t, err)

	handler := WithAuth(tokens)(identityEcho())
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, "Donor", body["role"])
}

func TestWithOptionalAuthPassesAnonymous(t *testing.T) {
	handler := WithOptionalAuth(testTokenService())(identityEcho())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := map[string]interface{}{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, float64(0), body["user_id"])
	assert.Equal(t, "", body["role"])
}

func TestRequireRole(t *testing.T) {
	tokens := testTokenService()
	gate := func(next http.Handler) http.Handler {
		return WithAuth(tokens)(RequireRole("Admin")(next))
	}
	handler := gate(identityEcho())

	for role, wantStatus := range map[string]int{
		"Admin":     http.StatusOK,
		"Donor":     http.StatusForbidden,
		"Volunteer": http.StatusForbidden,
		"admin":     http.StatusForbidden,
	} {
		signed, _, err := tokens.CreateAccessToken(1, "user@example.org", role)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		r.Header.Set("Authorization", "Bearer "+signed)
		handler.ServeHTTP(w, r)
		assert.Equal(t, wantStatus, w.Code, role)
	}
}
