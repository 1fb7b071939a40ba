package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/willfong/riskgen/internal/database"
	"github.com/willfong/riskgen/internal/generator"
	"github.com/willfong/riskgen/internal/lock"
	"github.com/willfong/riskgen/internal/models"
)

const testSecret = "test-secret"

type testEnv struct {
	store  *database.MemoryStore
	locker *lock.Memory
	server *httptest.Server
}

func newTestEnv(t *testing.T, jwtSecret string) *testEnv {
	t.Helper()
	store := database.NewMemoryStore(
		models.Tenant{ID: "tenant-123", Name: "Acme Finance"},
		models.Tenant{ID: "tenant-456", Name: "Globex Lending"},
	)
	locker := lock.NewMemory()
	orch, err := generator.NewOrchestrator(store, generator.OrchestratorConfig{Months: 12, Seed: 7},
		generator.OrchestratorOptions{
			Logger: zap.NewNop(),
			Locker: locker,
			Now:    func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) },
		})
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(orch, store, Options{Logger: zap.NewNop(), JWTSecret: jwtSecret}).Router())
	t.Cleanup(srv.Close)
	return &testEnv{store: store, locker: locker, server: srv}
}

func (e *testEnv) post(t *testing.T, body, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/api/generate-mock-data", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestGenerate_Success(t *testing.T) {
	env := newTestEnv(t, "")

	resp, out := env.post(t, `{"tenantId":"tenant-123"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Mock data generated successfully", out["message"])
	assert.EqualValues(t, 10, out["borrowersCount"])

	borrowers, loans, txns := env.store.Counts("tenant-123")
	assert.Equal(t, 10, borrowers)
	assert.EqualValues(t, loans, out["loansCount"])
	assert.EqualValues(t, txns, out["transactionsCount"])
}

func TestGenerate_TenantAliases(t *testing.T) {
	for _, key := range []string{"tenantId", "TenantID", "lenderId", "LenderID"} {
		t.Run(key, func(t *testing.T) {
			env := newTestEnv(t, "")
			resp, out := env.post(t, fmt.Sprintf(`{%q:"tenant-456"}`, key), "")
			require.Equal(t, http.StatusOK, resp.StatusCode, out)

			borrowers, _, _ := env.store.Counts("tenant-456")
			assert.Equal(t, 10, borrowers)
		})
	}
}

func TestGenerate_BadRequest(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"tenantId":`},
		{"not an object", `["tenant-123"]`},
		{"missing", `{"name":"tenant-123"}`},
		{"empty", `{"tenantId":""}`},
		{"number", `{"tenantId":123}`},
		{"null", `{"tenantId":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := env.post(t, tt.body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, out["error"])
		})
	}

	assert.Equal(t, 0, env.store.SchemaChecks())
}

func TestGenerate_UnknownTenant(t *testing.T) {
	env := newTestEnv(t, "")

	resp, out := env.post(t, `{"tenantId":"tenant-999"}`, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, out["error"], "tenant-999")

	borrowers, _, _ := env.store.Counts("tenant-999")
	assert.Zero(t, borrowers)
}

func TestGenerate_InProgress(t *testing.T) {
	env := newTestEnv(t, "")

	release, err := env.locker.Acquire(context.Background(), "tenant-123")
	require.NoError(t, err)
	defer release()

	resp, _ := env.post(t, `{"tenantId":"tenant-123"}`, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	borrowers, _, _ := env.store.Counts("tenant-123")
	assert.Zero(t, borrowers)
}

func TestGenerate_Auth(t *testing.T) {
	env := newTestEnv(t, testSecret)

	t.Run("missing token", func(t *testing.T) {
		resp, _ := env.post(t, `{"tenantId":"tenant-123"}`, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		resp, _ := env.post(t, `{"tenantId":"tenant-123"}`, signToken(t, "other", "tenant-123"))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("other tenant", func(t *testing.T) {
		resp, _ := env.post(t, `{"tenantId":"tenant-123"}`, signToken(t, testSecret, "tenant-456"))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("matching tenant", func(t *testing.T) {
		resp, _ := env.post(t, `{"tenantId":"tenant-123"}`, signToken(t, testSecret, "tenant-123"))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unscoped token", func(t *testing.T) {
		resp, _ := env.post(t, `{"tenantId":"tenant-456"}`, signToken(t, testSecret, ""))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("health is open", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, env.server.URL+"/healthz", nil)
		require.NoError(t, err)
		resp, out := do(t, req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", out["status"])
	})
}

func TestListBorrowers(t *testing.T) {
	env := newTestEnv(t, "")

	resp, _ := env.post(t, `{"tenantId":"tenant-123"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/tenants/tenant-123/borrowers", nil)
	require.NoError(t, err)
	resp, out := do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "tenant-123", out["tenantId"])
	assert.EqualValues(t, 10, out["count"])
	assert.Len(t, out["borrowers"], 10)

	req, err = http.NewRequest(http.MethodGet, env.server.URL+"/api/tenants/tenant-456/borrowers", nil)
	require.NoError(t, err)
	resp, out = do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, out["count"])
	assert.Equal(t, []interface{}{}, out["borrowers"])
}

func TestRouting(t *testing.T) {
	env := newTestEnv(t, "")

	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/api/generate-mock-data", nil)
	require.NoError(t, err)
	resp, _ := do(t, req)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, env.server.URL+"/nope", nil)
	require.NoError(t, err)
	resp, _ = do(t, req)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDecodeTenantID_Priority(t *testing.T) {
	id, err := decodeTenantID([]byte(`{"LenderID":"c","lenderId":"b","tenantId":"a"}`))
	require.NoError(t, err)
	assert.Equal(t, "a", id)

	id, err = decodeTenantID([]byte(`{"LenderID":"c","lenderId":"b"}`))
	require.NoError(t, err)
	assert.Equal(t, "b", id)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("%w: x", generator.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: x", generator.ErrTenantNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: x", generator.ErrGenerationInProgress), http.StatusConflict},
		{fmt.Errorf("%w: %w", generator.ErrGenerationFailed, generator.ErrUniqueFieldExhausted), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), "err=%v", tt.err)
	}
}
