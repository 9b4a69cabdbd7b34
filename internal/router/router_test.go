package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/frontdesk-api/internal/config"
	authhandler "github.com/jwalitptl/frontdesk-api/internal/handler/auth"
	cataloghandler "github.com/jwalitptl/frontdesk-api/internal/handler/catalog"
	"github.com/jwalitptl/frontdesk-api/internal/handler/health"
	registrationhandler "github.com/jwalitptl/frontdesk-api/internal/handler/registration"
	"github.com/jwalitptl/frontdesk-api/internal/middleware"
	"github.com/jwalitptl/frontdesk-api/internal/repository/memory"
	authsvc "github.com/jwalitptl/frontdesk-api/internal/service/auth"
	"github.com/jwalitptl/frontdesk-api/internal/service/catalog"
	"github.com/jwalitptl/frontdesk-api/internal/service/registration"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
	"github.com/jwalitptl/frontdesk-api/pkg/security"
)

func newTestRouter(t *testing.T, withAuth bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)
	ctrl := registration.NewController(registration.NewMapper(nil), registration.NewSimulatedGateway(time.Millisecond), nil, m)

	var (
		authMW *middleware.AuthMiddleware
		authH  Handler
	)
	if withAuth {
		hasher := security.NewBcryptHasher(security.HashPolicy{Cost: bcrypt.MinCost})
		hash, err := hasher.Hash("letan@2025")
		require.NoError(t, err)
		svc := authsvc.NewService(config.AuthConfig{
			Secret:      "s3cret",
			ExpiryHours: 1,
			Staff:       []config.StaffAccount{{Username: "letan01", PasswordHash: hash}},
		}, hasher, nil)
		authMW = middleware.NewAuthMiddleware(svc)
		authH = authhandler.NewHandler(svc)
	}

	r := NewRouter(authMW, authH, health.NewHandler("simulated", nil), m, RouterConfig{
		CORSConfig: middleware.DefaultCORSConfig(nil),
		Gatherer:   reg,
	},
		registrationhandler.NewHandler(ctrl, nil),
		cataloghandler.NewHandler(catalog.NewService(memory.NewCatalogRepository(memory.DemoServices()), nil, m, nil)),
	)
	r.Setup()
	return r.Engine()
}

const body = `{
	"patient": {"fullName": "Nguyễn Văn A", "dob": "1990-01-01", "phone": "0900000000"},
	"appointment": {"department": "Khoa Khám bệnh", "preferredDate": "2025-06-15", "preferredTime": "08:30"},
	"orders": [{"id": "XN001", "name": "Tổng phân tích tế bào máu", "priority": "routine"}]
}`

func do(r http.Handler, method, path, payload, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOpenRoutes(t *testing.T) {
	r := newTestRouter(t, false)

	w := do(r, http.MethodPost, "/api/v1/registrations", body, "")
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "1.0", w.Header().Get("X-API-Version"))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/services/XN001", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health/live", "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/v1/auth/login", `{}`, "").Code)

	metricsBody := do(r, http.MethodGet, "/metrics", "", "").Body.String()
	assert.Contains(t, metricsBody, "test_registration_submissions_total")
	assert.Contains(t, metricsBody, `path="/api/v1/registrations"`)
}

func TestProtectedRoutes(t *testing.T) {
	r := newTestRouter(t, true)

	w := do(r, http.MethodPost, "/api/v1/registrations", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/login", `{"username":"letan01","password":"letan@2025"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data struct {
			AccessToken string `json:"accessToken"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = do(r, http.MethodPost, "/api/v1/registrations", body, resp.Data.AccessToken)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// health stays open
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health/ready", "", "").Code)
}
