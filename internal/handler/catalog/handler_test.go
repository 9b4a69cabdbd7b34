package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/handler"
	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository/memory"
	"github.com/jwalitptl/frontdesk-api/internal/service/catalog"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := catalog.NewService(memory.NewCatalogRepository(memory.DemoServices()), nil, nil, nil)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestList(t *testing.T) {
	q := url.Values{"category": {model.CategoryImaging}, "q": {"sieu am"}}
	w := get(setupRouter(), "/api/v1/services?"+q.Encode())
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.AncillaryService `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "CDHA02", resp.Data[0].ID)
}

func TestGet(t *testing.T) {
	r := setupRouter()

	w := get(r, "/api/v1/services/TDCN01")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Điện tâm đồ")

	w = get(r, "/api/v1/services/NOPE")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp handler.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
}
