package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRoutePaths_Total(t *testing.T) {
	seen := map[string]Route{}
	for r := Route(0); r < routeCount; r++ {
		p := r.Path()
		assert.NotEmpty(t, p, "route %d has no path", r)
		if prev, dup := seen[p]; dup {
			t.Errorf("routes %d and %d share %s", prev, r, p)
		}
		seen[p] = r
	}
	assert.Empty(t, routeCount.Path())
	assert.Empty(t, Route(-1).Path())
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter(Handlers{}, []byte("secret"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, RouteHealth.Path(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, RouteMetrics.Path(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/api/clients", "/api/meals/3", "/api/recipes/search?q=oats", "/api/meal-plans/1/html"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	// dev token route is absent unless a DevController is wired
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, RouteDevToken.Path(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
