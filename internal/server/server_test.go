package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodwise/backend/config"
	"github.com/pageza/foodwise/backend/internal/mocks"
	"github.com/pageza/foodwise/backend/internal/models"
	"github.com/pageza/foodwise/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(port string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            port,
			CORSOrigins:     []string{"http://localhost:5173"},
			UpstreamTimeout: time.Minute,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

func testDependencies() Dependencies {
	return Dependencies{
		Profiles: service.NewStaticProfileStore(map[int64]models.UserProfile{
			1: {UserID: 1, CannotEat: []string{}, FoodPreference: []string{"beef"}},
		}),
		Recipes:     new(mocks.MockRecipeService),
		Recommender: new(mocks.MockRecommender),
		Analyzer:    new(mocks.MockFoodAnalyzer),
	}
}

func TestNew(t *testing.T) {
	srv := New(testConfig("8000"), testDependencies())
	require.NotNil(t, srv)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/metrics", nil)
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutesWired(t *testing.T) {
	deps := testDependencies()
	recommender := deps.Recommender.(*mocks.MockRecommender)
	recommender.On("Recommend", mock.Anything, mock.Anything).Return("[beef stew]", nil)

	srv := New(testConfig("8000"), deps)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/recipe/recommendation", strings.NewReader(`{"user_id": 1}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"[beef stew]"}`, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/recipe_info", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	srv := New(testConfig(strconv.Itoa(port)), testDependencies())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
