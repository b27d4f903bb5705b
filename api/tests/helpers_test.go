package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"RestaurantAdviser/api/controllers"
	"RestaurantAdviser/api/places"
	"RestaurantAdviser/api/sentiment"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakePlaces struct {
	mu       sync.Mutex
	nearby   []places.Restaurant
	searches int
}

func (f *fakePlaces) NearbySearch(ctx context.Context, req places.SearchRequest) ([]places.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	out := make([]places.Restaurant, len(f.nearby))
	copy(out, f.nearby)
	return out, nil
}

func (f *fakePlaces) Details(ctx context.Context, placeID string) (places.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.nearby {
		if r.PlaceID == placeID {
			r.OpeningHours = []string{"Monday: 11:00 AM to 10:00 PM"}
			return r, nil
		}
	}
	return places.Restaurant{}, &places.StatusError{Endpoint: "details", Status: "ZERO_RESULTS", Message: placeID}
}

type fakeAnalyzer struct {
	calls int32
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) ([]sentiment.Aspect, error) {
	atomic.AddInt32(&f.calls, 1)
	if strings.Contains(text, "fail") {
		return nil, fmt.Errorf("analyzer down")
	}
	return []sentiment.Aspect{{Aspect: "food", Sentiment: "positive"}}, nil
}

type fakeMailer struct {
	mu     sync.Mutex
	to     string
	tokens []string
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, to, username, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.to = to
	f.tokens = append(f.tokens, token)
	return nil
}

type fakeAvatars struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (f *fakeAvatars) Put(ctx context.Context, name, contentType string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = data
	return nil
}

func (f *fakeAvatars) URL(name string) string {
	return "https://avatars.test/" + name
}

type testEnv struct {
	server   *controllers.Server
	db       *gorm.DB
	places   *fakePlaces
	analyzer *fakeAnalyzer
	mailer   *fakeMailer
	avatars  *fakeAvatars
}

func restaurantsNamed(n int) []places.Restaurant {
	out := make([]places.Restaurant, n)
	for i := range out {
		out[i] = places.Restaurant{
			PlaceID:  fmt.Sprintf("r%02d", i),
			Name:     fmt.Sprintf("Restaurant %d", i),
			Rating:   4.9 - float64(i)*0.1,
			Location: places.Location{Lat: 48.1, Lng: 11.5},
		}
	}
	return out
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("API_SECRET", "test-secret")

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, controllers.Migrate(db))

	env := &testEnv{
		db:       db,
		places:   &fakePlaces{nearby: restaurantsNamed(20)},
		analyzer: &fakeAnalyzer{},
		mailer:   &fakeMailer{},
		avatars:  &fakeAvatars{files: map[string][]byte{}},
	}
	env.server = &controllers.Server{
		DB:       db,
		Places:   env.places,
		Pools:    places.NewPoolSource(env.places, 4),
		Analyzer: env.analyzer,
		Mailer:   env.mailer,
		Avatars:  env.avatars,
	}
	env.server.InitializeRouter()
	return env
}

var remoteCounter uint32

// request sends one JSON request from a fresh client address so the per-IP
// rate limits never kick in.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(req)
}

func (e *testEnv) serve(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	n := atomic.AddUint32(&remoteCounter, 1)
	req.RemoteAddr = fmt.Sprintf("10.%d.%d.%d:4000", byte(n>>16), byte(n>>8), byte(n))
	w := httptest.NewRecorder()
	e.server.Router.ServeHTTP(w, req)
	decoded := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

// signUp registers a user and logs in, returning the token and public ID.
func (e *testEnv) signUp(t *testing.T, username string) (string, string) {
	t.Helper()
	w, body := e.request(t, http.MethodPost, "/api/v1/users", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	publicID := object(t, body)["id"].(string)

	w, body = e.request(t, http.MethodPost, "/api/v1/login", map[string]string{
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return object(t, body)["token"].(string), publicID
}

func object(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	obj, ok := body["response"].(map[string]interface{})
	require.True(t, ok, "response is not an object: %v", body)
	return obj
}

func list(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()
	items, ok := body["response"].([]interface{})
	require.True(t, ok, "response is not a list: %v", body)
	return items
}

func errorsOf(t *testing.T, body map[string]interface{}, key string) map[string]interface{} {
	t.Helper()
	errs, ok := body[key].(map[string]interface{})
	require.True(t, ok, "%s is not an object: %v", key, body)
	return errs
}
