package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"RestaurantAdviser/api/auth"
	"RestaurantAdviser/api/models"
	httpctx "RestaurantAdviser/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthDB(t *testing.T) (*gorm.DB, *models.User) {
	t.Helper()
	t.Setenv("API_SECRET", "middleware-secret")

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}))

	u := &models.User{Username: "ola", Email: "ola@example.com", Password: "password123"}
	_, err = u.SaveUser(db)
	require.NoError(t, err)
	return db, u
}

func whoAmI(c *gin.Context) {
	uid, ok := httpctx.CurrentUserID(c)
	c.JSON(http.StatusOK, gin.H{"uid": uid, "ok": ok})
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenAuthMiddleware(t *testing.T) {
	db, u := setupAuthDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", TokenAuthMiddleware(db), whoAmI)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)

	token, err := auth.CreateToken(u.ID)
	require.NoError(t, err)
	w := do(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"uid":%d,"ok":true}`, u.ID), w.Body.String())

	ghost, err := auth.CreateToken(9999)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", ghost).Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	db, u := setupAuthDB(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/maybe", OptionalAuthMiddleware(db), whoAmI)

	w := do(r, http.MethodGet, "/maybe", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":0,"ok":false}`, w.Body.String())

	token, err := auth.CreateToken(u.ID)
	require.NoError(t, err)
	w = do(r, http.MethodGet, "/maybe", token)
	assert.JSONEq(t, fmt.Sprintf(`{"uid":%d,"ok":true}`, u.ID), w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/maybe", "garbage").Code)
}

func TestSelfOnlyMiddleware(t *testing.T) {
	db, u := setupAuthDB(t)
	other := &models.User{Username: "kuba", Email: "kuba@example.com", Password: "password123"}
	_, err := other.SaveUser(db)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PUT("/users/:id", TokenAuthMiddleware(db), SelfOnlyMiddleware(db), whoAmI)

	token, err := auth.CreateToken(u.ID)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, fmt.Sprintf("/users/%d", u.ID), token).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPut, "/users/"+u.PublicID, token).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPut, fmt.Sprintf("/users/%d", other.ID), token).Code)
}

func TestCORSPreflight(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://app.example.test/")
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.test", w.Header().Get("Access-Control-Allow-Origin"))
}
