package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nirajkr26/linkly/config"
	"github.com/nirajkr26/linkly/internal/handler"
	"github.com/nirajkr26/linkly/internal/models"
	"github.com/nirajkr26/linkly/internal/repository"
	"github.com/nirajkr26/linkly/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testBaseURL     = "http://localhost:8080"
	testFrontendURL = "http://localhost:5173"
)

type apiEnv struct {
	srv      *httptest.Server
	client   *http.Client
	db       *gorm.DB
	linkRepo *repository.LinkRepository
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Link{}, &models.Visit{}))

	cfg := &config.Config{
		Port:        ":8080",
		BaseURL:     testBaseURL,
		FrontendURL: testFrontendURL,
		AliasLength: 7,
		JWT: config.JWTConfig{
			Secret: "test-secret",
			Exp:    time.Hour,
		},
	}

	log := zap.NewNop()
	linkRepo := repository.NewLinkRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	userRepo := repository.NewUserRepository(db)

	clickService := service.NewClickService(visitRepo, linkRepo, log)
	linkService := service.NewLinkService(linkRepo, visitRepo, clickService, cfg.BaseURL, cfg.AliasLength, log)
	userService := service.NewUserService(userRepo, log)

	r := Router(cfg, handler.NewLinkHandler(linkService, clickService, cfg), handler.NewUserHandler(userService, cfg))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &apiEnv{srv: srv, client: client, db: db, linkRepo: linkRepo}
}

func (e *apiEnv) request(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeEnvelope(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func (e *apiEnv) registerUser(t *testing.T, email string) string {
	t.Helper()
	resp, raw := e.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env := decodeEnvelope(t, raw)
	data := env["data"].(map[string]any)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)
	resp, _ := env.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	env := newAPIEnv(t)

	token := env.registerUser(t, "flow@example.com")

	resp, _ := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    "flow@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, raw := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "flow@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeEnvelope(t, raw)
	require.Equal(t, true, login["isSuccess"])

	resp, _ = env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "flow@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw = env.request(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeEnvelope(t, raw)
	user := me["data"].(map[string]any)["user"].(map[string]any)
	require.Equal(t, "flow@example.com", user["email"])

	resp, _ = env.request(t, http.MethodGet, "/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAnonymousReturnsPlainLink(t *testing.T) {
	env := newAPIEnv(t)

	resp, raw := env.request(t, http.MethodPost, "/api/create", "", gin.H{
		"url": "https://example.com/page",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	shortLink := string(raw)
	require.True(t, strings.HasPrefix(shortLink, testBaseURL+"/"), "got %q", shortLink)
	require.Len(t, strings.TrimPrefix(shortLink, testBaseURL+"/"), 7)
}

func TestCreateOwnedWithSlug(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerUser(t, "owner@example.com")

	resp, raw := env.request(t, http.MethodPost, "/api/create", token, gin.H{
		"url":  "https://example.com/page",
		"slug": "my-page",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created map[string]any
	require.NoError(t, json.Unmarshal(raw, &created))
	require.Equal(t, testBaseURL+"/my-page", created["shortUrl"])
	qr, _ := created["qrCode"].(string)
	require.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))

	resp, _ = env.request(t, http.MethodPost, "/api/create", token, gin.H{
		"url":  "https://example.com/other",
		"slug": "my-page",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCreateRejectsInvalidURL(t *testing.T) {
	env := newAPIEnv(t)
	resp, _ := env.request(t, http.MethodPost, "/api/create", "", gin.H{
		"url": "not a url",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRedirect(t *testing.T) {
	env := newAPIEnv(t)

	link := &models.Link{FullURL: "https://example.com/target", ShortURL: "go-here"}
	require.NoError(t, env.linkRepo.Create(link))

	resp, _ := env.request(t, http.MethodGet, "/go-here", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "https://example.com/target", resp.Header.Get("Location"))

	got, err := env.linkRepo.GetByShortURL("go-here")
	require.NoError(t, err)
	require.EqualValues(t, 1, got.Clicks)
}

func TestRedirectUnknownAlias(t *testing.T) {
	env := newAPIEnv(t)
	resp, _ := env.request(t, http.MethodGet, "/missing", "", nil)
	require.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestRedirectExpired(t *testing.T) {
	env := newAPIEnv(t)

	past := time.Now().Add(-time.Hour)
	link := &models.Link{FullURL: "https://example.com", ShortURL: "stale", ExpiresAt: &past}
	require.NoError(t, env.linkRepo.Create(link))

	resp, _ := env.request(t, http.MethodGet, "/stale", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, testFrontendURL+"/link-expired?"), "got %q", loc)
	require.Contains(t, loc, "shortUrl=stale")
}

func TestRedirectNotActive(t *testing.T) {
	env := newAPIEnv(t)

	future := time.Now().Add(time.Hour)
	link := &models.Link{FullURL: "https://example.com", ShortURL: "later", ActiveFrom: future}
	require.NoError(t, env.linkRepo.Create(link))

	resp, _ := env.request(t, http.MethodGet, "/later", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(loc, testFrontendURL+"/link-not-active?"), "got %q", loc)
}

func TestProtectedLinkFlow(t *testing.T) {
	env := newAPIEnv(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.DefaultCost)
	require.NoError(t, err)
	hashed := string(hash)
	link := &models.Link{
		FullURL:        "https://example.com/secret",
		ShortURL:       "vault",
		LinkPassword:   &hashed,
		IsLinkPassword: true,
	}
	require.NoError(t, env.linkRepo.Create(link))

	resp, _ := env.request(t, http.MethodGet, "/vault", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, testFrontendURL+"/protected/vault", resp.Header.Get("Location"))

	resp, _ = env.request(t, http.MethodPost, "/api/verify-password", "", gin.H{
		"shortUrl": "vault",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPost, "/api/verify-password", "", gin.H{
		"shortUrl": "vault",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPost, "/api/verify-password", "", gin.H{
		"shortUrl": "missing",
		"password": "open-sesame",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw := env.request(t, http.MethodPost, "/api/verify-password", "", gin.H{
		"shortUrl": "vault",
		"password": "open-sesame",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, raw)
	require.Equal(t, true, body["isSuccess"])
	require.Equal(t, "https://example.com/secret", body["full_url"])
}

func TestURLManagement(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerUser(t, "manager@example.com")

	resp, _ := env.request(t, http.MethodPost, "/api/create", token, gin.H{
		"url":  "https://example.com/managed",
		"slug": "managed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := env.request(t, http.MethodGet, "/api/urls", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeEnvelope(t, raw)
	urls := list["data"].(map[string]any)["urls"].([]any)
	require.Len(t, urls, 1)
	linkID := urls[0].(map[string]any)["id"].(string)

	resp, raw = env.request(t, http.MethodPatch, "/api/urls/"+linkID, token, gin.H{
		"isLinkPassword": true,
		"password":       "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeEnvelope(t, raw)
	require.Equal(t, true, updated["data"].(map[string]any)["isLinkPassword"])

	resp, _ = env.request(t, http.MethodPatch, "/api/urls/"+linkID, token, gin.H{
		"isLinkPassword": true,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, "/api/urls/"+linkID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, "/api/urls/"+linkID, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/urls", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAnalyticsEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	ownerToken := env.registerUser(t, "stats@example.com")
	otherToken := env.registerUser(t, "stranger@example.com")

	resp, _ := env.request(t, http.MethodPost, "/api/create", ownerToken, gin.H{
		"url":  "https://example.com/tracked",
		"slug": "tracked",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/tracked", "", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, raw := env.request(t, http.MethodGet, "/api/analytics/tracked", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, raw)
	analytics := body["data"].(map[string]any)["analytics"].(map[string]any)
	require.EqualValues(t, 1, analytics["totalClicks"])

	resp, _ = env.request(t, http.MethodGet, "/api/analytics/tracked", otherToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/analytics/missing", ownerToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/api/analytics/tracked", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
