package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/princeprakhar/bookmind/internal/config"
	"github.com/princeprakhar/bookmind/internal/database"
	"github.com/princeprakhar/bookmind/internal/models"
	"github.com/princeprakhar/bookmind/internal/services"
	"github.com/princeprakhar/bookmind/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeBooks struct{}

func (fakeBooks) Lookup(_ context.Context, title string) (*services.BookInfo, bool) {
	if !strings.EqualFold(title, "dune") {
		return nil, false
	}
	return &services.BookInfo{
		Title:       "Dune",
		Author:      "Frank Herbert",
		CoverURL:    "https://covers.example.com/dune.jpg",
		Description: "Desert planet politics.",
	}, true
}

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	svc    *Services
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))
	db, err := database.Open("sqlite", dsn, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := &config.Config{
		Environment:         "test",
		JWTSecret:           "router-test-secret-0123456789abcdef",
		AccessTokenTTL:      time.Hour,
		SessionSecret:       "router-test-session-secret",
		SessionStore:        "memory",
		RateLimitPerMinute:  1000,
		BookLookupPerMinute: 60,
		CORSOrigins:         []string{"http://localhost:3000"},
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	auth := services.NewAuthService(db, tokens, nil)
	svc := &Services{
		Tokens:   tokens,
		Identity: services.NewIdentityResolver(tokens, auth),
		Auth:     auth,
		Reviews:  services.NewReviewService(db),
		Comments: services.NewCommentService(db),
		Books:    fakeBooks{},
	}

	router := gin.New()
	Register(router, cfg, svc)
	return &testApp{router: router, db: db, svc: svc}
}

func (a *testApp) createUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	user, err := a.svc.Auth.Register(services.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
	})
	require.NoError(t, err)
	return user
}

func (a *testApp) createReview(t *testing.T, owner *models.User, title string) *models.Review {
	t.Helper()
	review, err := a.svc.Reviews.CreateReview(services.UserIdentity(owner), services.ReviewInput{
		BookTitle: title,
		Author:    "Some Author",
		Rating:    8,
		Text:      "Worth reading.",
	})
	require.NoError(t, err)
	return review
}

// browser keeps cookies between requests like a real client.
type browser struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) browser() *browser {
	return &browser{app: a, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, cookie := range b.cookies {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}

	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(b.cookies, cookie.Name)
			continue
		}
		b.cookies[cookie.Name] = cookie
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form)
}

func (b *browser) login(t *testing.T, username, password string) {
	t.Helper()
	w := b.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Contains(t, b.cookies, "access_token")
}
