package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/adityadhiman-in/bcryptjs-authentication/internal/apperrors"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/auth"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/cache"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/handler"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/model"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/router"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/service"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/session"
	"github.com/adityadhiman-in/bcryptjs-authentication/internal/web"
)

// memoryUserRepo is an in-memory repository.UserRepository. Its mutex plays
// the role of the database's unique index: concurrent Creates for one email
// admit exactly one winner.
type memoryUserRepo struct {
	mu      sync.Mutex
	seq     uint
	byID    map[uint]*model.User
	byEmail map[string]*model.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byID:    make(map[uint]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (r *memoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return apperrors.ErrEmailTaken
	}
	r.seq++
	user.ID = r.seq
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func newTestServer(t *testing.T) (*echo.Echo, *memoryUserRepo) {
	t.Helper()

	e := echo.New()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)
	e.Renderer = renderer

	repo := newMemoryUserRepo()
	users := service.NewUserService(repo, cache.New(nil))
	sessions := session.NewManager(session.NewMemoryStore(), users, time.Hour)
	authService := service.NewAuthService(repo, sessions, bcrypt.MinCost)

	router.Register(e, sessions, handler.NewAuthHandler(authService, sessions), handler.NewPagesHandler())
	return e, repo
}

func postForm(e *echo.Echo, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func credentials(email, pw string) url.Values {
	return url.Values{"username": {email}, "password": {pw}}
}

func TestRegisterLoginLogoutFlow(t *testing.T) {
	e, _ := newTestServer(t)

	// Register establishes a session and redirects to the protected page.
	rec := postForm(e, "/register", credentials("a@x.com", "pw1234"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/secrets", rec.Header().Get(echo.HeaderLocation))
	cookie := sessionCookie(t, rec)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	// The cookie grants access to /secrets.
	rec = get(e, "/secrets", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")

	// Logout destroys the session and expires the cookie.
	rec = get(e, "/logout", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// The old cookie no longer authenticates.
	rec = get(e, "/secrets", cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	// Logging back in works.
	rec = postForm(e, "/login", credentials("a@x.com", "pw1234"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/secrets", rec.Header().Get(echo.HeaderLocation))
	rec = get(e, "/secrets", sessionCookie(t, rec))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e, repo := newTestServer(t)

	rec := postForm(e, "/register", credentials("a@x.com", "pw1234"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(e, "/register", credentials("a@x.com", "other-pw"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")
	assert.Equal(t, 1, repo.count())
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	e, repo := newTestServer(t)
	email := fmt.Sprintf("%s@x.com", uuid.NewString())

	const attempts = 8
	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := postForm(e, "/register", credentials(email, "pw1234"))
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	winners := 0
	for code := range codes {
		if code == http.StatusSeeOther {
			winners++
		} else {
			assert.Equal(t, http.StatusOK, code)
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent registration may succeed")
	assert.Equal(t, 1, repo.count())
}

func TestRegisterInvalidInput(t *testing.T) {
	e, repo := newTestServer(t)

	rec := postForm(e, "/register", credentials("not-an-email", "pw1234"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postForm(e, "/register", credentials("a@x.com", "tiny"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, repo.count())
}

func TestLoginWrongPassword(t *testing.T) {
	e, _ := newTestServer(t)

	rec := postForm(e, "/register", credentials("a@x.com", "pw1234"))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = postForm(e, "/login", credentials("a@x.com", "wrongpw"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, auth.CookieName, c.Name, "no session cookie on failed login")
	}
}

func TestLoginUnknownEmailLooksTheSame(t *testing.T) {
	e, _ := newTestServer(t)

	rec := postForm(e, "/login", credentials("ghost@x.com", "pw1234"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestSecretsRequiresSession(t *testing.T) {
	e, _ := newTestServer(t)

	rec := get(e, "/secrets")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

	rec = get(e, "/secrets", &http.Cookie{Name: auth.CookieName, Value: "forged-token"})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestLogoutWithoutSession(t *testing.T) {
	e, _ := newTestServer(t)

	rec := get(e, "/logout")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestPublicPages(t *testing.T) {
	e, _ := newTestServer(t)

	for _, path := range []string{"/", "/login", "/register", "/healthz"} {
		rec := get(e, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
