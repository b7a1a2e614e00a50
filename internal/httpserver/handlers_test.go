package httpserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/docvault/internal/blobstore"
	"github.com/Skotchmaster/docvault/internal/middleware"
	"github.com/Skotchmaster/docvault/internal/models"
	"github.com/Skotchmaster/docvault/internal/repo"
	"github.com/Skotchmaster/docvault/internal/service"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Document{},
		&models.ShareGrant{},
		&models.Blob{},
	))

	rp := &repo.GormRepo{DB: db}
	authSvc := &service.AuthService{
		Repo:       rp,
		Secret:     []byte("test-secret"),
		AccessTTL:  30 * time.Second,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	docSvc := &service.DocumentService{
		Repo:  rp,
		Blobs: &blobstore.DBStore{DB: db},
	}
	shareSvc := &service.ShareService{Repo: rp}

	e := echo.New()
	Register(e, &Deps{
		Auth:      &AuthHTTP{Svc: authSvc},
		Documents: &DocumentHTTP{Svc: docSvc},
		Shares:    &ShareHTTP{Svc: shareSvc},
		Gate:      &middleware.AccessGate{Auth: authSvc},
	})

	return &testEnv{T: t, E: e, DB: db}
}

func (env *testEnv) doJSON(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) doUpload(filename string, content []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(env.T, err)
	_, err = fw.Write(content)
	require.NoError(env.T, err)
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/user/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, env *testEnv, email, password string) {
	t.Helper()

	rec := env.doJSON(http.MethodPost, "/user/register", map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func login(t *testing.T, env *testEnv, email, password string) (string, *http.Cookie) {
	t.Helper()

	rec := env.doJSON(http.MethodPost, "/user/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	var refreshCookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.RefreshCookieName {
			refreshCookie = ck
		}
	}
	require.NotNil(t, refreshCookie, "login must set the refresh cookie")
	require.True(t, refreshCookie.HttpOnly)

	return resp.AccessToken, refreshCookie
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	register(t, env, "alice@x.com", "pw1")
	login(t, env, "alice@x.com", "pw1")

	// Duplicate email.
	rec := env.doJSON(http.MethodPost, "/user/register", map[string]string{
		"email": "alice@x.com", "password": "pw2",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// Wrong password.
	rec = env.doJSON(http.MethodPost, "/user/login", map[string]string{
		"email": "alice@x.com", "password": "nope",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Unknown email.
	rec = env.doJSON(http.MethodPost, "/user/login", map[string]string{
		"email": "ghost@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "alice@x.com", "pw1")
	access, _ := login(t, env, "alice@x.com", "pw1")

	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	require.Equal(t, "alice@x.com", profile["email"])
	require.NotContains(t, rec.Body.String(), "password")

	// Missing header is Unauthorized, never NotFound.
	req = httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	rec = httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "alice@x.com", "pw1")
	_, cookie := login(t, env, "alice@x.com", "pw1")

	rec := env.doJSON(http.MethodPost, "/user/refresh", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	// No cookie at all.
	rec = env.doJSON(http.MethodPost, "/user/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodPost, "/user/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	// The signature is still valid but the session is gone.
	rec = env.doJSON(http.MethodPost, "/user/refresh", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout stays 200 for an already-deleted session.
	rec = env.doJSON(http.MethodPost, "/user/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadAndDocuments(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "alice@x.com", "pw1")
	_, cookie := login(t, env, "alice@x.com", "pw1")

	rec := env.doUpload("a.txt", []byte("hello"))
	require.Equal(t, http.StatusUnauthorized, rec.Code, "upload without a session")

	rec = env.doUpload("a.txt", []byte("hello"), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doUpload("a.txt", []byte("hello again"), cookie)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.doJSON(http.MethodGet, "/user/documents", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	require.Equal(t, "a.txt", docs[0]["document_name"])
	require.Equal(t, "txt", docs[0]["document_type"])
}

func TestShareFlow(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "alice@x.com", "pw1")
	register(t, env, "bob@x.com", "pw2")
	_, aliceCookie := login(t, env, "alice@x.com", "pw1")
	_, bobCookie := login(t, env, "bob@x.com", "pw2")

	rec := env.doUpload("report.pdf", []byte("%PDF-1.4"), aliceCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var uploaded struct {
		DocumentID string `json:"document_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	rec = env.doJSON(http.MethodPost, "/user/share", map[string]string{
		"email":       "bob@x.com",
		"document_id": uploaded.DocumentID,
	}, aliceCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "bob@x.com")

	// Self-share.
	rec = env.doJSON(http.MethodPost, "/user/share", map[string]string{
		"email":       "alice@x.com",
		"document_id": uploaded.DocumentID,
	}, aliceCookie)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Duplicate grant.
	rec = env.doJSON(http.MethodPost, "/user/share", map[string]string{
		"email":       "bob@x.com",
		"document_id": uploaded.DocumentID,
	}, aliceCookie)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.doJSON(http.MethodGet, "/user/sharedDoc", nil, bobCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var shared []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shared))
	require.Len(t, shared, 1)
	require.Equal(t, "report.pdf", shared[0]["document_name"])
	require.Equal(t, "pdf", shared[0]["document_type"])
	require.NotContains(t, shared[0], "owner_id")
	require.NotContains(t, shared[0], "shared_by")
}

func TestDownloadAndDelete(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "alice@x.com", "pw1")
	register(t, env, "bob@x.com", "pw2")
	_, aliceCookie := login(t, env, "alice@x.com", "pw1")
	_, bobCookie := login(t, env, "bob@x.com", "pw2")

	rec := env.doUpload("report.pdf", []byte("%PDF-1.4"), aliceCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var uploaded struct {
		DocumentID string `json:"document_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	rec = env.doJSON(http.MethodGet, "/user/download?id="+uploaded.DocumentID, nil, aliceCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
	require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "report.pdf")
	require.Equal(t, "%PDF-1.4", rec.Body.String())

	// Not shared with bob yet.
	rec = env.doJSON(http.MethodGet, "/user/download?id="+uploaded.DocumentID, nil, bobCookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Only the owner may delete.
	rec = env.doJSON(http.MethodDelete, "/user/delete?id="+uploaded.DocumentID, nil, bobCookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSON(http.MethodDelete, "/user/delete?id="+uploaded.DocumentID, nil, aliceCookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(http.MethodDelete, "/user/delete?id="+uploaded.DocumentID, nil, aliceCookie)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
