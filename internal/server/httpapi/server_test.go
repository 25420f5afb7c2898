package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chdeepakkumar/portfolio/internal/logging"
	"github.com/chdeepakkumar/portfolio/internal/server/auth"
	"github.com/chdeepakkumar/portfolio/internal/server/config"
	"github.com/chdeepakkumar/portfolio/internal/server/knowledge"
	"github.com/chdeepakkumar/portfolio/internal/server/portfolio"
	"github.com/chdeepakkumar/portfolio/internal/server/repository"
	"github.com/chdeepakkumar/portfolio/internal/server/resume"
	"github.com/chdeepakkumar/portfolio/internal/server/users"
	"github.com/chdeepakkumar/portfolio/internal/storage"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

type fakeMailer struct {
	lastCode string
}

func (f *fakeMailer) SendOTP(ctx context.Context, to, code string) error {
	f.lastCode = code
	return nil
}

type testEnv struct {
	router http.Handler
	mailer *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AdminEmail = "admin@example.com"
	cfg.OTPPassword = "letmein"
	cfg.JWTSecret = "access-secret"
	cfg.JWTRefreshSecret = "refresh-secret"

	logger := testLogger()
	store, err := storage.NewLocal(t.TempDir(), logger)
	require.NoError(t, err)
	repo := repository.New(store, cfg.AdminEmail, logger)

	mailer := &fakeMailer{}
	otp := auth.NewOTPStore(5*time.Minute, time.Minute)
	us := users.NewService(repo, otp, mailer, cfg, logger)
	ps := portfolio.NewService(repo, logger)
	ks := knowledge.NewService(repo, logger)
	rm := resume.NewManager(repo, logger)

	srv := NewServer(cfg, logger, us, ps, ks, rm)
	return &testEnv{router: srv.Router(), mailer: mailer}
}

func (e *testEnv) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// login runs the full OTP flow and returns an access token.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/auth/request-otp", "", map[string]string{"password": "letmein"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NotEmpty(t, e.mailer.lastCode)

	rr = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"otp": e.mailer.lastCode})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestPublicPortfolio(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/portfolio", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Sections     map[string]map[string]any `json:"sections"`
		SectionOrder []string                  `json:"sectionOrder"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Sections, "hero")
	assert.Contains(t, resp.Sections, "about")
	assert.NotContains(t, resp.SectionOrder, "hero")
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for _, route := range []struct{ method, target string }{
		{http.MethodGet, "/api/portfolio/admin"},
		{http.MethodPut, "/api/portfolio"},
		{http.MethodGet, "/api/portfolio/resumes"},
		{http.MethodPost, "/api/portfolio/knowledge-files"},
	} {
		rr := env.do(t, route.method, route.target, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", route.method, route.target)
	}
}

func TestAdminRoutesRejectGarbageToken(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/portfolio/admin", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginFlowAndAdminAccess(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)

	rr := env.do(t, http.MethodGet, "/api/portfolio/admin", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestRequestOTP_WrongPassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/auth/request-otp", "", map[string]string{"password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_BadOTP(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"otp": "WRONGOTP"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdatePortfolio(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)

	payload := map[string]any{
		"sections": map[string]any{
			"hero": map[string]any{"content": map[string]any{"name": "Jane Doe"}},
		},
	}
	rr := env.do(t, http.MethodPut, "/api/portfolio", token, payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Message   string `json:"message"`
		Portfolio struct {
			Sections map[string]map[string]any `json:"sections"`
		} `json:"portfolio"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	content := resp.Portfolio.Sections["hero"]["content"].(map[string]any)
	assert.Equal(t, "Jane Doe", content["name"])
}

func TestUpdateSectionOrder_RejectsUnknownID(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)

	rr := env.do(t, http.MethodPut, "/api/portfolio/sections", token,
		map[string]any{"sectionOrder": []string{"bogus"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestKnowledgeUploadAndDownload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)

	body, contentType := multipartBody(t, "file", "faq.json", []byte(`{"q":"a"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/knowledge-files", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		File struct {
			Filename string `json:"filename"`
		} `json:"file"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.File.Filename)

	// Knowledge files are publicly readable.
	rr = env.do(t, http.MethodGet, "/api/portfolio/knowledge-files/"+resp.File.Filename, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &data))
	assert.Equal(t, "a", data["q"])
}

func TestKnowledgeDelete_PortfolioProtected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)

	// First read materializes knowledge/portfolio.json.
	rr := env.do(t, http.MethodGet, "/api/portfolio", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodDelete, "/api/portfolio/knowledge-files/portfolio.json", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResumeUploadAndActiveDownload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)

	pdf := []byte("%PDF-1.4 test resume")
	body, contentType := multipartBody(t, "resume", "cv.pdf", pdf)
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/resume", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// The first upload becomes the public default download.
	rr = env.do(t, http.MethodGet, "/api/portfolio/resume.pdf", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "cv.pdf")
	assert.Equal(t, pdf, rr.Body.Bytes())
}

func TestActiveResumeDownload_NoneStored(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rr := env.do(t, http.MethodGet, "/api/portfolio/resume.pdf", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGenerateResume(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.login(t)

	rr := env.do(t, http.MethodGet, "/api/portfolio/generate-resume.pdf", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))
}

func TestRefreshFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rr := env.do(t, http.MethodPost, "/api/auth/request-otp", "", map[string]string{"password": "letmein"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"otp": env.mailer.lastCode})
	require.Equal(t, http.StatusOK, rr.Code)
	var loginResp struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))

	rr = env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{"refreshToken": loginResp.RefreshToken})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var refreshResp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &refreshResp))
	assert.NotEmpty(t, refreshResp.AccessToken)
}
