package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/audioryx/backend/internal/auth"
	"github.com/audioryx/backend/internal/config"
	"github.com/audioryx/backend/internal/models/dto"
	"github.com/audioryx/backend/internal/server"
	"github.com/audioryx/backend/internal/storage/memory"
	"github.com/audioryx/backend/internal/uploads"
)

const (
	testEmployeeEmail    = "ops@audioryx.io"
	testEmployeePassword = "op-secret"
)

type env struct {
	t      *testing.T
	ts     *httptest.Server
	tokens *auth.TokenManager
	store  *memory.Store
}

// newEnv spins up the full router over in-memory stores.
func newEnv(t *testing.T) *env {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testEmployeePassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash employee password: %v", err)
	}
	cfg := config.Config{
		JWTSecret:            "test-secret",
		JWTIssuer:            "audioryx-test",
		CORSOrigins:          []string{"*"},
		EmployeeEmail:        testEmployeeEmail,
		EmployeePasswordHash: string(hash),
	}
	return newEnvWithConfig(t, cfg)
}

func newEnvWithConfig(t *testing.T, cfg config.Config) *env {
	t.Helper()
	store := memory.NewStore()
	blobs := uploads.NewMemoryStore()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	router := server.Router(cfg, store, blobs, tokens, zap.NewNop())

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	return &env{t: t, ts: ts, tokens: tokens, store: store}
}

func (e *env) do(method, path, token string, body any) *http.Response {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	if err != nil {
		e.t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		e.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func (e *env) register(email, password string) dto.AuthResponse {
	e.t.Helper()
	resp := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		e.t.Fatalf("register %s status = %d", email, resp.StatusCode)
	}
	var out dto.AuthResponse
	decodeBody(e.t, resp, &out)
	return out
}

func (e *env) login(email, password string) dto.AuthResponse {
	e.t.Helper()
	resp := e.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		e.t.Fatalf("login %s status = %d", email, resp.StatusCode)
	}
	var out dto.AuthResponse
	decodeBody(e.t, resp, &out)
	return out
}

// upload posts a multipart file and returns the created track.
func (e *env) upload(token, filename, content string) dto.UploadResponse {
	e.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		e.t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		e.t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		e.t.Fatalf("close multipart writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, e.ts.URL+"/api/tracks/upload", &buf)
	if err != nil {
		e.t.Fatalf("build upload request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		e.t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		e.t.Fatalf("upload status = %d", resp.StatusCode)
	}
	var out dto.UploadResponse
	decodeBody(e.t, resp, &out)
	return out
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// errorTag reads the machine-readable error tag from a failed response.
func errorTag(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var out struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &out)
	return out.Error
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status = %d, want %d", resp.StatusCode, want)
	}
}
