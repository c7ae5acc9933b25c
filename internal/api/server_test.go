package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ghostlab/gadgetry/internal/auth"
	"github.com/ghostlab/gadgetry/internal/gadget"
	"github.com/ghostlab/gadgetry/internal/infrastructure/config"
	"github.com/ghostlab/gadgetry/internal/infrastructure/logging"
)

const testJWTSecret = "test-secret-key-at-least-32-characters-long"

// testServer creates a Server backed by in-memory SQLite with the full
// accounts and gadgets schema.
func testServer(t *testing.T) *Server {
	t.Helper()

	db := setupTestDB(t)

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	authSvc := auth.NewService(auth.NewAccountRepository(db), testJWTSecret, 1)
	gadgetSvc := gadget.NewService(gadget.NewSQLiteRepository(db), nil)

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{Secret: testJWTSecret},
		},
		Logger:  log,
		Auth:    authSvc,
		Gadgets: gadgetSvc,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	// Initialise hub for tests
	srv.hub = NewHub(srv.wsCfg, log)
	go srv.hub.Run(context.Background())

	return srv
}

// setupTestDB creates an in-memory SQLite database with the accounts and
// gadgets schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps the in-memory database alive across queries.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			password_digest TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE UNIQUE INDEX idx_accounts_name ON accounts(name);

		CREATE TABLE gadgets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			success INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'Available',
			timestamp TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE UNIQUE INDEX idx_gadgets_name ON gadgets(name);
		CREATE INDEX idx_gadgets_status ON gadgets(status);
	`

	if _, execErr := db.Exec(schema); execErr != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", execErr)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// registerAndLogin creates an account through the API and returns a
// bearer token for it.
func registerAndLogin(t *testing.T, router http.Handler) string {
	t.Helper()

	body := `{"userName": "agent.q", "password": "exploding-pen"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/create_user", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create_user status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	if resp["token"] == "" {
		t.Fatal("expected token to be non-empty")
	}
	return resp["token"]
}

// authedRequest builds a request carrying the given bearer token.
func authedRequest(method, target, token string, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// createGadget creates a gadget through the API and returns it.
func createGadget(t *testing.T, router http.Handler, token string) gadget.Gadget {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/gadgets", token, ""))
	if w.Code != http.StatusCreated {
		t.Fatalf("create gadget status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Success bool          `json:"success"`
		Message gadget.Gadget `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal created gadget: %v", err)
	}
	return resp.Message
}

// ─── Health Endpoint Tests ─────────────────────────────────────────

func TestHealth(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["version"] != "test" {
		t.Errorf("version = %v, want test", resp["version"])
	}
}

// ─── Middleware Tests ──────────────────────────────────────────────

func TestRequestID_Generated(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestRequestID_PreservesClient(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "client-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "client-123")
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodOptions, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q, want %q", got, "http://localhost:3000")
	}
}

// ─── Auth Gate Tests ───────────────────────────────────────────────

func TestAuthGate_MissingToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/gadgets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var resp unauthorizedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "fail" {
		t.Errorf("status field = %q, want fail", resp.Status)
	}
	if resp.Message != "Unauthorized!" {
		t.Errorf("message = %q, want Unauthorized!", resp.Message)
	}
}

func TestAuthGate_MalformedHeader(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	for _, header := range []string{"Bearer", "garbage-token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/gadgets", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want %d", header, w.Code, http.StatusUnauthorized)
		}
	}
}

func TestAuthGate_InvalidToken(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodGet, "/gadgets", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// ─── Account Tests ─────────────────────────────────────────────────

func TestCreateUser_MissingFields(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	for _, body := range []string{`{}`, `{"userName": "q"}`, `{"password": "pw"}`} {
		req := httptest.NewRequest(http.MethodPost, "/auth/create_user", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
	}
}

func TestCreateUser_DuplicateName(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	body := `{"userName": "bond", "password": "shaken"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/create_user", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first create status = %d, want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/create_user", strings.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate create status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp failResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message != "username bond taken" {
		t.Errorf("message = %q, want %q", resp.Message, "username bond taken")
	}
}

// Usernames are presence-checked only; spaces and symbols are accepted.
func TestCreateUser_NameWithSpaces(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	body := `{"userName": "agent smith", "password": "pw"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/create_user", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	// The new account can log in.
	body = `{"userName": "agent smith", "password": "pw"}`
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["token"] == "" {
		t.Error("login should return a token")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	body := `{"userName": "moneypenny", "password": "correct"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/create_user", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, want %d", w.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"userName": "moneypenny", "password": "wrong"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"userName": "nobody", "password": "pw"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var resp failResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message != "invalid username or password" {
		t.Errorf("message = %q, want %q", resp.Message, "invalid username or password")
	}
}

// ─── Gadget CRUD Tests ─────────────────────────────────────────────

func TestListGadgets_Empty(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/gadgets", token, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Success bool          `json:"success"`
		Data    []gadget.View `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if len(resp.Data) != 0 {
		t.Errorf("data length = %d, want 0", len(resp.Data))
	}
}

func TestCreateGadget(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	if g.ID == "" {
		t.Error("expected gadget ID to be generated")
	}
	if g.Name == "" {
		t.Error("expected codename to be generated")
	}
	if g.Status != gadget.StatusAvailable {
		t.Errorf("status = %q, want %q", g.Status, gadget.StatusAvailable)
	}
	if g.Success < 0 || g.Success > 99 {
		t.Errorf("success = %d, want value in [0, 99]", g.Success)
	}
}

func TestListGadgets_FilterByStatus(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	// Filter matching the gadget's status
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/gadgets?status=Available", token, ""))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Data []gadget.View `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("data length = %d, want 1", len(resp.Data))
	}
	if resp.Data[0].ID != g.ID {
		t.Errorf("id = %q, want %q", resp.Data[0].ID, g.ID)
	}

	// Filter with no matches
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/gadgets?status=Destroyed", token, ""))
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("data length for Destroyed = %d, want 0", len(resp.Data))
	}
}

func TestListGadgets_InvalidFilter(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/gadgets?status=Broken", token, ""))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// ─── Update Tests ──────────────────────────────────────────────────

func TestUpdateGadget(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	body := fmt.Sprintf(`{"name": %q, "status": "Deployed", "success": "75"}`, g.Name)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPatch, "/gadgets", token, body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Message gadget.Gadget `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message.Status != gadget.StatusDeployed {
		t.Errorf("status = %q, want %q", resp.Message.Status, gadget.StatusDeployed)
	}
	if resp.Message.Success != 75 {
		t.Errorf("success = %d, want 75", resp.Message.Success)
	}
}

func TestUpdateGadget_NumericSuccess(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	// Success sent as a JSON number rather than a string
	body := fmt.Sprintf(`{"name": %q, "success": 42}`, g.Name)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPatch, "/gadgets", token, body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Message gadget.Gadget `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message.Success != 42 {
		t.Errorf("success = %d, want 42", resp.Message.Success)
	}
}

func TestUpdateGadget_SuccessAbove100(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	// Digits-only validation has no upper bound
	body := fmt.Sprintf(`{"name": %q, "success": "150"}`, g.Name)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPatch, "/gadgets", token, body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}
}

func TestUpdateGadget_Validation(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "missing name",
			body:       `{"status": "Deployed"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "no updatable fields",
			body:       fmt.Sprintf(`{"name": %q}`, g.Name),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid status",
			body:       fmt.Sprintf(`{"name": %q, "status": "Broken"}`, g.Name),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative success",
			body:       fmt.Sprintf(`{"name": %q, "success": "-5"}`, g.Name),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "fractional success",
			body:       fmt.Sprintf(`{"name": %q, "success": 1.5}`, g.Name),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric success",
			body:       fmt.Sprintf(`{"name": %q, "success": "lots"}`, g.Name),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown gadget",
			body:       `{"name": "no such gadget", "status": "Deployed"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, authedRequest(http.MethodPatch, "/gadgets", token, tt.body))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body: %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

// ─── Decommission Tests ────────────────────────────────────────────

func TestDecommissionGadget(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	body := fmt.Sprintf(`{"name": %q}`, g.Name)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/gadgets", token, body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Message gadget.Gadget `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message.Status != gadget.StatusDecommissioned {
		t.Errorf("status = %q, want %q", resp.Message.Status, gadget.StatusDecommissioned)
	}
	if resp.Message.Timestamp == nil {
		t.Error("expected decommission timestamp to be set")
	}
}

func TestDecommissionGadget_MissingName(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/gadgets", token, `{}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDecommissionGadget_Idempotent(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)
	body := fmt.Sprintf(`{"name": %q}`, g.Name)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/gadgets", token, body))
	if w.Code != http.StatusCreated {
		t.Fatalf("first decommission status = %d, want %d", w.Code, http.StatusCreated)
	}

	// Repeating the decommission succeeds again
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/gadgets", token, body))
	if w.Code != http.StatusCreated {
		t.Errorf("second decommission status = %d, want %d", w.Code, http.StatusCreated)
	}
}

// ─── Self-Destruct Tests ───────────────────────────────────────────

func TestSelfDestruct(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	body := `{"confirmationCode": "0000"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/gadgets/"+g.ID+"/self-destruct", token, body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Message gadget.Gadget `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Message.Status != gadget.StatusDestroyed {
		t.Errorf("status = %q, want %q", resp.Message.Status, gadget.StatusDestroyed)
	}
}

func TestSelfDestruct_NumericCode(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	// Any non-empty code is accepted, including a JSON number
	body := `{"confirmationCode": 1234}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/gadgets/"+g.ID+"/self-destruct", token, body))

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d; body: %s", w.Code, http.StatusCreated, w.Body.String())
	}
}

func TestSelfDestruct_MissingCode(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	g := createGadget(t, router, token)

	for _, body := range []string{`{}`, `{"confirmationCode": ""}`} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authedRequest(http.MethodPost, "/gadgets/"+g.ID+"/self-destruct", token, body))

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
	}
}

func TestSelfDestruct_UnknownID(t *testing.T) {
	srv := testServer(t)
	router := srv.buildRouter()
	token := registerAndLogin(t, router)

	body := `{"confirmationCode": "0000"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodPost, "/gadgets/nonexistent/self-destruct", token, body))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

// ─── WebSocket Hub Tests ───────────────────────────────────────────

func TestHub_Broadcast(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &WSClient{
		hub:  hub,
		send: make(chan []byte, wsSendBufferSize),
	}
	hub.Register(client)

	hub.Broadcast([]byte(`{"type":"gadget.created"}`))

	select {
	case msg := <-client.send:
		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if wsMsg.Type != WSTypeEvent {
			t.Errorf("type = %q, want %q", wsMsg.Type, WSTypeEvent)
		}
		payload, ok := wsMsg.Payload.(map[string]any)
		if !ok {
			t.Fatalf("payload is not a map: %T", wsMsg.Payload)
		}
		if payload["type"] != "gadget.created" {
			t.Errorf("payload type = %v, want gadget.created", payload["type"])
		}
	case <-time.After(time.Second):
		t.Error("timed out waiting for broadcast message")
	}
}

func TestHub_ClientCount(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	hub := NewHub(config.WebSocketConfig{MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	if hub.ClientCount() != 0 {
		t.Errorf("initial client count = %d, want 0", hub.ClientCount())
	}

	client := &WSClient{
		hub:  hub,
		send: make(chan []byte, wsSendBufferSize),
	}
	hub.Register(client)

	if hub.ClientCount() != 1 {
		t.Errorf("after register count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)

	if hub.ClientCount() != 0 {
		t.Errorf("after unregister count = %d, want 0", hub.ClientCount())
	}
}

// ─── Server Lifecycle Tests ────────────────────────────────────────

func TestServer_StartAndClose(t *testing.T) {
	db := setupTestDB(t)
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			// Port 0 lets the OS pick a free port; the test reads the
			// actual address back from the listener.
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		WS: config.WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Security: config.SecurityConfig{
			JWT: config.JWTConfig{Secret: testJWTSecret},
		},
		Logger:  log,
		Auth:    auth.NewService(auth.NewAccountRepository(db), testJWTSecret, 1),
		Gadgets: gadget.NewService(gadget.NewSQLiteRepository(db), nil),
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	addr := srv.Addr()
	if addr == "" {
		t.Fatal("Addr() should return the bound address after Start()")
	}

	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("health check status = %d, want 200", resp.StatusCode)
	}

	cancel()
	if err := srv.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	_, err = http.Get("http://" + addr + "/health")
	if err == nil {
		t.Error("server still responding after Close()")
	}
}

func TestNew_MissingDependencies(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	db := setupTestDB(t)
	authSvc := auth.NewService(auth.NewAccountRepository(db), testJWTSecret, 1)
	gadgetSvc := gadget.NewService(gadget.NewSQLiteRepository(db), nil)

	tests := []struct {
		name string
		deps Deps
	}{
		{"missing logger", Deps{Auth: authSvc, Gadgets: gadgetSvc}},
		{"missing auth", Deps{Logger: log, Gadgets: gadgetSvc}},
		{"missing gadgets", Deps{Logger: log, Auth: authSvc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.deps); err == nil {
				t.Error("expected error for missing dependency")
			}
		})
	}
}
