package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"testing"

	"dentastock/frontend/login"
	"dentastock/infrastructure/audit"
	"dentastock/infrastructure/cache"
	"dentastock/infrastructure/rbac"
	"dentastock/infrastructure/sqlite"
)

type integrationEnv struct {
	server *httptest.Server
	db     *sqlite.DB
}

func setupIntegrationServer(t *testing.T) (*integrationEnv, *http.Client) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "server-integration.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if err := login.UpsertUserPasswordHash(context.Background(), db, "admin@example.com", "Admin", rbac.RoleAdmin, "Adm1n-Passw0rd!"); err != nil {
		t.Fatalf("seed admin user: %v", err)
	}

	sessionCache := cache.NewUserSessionCache()
	userCache := cache.NewUserCache()
	rbacCache := cache.NewRbacRolesCache()
	rbacSvc := rbac.New(rbacCache)
	auditSvc := audit.NewService()

	s := NewServer("127.0.0.1:0", "http://localhost:8080", db, sessionCache, userCache, rbacSvc, rbacCache, auditSvc)
	ts := httptest.NewServer(s.router)
	env := &integrationEnv{server: ts, db: db}
	t.Cleanup(func() {
		env.server.Close()
		_ = env.db.Close()
	})

	return env, newHTTPClient(t)
}

func newHTTPClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func csrfToken(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	u, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == "dentastock_csrf" {
			return c.Value
		}
	}
	return ""
}

func get(t *testing.T, client *http.Client, baseURL, path string) *http.Response {
	t.Helper()
	resp, err := client.Get(baseURL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func postJSON(t *testing.T, client *http.Client, baseURL, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := csrfToken(t, client, baseURL); token != "" {
		req.Header.Set("X-CSRF-Token", token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func loginAs(t *testing.T, client *http.Client, baseURL, email, password string) {
	t.Helper()

	// First request seeds the CSRF cookie.
	resp := get(t, client, baseURL, "/health")
	_ = resp.Body.Close()

	resp = postJSON(t, client, baseURL, "/login", map[string]string{"email": email, "password": password})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func signupClinic(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()

	resp := get(t, client, baseURL, "/health")
	_ = resp.Body.Close()

	resp = postJSON(t, client, baseURL, "/signup", map[string]string{
		"email":       "dentist@example.com",
		"password":    "Str0ng-Passw0rd!",
		"name":        "Dr. Adams",
		"accountType": "company",
		"companyName": "Bright Smile Dental",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected signup 201, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()
}

func TestIntegration_UnauthenticatedIsRejected(t *testing.T) {
	env, client := setupIntegrationServer(t)

	resp := get(t, client, env.server.URL, "/app/api/rooms")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}
}

func TestIntegration_CSRFRequiredOnWrites(t *testing.T) {
	env, client := setupIntegrationServer(t)

	// No prior GET, so the client holds no CSRF cookie.
	body := bytes.NewReader([]byte(`{"email":"admin@example.com","password":"Adm1n-Passw0rd!"}`))
	resp, err := client.Post(env.server.URL+"/login", "application/json", body)
	if err != nil {
		t.Fatalf("POST /login failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without csrf token, got %d", resp.StatusCode)
	}
}

func TestIntegration_ReceiveAndInventoryFlow(t *testing.T) {
	env, client := setupIntegrationServer(t)
	signupClinic(t, client, env.server.URL)

	var room struct {
		ID int64 `json:"id"`
	}
	resp := postJSON(t, client, env.server.URL, "/app/api/rooms", map[string]any{"name": "Operatory 1", "x": 10, "y": 20})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected room 201, got %d", resp.StatusCode)
	}
	decodeJSON(t, resp, &room)

	receive := func(price string) {
		resp := postJSON(t, client, env.server.URL, "/app/api/rooms/1/receive", map[string]any{
			"name":      "Nitrile Gloves",
			"brand":     "MedLine",
			"category":  "consumables",
			"uom":       "box",
			"qty":       10,
			"unitPrice": price,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected receive 200, got %d", resp.StatusCode)
		}
		_ = resp.Body.Close()
	}
	receive("2.00")
	receive("4.00")

	var master struct {
		Items []struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
			Price    string `json:"price"`
		} `json:"items"`
	}
	resp = get(t, client, env.server.URL, "/app/api/inventory")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected inventory 200, got %d", resp.StatusCode)
	}
	decodeJSON(t, resp, &master)

	if len(master.Items) != 1 {
		t.Fatalf("expected one merged item, got %d", len(master.Items))
	}
	if master.Items[0].Quantity != 20 {
		t.Fatalf("expected merged quantity 20, got %d", master.Items[0].Quantity)
	}
	if master.Items[0].Price != "3" {
		t.Fatalf("expected weighted average price 3, got %q", master.Items[0].Price)
	}
}

func TestIntegration_RBACBlocksClinicFromAdminDashboard(t *testing.T) {
	env, client := setupIntegrationServer(t)
	signupClinic(t, client, env.server.URL)

	resp := get(t, client, env.server.URL, "/app/admin/dashboard")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for clinic on admin route, got %d", resp.StatusCode)
	}
}

func TestIntegration_AdminSeesDashboard(t *testing.T) {
	env, client := setupIntegrationServer(t)
	loginAs(t, client, env.server.URL, "admin@example.com", "Adm1n-Passw0rd!")

	resp := get(t, client, env.server.URL, "/app/admin/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin dashboard, got %d", resp.StatusCode)
	}
	var data struct {
		Stats struct {
			ClinicCount int `json:"clinicCount"`
		} `json:"stats"`
	}
	decodeJSON(t, resp, &data)
	if data.Stats.ClinicCount != 0 {
		t.Fatalf("expected no clinics yet, got %d", data.Stats.ClinicCount)
	}
}

func TestIntegration_LogoutEndsSession(t *testing.T) {
	env, client := setupIntegrationServer(t)
	signupClinic(t, client, env.server.URL)

	resp := postJSON(t, client, env.server.URL, "/logout", map[string]string{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected logout 200, got %d", resp.StatusCode)
	}
	_ = resp.Body.Close()

	resp = get(t, client, env.server.URL, "/app/api/rooms")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}
