package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"suma/internal/auth"
	"suma/internal/core"
	"suma/internal/ledger/document"
	applog "suma/internal/log"
	"suma/internal/services"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, verifier auth.Verifier) *Server {
	t.Helper()
	store := document.New()
	users := services.NewUserService(store)
	movements := services.NewMovementService(store, nil)
	refs := services.NewReferenceService(store)
	logger := applog.New(applog.Config{Component: "test"})

	_, unconfigured := verifier.(auth.Unconfigured)
	return NewServer(Config{
		Addr:           ":0",
		AppName:        "Suma",
		AppVersion:     "0.1.0",
		AuthConfigured: !unconfigured,
	}, verifier, users, movements, refs, logger)
}

func mintToken(t *testing.T, uid string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uid,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
		"email": uid + "@example.com",
		"name":  "User " + uid,
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func do(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rr.Body.String())
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, auth.NewHMACVerifier(testSecret, nil))
	rr := do(t, srv, http.MethodGet, "/api/health", "", "")
	if rr.Code != 200 {
		t.Fatalf("health status=%d", rr.Code)
	}
	body := decode[map[string]string](t, rr)
	if body["status"] != "ok" || body["firebase"] != "configured" {
		t.Fatalf("health body: %v", body)
	}

	srv = newTestServer(t, auth.Unconfigured{})
	rr = do(t, srv, http.MethodGet, "/api/health", "", "")
	if decode[map[string]string](t, rr)["firebase"] != "not_configured" {
		t.Fatalf("expected not_configured: %s", rr.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t, auth.NewHMACVerifier(testSecret, nil))

	rr := do(t, srv, http.MethodGet, "/api/v1/movements", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Authorization header required") {
		t.Fatalf("wrong detail: %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/v1/movements", "garbage", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status=%d", rr.Code)
	}
}

func TestUnconfiguredAuthAnswers503(t *testing.T) {
	srv := newTestServer(t, auth.Unconfigured{})
	rr := do(t, srv, http.MethodGet, "/api/v1/movements", "anything", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", rr.Code)
	}
}

func TestRegisterAndMe(t *testing.T) {
	srv := newTestServer(t, auth.NewHMACVerifier(testSecret, nil))
	token := mintToken(t, "alice")

	rr := do(t, srv, http.MethodPost, "/api/v1/auth/register", token, "")
	if rr.Code != 200 {
		t.Fatalf("register status=%d: %s", rr.Code, rr.Body.String())
	}
	registered := decode[core.User](t, rr)
	if registered.FirebaseUID != "alice" || registered.Email != "alice@example.com" {
		t.Fatalf("registered user wrong: %+v", registered)
	}

	rr = do(t, srv, http.MethodGet, "/api/v1/auth/me", token, "")
	if rr.Code != 200 {
		t.Fatalf("me status=%d", rr.Code)
	}
	if decode[core.User](t, rr).ID != registered.ID {
		t.Fatalf("me returned a different user")
	}
}

func TestMeUnregistered(t *testing.T) {
	srv := newTestServer(t, auth.NewHMACVerifier(testSecret, nil))
	rr := do(t, srv, http.MethodGet, "/api/v1/auth/me", mintToken(t, "ghost"), "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "User not registered") {
		t.Fatalf("wrong detail: %s", rr.Body.String())
	}
}

func TestMovementLifecycle(t *testing.T) {
	srv := newTestServer(t, auth.NewHMACVerifier(testSecret, nil))
	alice := mintToken(t, "alice")
	bob := mintToken(t, "bob")
	do(t, srv, http.MethodPost, "/api/v1/auth/register", alice, "")
	do(t, srv, http.MethodPost, "/api/v1/auth/register", bob, "")

	// Create.
	rr := do(t, srv, http.MethodPost, "/api/v1/movements", alice,
		`{"type":"income","amount":45000,"date":"2026-01-15","description":"Venta de cafe molido"}`)
	if rr.Code != 200 {
		t.Fatalf("create status=%d: %s", rr.Code, rr.Body.String())
	}
	created := decode[core.Movement](t, rr)
	if created.Currency != "CRC" || created.Status != core.StatusPending {
		t.Fatalf("defaults missing: %+v", created)
	}

	// Validation error maps to 422.
	rr = do(t, srv, http.MethodPost, "/api/v1/movements", alice, `{"type":"income"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid draft status=%d", rr.Code)
	}

	// Alice sees it, Bob does not.
	rr = do(t, srv, http.MethodGet, "/api/v1/movements", alice, "")
	if got := decode[[]core.Movement](t, rr); len(got) != 1 {
		t.Fatalf("alice list: %+v", got)
	}
	rr = do(t, srv, http.MethodGet, "/api/v1/movements", bob, "")
	if got := decode[[]core.Movement](t, rr); len(got) != 0 {
		t.Fatalf("bob can see alice's movements: %+v", got)
	}

	// Bob cannot patch or delete it either; same 404 as an absent id.
	rr = do(t, srv, http.MethodPatch, "/api/v1/movements/"+created.ID, bob, `{"status":"classified"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("foreign patch status=%d", rr.Code)
	}
	rr = do(t, srv, http.MethodDelete, "/api/v1/movements/"+created.ID, bob, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status=%d", rr.Code)
	}

	// Alice patches.
	rr = do(t, srv, http.MethodPatch, "/api/v1/movements/"+created.ID, alice, `{"status":"classified"}`)
	if rr.Code != 200 {
		t.Fatalf("patch status=%d: %s", rr.Code, rr.Body.String())
	}
	if decode[core.Movement](t, rr).Status != core.StatusClassified {
		t.Fatalf("patch not applied: %s", rr.Body.String())
	}

	// Alice deletes.
	rr = do(t, srv, http.MethodDelete, "/api/v1/movements/"+created.ID, alice, "")
	if rr.Code != 200 {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if !decode[map[string]bool](t, rr)["deleted"] {
		t.Fatalf("delete body: %s", rr.Body.String())
	}
	rr = do(t, srv, http.MethodDelete, "/api/v1/movements/"+created.ID, alice, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d", rr.Code)
	}
}

func TestKPISummary(t *testing.T) {
	srv := newTestServer(t, auth.NewHMACVerifier(testSecret, nil))
	alice := mintToken(t, "alice")
	do(t, srv, http.MethodPost, "/api/v1/auth/register", alice, "")

	today := time.Now().UTC().Format("2006-01-02")
	do(t, srv, http.MethodPost, "/api/v1/movements", alice,
		`{"type":"income","amount":45000,"date":"`+today+`","status":"classified"}`)
	do(t, srv, http.MethodPost, "/api/v1/movements", alice,
		`{"type":"expense","amount":12000,"date":"`+today+`"}`)

	rr := do(t, srv, http.MethodGet, "/api/v1/kpis/summary", alice, "")
	if rr.Code != 200 {
		t.Fatalf("summary status=%d", rr.Code)
	}
	sum := decode[core.KPISummary](t, rr)
	if sum.TotalIncome != 45000 || sum.TotalExpense != 12000 || sum.Balance != 33000 {
		t.Fatalf("totals wrong: %+v", sum)
	}
	if sum.MovementCount != 2 || sum.PendingCount != 1 {
		t.Fatalf("counts wrong: %+v", sum)
	}

	rr = do(t, srv, http.MethodGet, "/api/v1/kpis/summary?period=today", alice, "")
	if decode[core.KPISummary](t, rr).MovementCount != 2 {
		t.Fatalf("today window dropped today's movements: %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/v1/kpis/summary?period=fortnight", alice, "")
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid period status=%d", rr.Code)
	}
}

func TestReferenceEndpoints(t *testing.T) {
	srv := newTestServer(t, auth.NewHMACVerifier(testSecret, nil))

	rr := do(t, srv, http.MethodPost, "/api/v1/business-units", "", `{"name":"Sucursal Centro","type":"branch"}`)
	if rr.Code != 200 {
		t.Fatalf("create unit status=%d: %s", rr.Code, rr.Body.String())
	}
	if decode[core.BusinessUnit](t, rr).Type != core.UnitBranch {
		t.Fatalf("unit type wrong: %s", rr.Body.String())
	}

	rr = do(t, srv, http.MethodPost, "/api/v1/business-units", "", `{"type":"branch"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("nameless unit status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/api/v1/tags", "", `{"name":"SINPE"}`)
	if rr.Code != 200 {
		t.Fatalf("create tag status=%d", rr.Code)
	}

	rr = do(t, srv, http.MethodGet, "/api/v1/business-units", "", "")
	if got := decode[[]core.BusinessUnit](t, rr); len(got) != 1 {
		t.Fatalf("units list: %+v", got)
	}
	rr = do(t, srv, http.MethodGet, "/api/v1/tags", "", "")
	if got := decode[[]core.Tag](t, rr); len(got) != 1 {
		t.Fatalf("tags list: %+v", got)
	}
}

func TestSeedEndpoint(t *testing.T) {
	srv := newTestServer(t, auth.NewHMACVerifier(testSecret, nil))

	rr := do(t, srv, http.MethodPost, "/api/seed", "", "")
	if rr.Code != 200 {
		t.Fatalf("seed status=%d", rr.Code)
	}
	first := decode[map[string]any](t, rr)
	if first["message"] != "Seed complete" {
		t.Fatalf("first seed body: %v", first)
	}

	rr = do(t, srv, http.MethodPost, "/api/seed", "", "")
	second := decode[map[string]any](t, rr)
	if second["message"] != "Data already seeded" {
		t.Fatalf("second seed body: %v", second)
	}

	// Seeded demo data is ownerless and invisible to scoped listings.
	alice := mintToken(t, "alice")
	do(t, srv, http.MethodPost, "/api/v1/auth/register", alice, "")
	rr = do(t, srv, http.MethodGet, "/api/v1/movements", alice, "")
	if got := decode[[]core.Movement](t, rr); len(got) != 0 {
		t.Fatalf("seed data leaked: %+v", got)
	}
}
