package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/Raushanritik30891/zyro-sub000/internal/domain/user"
	"github.com/Raushanritik30891/zyro-sub000/internal/infrastructure/repository/memory"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/cache"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/id"
	"github.com/Raushanritik30891/zyro-sub000/internal/platform/logging"
	"github.com/Raushanritik30891/zyro-sub000/internal/usecase"
)

type staticVerifier struct {
	principals map[string]user.Principal
}

func (v *staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v.principals[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewLedgerStore()
	accounts := memory.NewAccountRepository()
	purchases := memory.NewPurchaseRepository(accounts)
	logger := logging.NewNop()

	leaderboard := usecase.NewLeaderboardService(store, cache.NewStore(time.Minute))
	ingestion := usecase.NewIngestionService(store, nil, leaderboard, logger)
	revert := usecase.NewRevertService(store, leaderboard, logger)
	points := usecase.NewPointsService(accounts, purchases, id.NewRandomGenerator(), logger)
	profile := usecase.NewProfileService(accounts, logger)
	export := usecase.NewExportService(store, purchases, 2, logger)

	handler := NewHandler(leaderboard, ingestion, revert, points, profile, export, logger)
	verifier := &staticVerifier{principals: map[string]user.Principal{
		"admin-token": {UserID: "admin-1", Name: "Admin", Admin: true},
		"user-token":  {UserID: "user-1", Name: "Player"},
	}}

	return NewRouter(handler, verifier, logger, []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
	}
	return rec, envelope
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, _ := envelope["data"].(map[string]any)
	if got, _ := data["status"].(string); got != "ok" {
		t.Fatalf("unexpected health payload: %v", envelope)
	}
}

func TestRouter_IngestThenPublishedLeaderboard(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"lobby":"35","window":"WEEKLY","rows":[{"team_name":"Alpha","kills":8},{"team_name":"Bravo","kills":5,"points":120}]}`
	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/admin/ingest", "admin-token", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %v", rec.Code, envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	if got, _ := data["teamCount"].(float64); got != 2 {
		t.Fatalf("expected teamCount=2, got %v", data["teamCount"])
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/leaderboard/35/WEEKLY", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, _ = envelope["data"].(map[string]any)
	entries, _ := data["entries"].([]any)
	if len(entries) != 2 {
		t.Fatalf("expected 2 leaderboard entries, got %d", len(entries))
	}
	first, _ := entries[0].(map[string]any)
	if got, _ := first["teamName"].(string); got != "Bravo" {
		t.Fatalf("expected Bravo (120 pts) ranked first, got %v", first["teamName"])
	}
	if got, _ := first["rank"].(float64); got != 1 {
		t.Fatalf("expected rank 1, got %v", first["rank"])
	}
}

func TestRouter_AdminRoutesRejectNonAdmin(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"lobby":"35","window":"WEEKLY","rows":[{"team_name":"Alpha","kills":8}]}`
	rec, _ := doJSON(t, router, http.MethodPost, "/v1/admin/ingest", "user-token", payload)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for non-admin, got %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/v1/admin/ingest", "", payload)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for anonymous, got %d", rec.Code)
	}
}

func TestRouter_UnknownWindowRejected(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/v1/leaderboard/35/DAILY", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown window, got %d", rec.Code)
	}
}

func TestRouter_PurchaseLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/me/purchase-requests", "user-token", `{"amount":50000,"points_requested":500}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %v", rec.Code, envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	orderID, _ := data["order_id"].(string)
	if orderID == "" {
		t.Fatalf("expected an order id, got %v", data)
	}
	if got, _ := data["status"].(string); got != "PENDING" {
		t.Fatalf("expected PENDING status, got %v", data["status"])
	}

	rec, envelope = doJSON(t, router, http.MethodPost, "/v1/admin/purchase-requests/"+orderID+"/approve", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %v", rec.Code, envelope)
	}
	data, _ = envelope["data"].(map[string]any)
	if applied, _ := data["applied"].(bool); !applied {
		t.Fatalf("expected decision to be applied, got %v", data)
	}

	// A second approve is a no-op; the credit must not double.
	rec, envelope = doJSON(t, router, http.MethodPost, "/v1/admin/purchase-requests/"+orderID+"/approve", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, _ = envelope["data"].(map[string]any)
	if applied, _ := data["applied"].(bool); applied {
		t.Fatalf("expected repeat decision to be a no-op")
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/me/account", "user-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, _ = envelope["data"].(map[string]any)
	if got, _ := data["points_balance"].(float64); got != 500 {
		t.Fatalf("expected balance 500 after single credit, got %v", data["points_balance"])
	}
}

func TestRouter_RedeemWithoutBalanceFails(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/me/premium/redeem", "user-token", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %v", rec.Code, envelope)
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "FAILED_PRECONDITION" {
		t.Fatalf("expected FAILED_PRECONDITION, got %v", errorObj["status"])
	}
}

func TestRouter_ProfileEditCooldown(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"display_name":"Raven","in_game_id":"raven#001","team_roster":["A","B"]}`
	rec, _ := doJSON(t, router, http.MethodPut, "/v1/me/profile", "user-token", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first edit to succeed, got %d", rec.Code)
	}

	rec, envelope := doJSON(t, router, http.MethodPut, "/v1/me/profile", "user-token", payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected second edit inside cooldown to fail, got %d", rec.Code)
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "FAILED_PRECONDITION" {
		t.Fatalf("expected FAILED_PRECONDITION, got %v", errorObj["status"])
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/me/profile/edit-status", "user-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, _ := envelope["data"].(map[string]any)
	if allowed, _ := data["allowed"].(bool); allowed {
		t.Fatalf("expected edit to be locked right after an edit")
	}
}

func TestRouter_ImageIngestWithoutExtractor(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/ingest/image?lobby=35&window=WEEKLY", strings.NewReader("fake-image-bytes"))
	req.Header.Set("Authorization", "Bearer admin-token")
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 when no extractor is wired, got %d", rec.Code)
	}
}

func TestRouter_RevertRestoresEmptyPartition(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"lobby":"45","window":"MONTHLY","rows":[{"team_name":"Alpha","kills":3}]}`
	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/admin/ingest", "admin-token", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	data, _ := envelope["data"].(map[string]any)
	batchID, _ := data["batchId"].(string)
	if batchID == "" {
		t.Fatalf("expected a batch id, got %v", data)
	}

	rec, envelope = doJSON(t, router, http.MethodPost, "/v1/admin/batches/"+batchID+"/revert", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %v", rec.Code, envelope)
	}
	data, _ = envelope["data"].(map[string]any)
	if reverted, _ := data["reverted"].(bool); !reverted {
		t.Fatalf("expected batch to be reverted, got %v", data)
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/leaderboard/45/MONTHLY", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, _ = envelope["data"].(map[string]any)
	entries, _ := data["entries"].([]any)
	if len(entries) != 0 {
		t.Fatalf("expected empty leaderboard after revert, got %d entries", len(entries))
	}
}

func TestRouter_ExportBackup(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"lobby":"55","window":"WEEKLY","rows":[{"team_name":"Zulu","kills":7}]}`
	rec, _ := doJSON(t, router, http.MethodPost, "/v1/admin/ingest", "admin-token", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/admin/export/backup", "admin-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %v", rec.Code, envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	partitions, _ := data["partitions"].([]any)
	if len(partitions) != 6 {
		t.Fatalf("expected 6 partitions in backup, got %d", len(partitions))
	}
}
