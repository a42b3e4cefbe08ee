package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bloomledger/internal/services"
	"bloomledger/internal/store/memory"
)

const testPIN = "199542"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := services.NewTransactionService(memory.New(testPIN), nil)
	srv := NewServer(":0", svc)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, pin, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if pin != "" {
		req.Header.Set(pinHeader, pin)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doJSON(t, srv, http.MethodGet, path, "", "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPost, "/api/login", "", `{"pin":"199542"}`)
	if rr.Code != 200 {
		t.Fatalf("login status=%d, body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/login", "", `{"pin":"000000"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong pin status=%d, want 401", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/login", "", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET login status=%d, want 405", rr.Code)
	}
}

func TestManagementCreateAndList(t *testing.T) {
	srv := newTestServer(t)
	month := time.Now().UTC().Format("2006-01-02")
	body := fmt.Sprintf(`{"type":"income","category":"Studio Income","details":"Portraits","amount":3500,"date":%q,"status":"confirmed","isBusiness":true}`, month)

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", "", body)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("create without pin status=%d, want 401", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/transactions", testPIN, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d, body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID     string  `json:"id"`
		Amount float64 `json:"amount"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" {
		t.Error("created transaction has no id")
	}
	if created.Amount != 3500 {
		t.Errorf("amount = %v, want 3500", created.Amount)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/transactions", testPIN, "")
	if rr.Code != 200 {
		t.Fatalf("list status=%d", rr.Code)
	}
	var listed []transactionDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listed = %d, want 1", len(listed))
	}
}

func TestManagementValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"zero amount", `{"type":"income","category":"Studio Income","amount":0,"status":"confirmed","isBusiness":true}`, http.StatusUnprocessableEntity},
		{"bad type", `{"type":"transfer","category":"Studio Income","amount":10,"status":"confirmed","isBusiness":true}`, http.StatusUnprocessableEntity},
		{"empty category", `{"type":"income","category":"  ","amount":10,"status":"confirmed","isBusiness":true}`, http.StatusUnprocessableEntity},
		{"business with user", `{"type":"income","category":"Studio Income","amount":10,"status":"confirmed","isBusiness":true,"user":"Kelvin"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/transactions", testPIN, tt.body)
			if rr.Code != tt.want {
				t.Errorf("status=%d, want %d, body=%s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestConfirmFlow(t *testing.T) {
	srv := newTestServer(t)
	month := time.Now().UTC().Format("2006-01-02")
	body := fmt.Sprintf(`{"type":"income","category":"Outdoor Events Income","amount":1200,"date":%q,"status":"pending","user":"Kelvin"}`, month)

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", testPIN, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d", rr.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &created)

	rr = doJSON(t, srv, http.MethodPost, "/api/transactions/confirm", testPIN, `{"id":"`+created.ID+`"}`)
	if rr.Code != 200 {
		t.Fatalf("confirm status=%d, body=%s", rr.Code, rr.Body.String())
	}

	// Idempotent second confirm.
	rr = doJSON(t, srv, http.MethodPost, "/api/transactions/confirm", testPIN, `{"id":"`+created.ID+`"}`)
	if rr.Code != 200 {
		t.Fatalf("second confirm status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/transactions/confirm", testPIN, `{"id":"missing"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("confirm unknown id status=%d, want 404", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodPost, "/api/transactions/confirm", "", `{"id":"`+created.ID+`"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("confirm without pin status=%d, want 401", rr.Code)
	}
}

func TestPublicViewAutofill(t *testing.T) {
	srv := newTestServer(t)
	body := `{"type":"expense","category":"Equipment","amount":800,"user":"Brian"}`

	rr := doJSON(t, srv, http.MethodPost, "/api/public/transactions", "", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("public create status=%d, body=%s", rr.Code, rr.Body.String())
	}
	var created transactionDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.IsBusiness {
		t.Error("public transaction should be business-scoped")
	}
	if created.User != "" {
		t.Errorf("public transaction user = %q, want empty", created.User)
	}
	if created.Status != "confirmed" {
		t.Errorf("status = %s, want confirmed", created.Status)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/public/transactions", "", "")
	if rr.Code != 200 {
		t.Fatalf("public list status=%d", rr.Code)
	}
}

func TestPublicSummaryIncludesPendingIncome(t *testing.T) {
	srv := newTestServer(t)
	month := time.Now().UTC().Format("2006-01-02")

	add := func(body string) {
		t.Helper()
		rr := doJSON(t, srv, http.MethodPost, "/api/transactions", testPIN, body)
		if rr.Code != http.StatusCreated {
			t.Fatalf("create status=%d, body=%s", rr.Code, rr.Body.String())
		}
	}
	add(fmt.Sprintf(`{"type":"income","category":"Studio Income","amount":5000,"date":%q,"status":"confirmed","isBusiness":true}`, month))
	add(fmt.Sprintf(`{"type":"income","category":"Outdoor Events Income","amount":1200,"date":%q,"status":"pending","isBusiness":true}`, month))
	add(fmt.Sprintf(`{"type":"expense","category":"Office Rent","amount":1500,"date":%q,"status":"confirmed","isBusiness":true}`, month))

	rr := doJSON(t, srv, http.MethodGet, "/api/public/summary", "", "")
	if rr.Code != 200 {
		t.Fatalf("summary status=%d", rr.Code)
	}
	var sum summaryDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.TotalIncome != 6200 {
		t.Errorf("totalIncome = %v, want 6200 (pending included)", sum.TotalIncome)
	}
	if sum.NetBalance != 3500 {
		t.Errorf("netBalance = %v, want 3500 (confirmed only)", sum.NetBalance)
	}
}

func TestReportsRequirePIN(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/api/reports/summary", "/api/reports/daily", "/api/reports/income-sources", "/api/export"} {
		rr := doJSON(t, srv, http.MethodGet, path, "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s without pin status=%d, want 401", path, rr.Code)
		}
	}
}

func TestDailyReportIsDense(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/reports/daily?year=2024&month=2", testPIN, "")
	if rr.Code != 200 {
		t.Fatalf("daily status=%d", rr.Code)
	}
	var series []dayFlowDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &series); err != nil {
		t.Fatalf("decode series: %v", err)
	}
	if len(series) != 29 {
		t.Errorf("february 2024 days = %d, want 29", len(series))
	}
	for i, d := range series {
		if d.Day != i+1 {
			t.Fatalf("series[%d].day = %d, want %d", i, d.Day, i+1)
		}
	}
}

func TestIncomeSourcesReport(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/reports/income-sources", testPIN, "")
	if rr.Code != 200 {
		t.Fatalf("sources status=%d", rr.Code)
	}
	var splits []sourceSplitDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &splits); err != nil {
		t.Fatalf("decode splits: %v", err)
	}
	if len(splits) != 2 || splits[0].Name != "Studio" || splits[1].Name != "Outdoor" {
		t.Errorf("unexpected splits: %+v", splits)
	}
}

func TestExportFormats(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		query       string
		contentType string
	}{
		{"", "text/csv"},
		{"?format=csv", "text/csv"},
		{"?format=pdf", "application/pdf"},
		{"?format=xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	}
	for _, tt := range tests {
		rr := doJSON(t, srv, http.MethodGet, "/api/export"+tt.query, testPIN, "")
		if rr.Code != 200 {
			t.Errorf("export%s status=%d", tt.query, rr.Code)
			continue
		}
		if got := rr.Header().Get("Content-Type"); got != tt.contentType {
			t.Errorf("export%s content type = %s, want %s", tt.query, got, tt.contentType)
		}
	}

	rr := doJSON(t, srv, http.MethodGet, "/api/export?format=docx", testPIN, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown format status=%d, want 400", rr.Code)
	}
}

func TestLegacyEpochPairDates(t *testing.T) {
	srv := newTestServer(t)
	now := time.Now().UTC()
	body := fmt.Sprintf(`{"type":"income","category":"Studio Income","amount":100,"date":{"_seconds":%d,"_nanoseconds":500},"status":"confirmed","isBusiness":true}`, now.Unix())

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", testPIN, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d, body=%s", rr.Code, rr.Body.String())
	}
	var created transactionDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Date.Valid {
		t.Fatal("epoch pair date should resolve")
	}
	if got := created.Date.Time.Unix(); got != now.Unix() {
		t.Errorf("date unix = %d, want %d", got, now.Unix())
	}
}

func TestUnparseableDateDegradesToNull(t *testing.T) {
	srv := newTestServer(t)
	body := `{"type":"expense","category":"Misc","amount":50,"date":"not-a-date","status":"confirmed","isBusiness":true}`

	rr := doJSON(t, srv, http.MethodPost, "/api/transactions", testPIN, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d, body=%s", rr.Code, rr.Body.String())
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["date"]) != "null" {
		t.Errorf("date = %s, want null", raw["date"])
	}
}

func TestSummaryCacheInvalidation(t *testing.T) {
	srv := newTestServer(t)
	month := time.Now().UTC().Format("2006-01-02")

	// Prime the cache.
	rr := doJSON(t, srv, http.MethodGet, "/api/public/summary", "", "")
	if rr.Code != 200 {
		t.Fatalf("summary status=%d", rr.Code)
	}

	body := fmt.Sprintf(`{"type":"income","category":"Studio Income","amount":1000,"date":%q,"status":"confirmed","isBusiness":true}`, month)
	rr = doJSON(t, srv, http.MethodPost, "/api/transactions", testPIN, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/public/summary", "", "")
	var sum summaryDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.ConfirmedIncome != 1000 {
		t.Errorf("confirmedIncome = %v, want 1000 after write", sum.ConfirmedIncome)
	}
}
