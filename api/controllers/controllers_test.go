package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shoplens/insights-backend/api/routes"
	"github.com/shoplens/insights-backend/internal/insights"
	"github.com/shoplens/insights-backend/pkg/config"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"orders.csv": "order_id,customer_id,order_status,order_purchase_timestamp,order_delivered_customer_date\n" +
			"o1,c1,delivered,2024-01-01 10:00:00,2024-01-03 10:00:00\n" +
			"o2,c2,delivered,2024-02-01 10:00:00,2024-02-07 10:00:00\n" +
			"o3,c3,canceled,2024-02-10 10:00:00,NaN\n",
		"order_items.csv": "order_id,order_item_id,product_id,price,freight_value\n" +
			"o1,1,p1,10.0,1.0\no2,1,p2,20.0,2.0\no3,1,p1,30.0,3.0\n",
		"products.csv":  "product_id,product_category_name\np1,toys\np2,books\n",
		"customers.csv": "customer_id,customer_unique_id,customer_state,customer_city,customer_zip_code_prefix\nc1,u1,SP,sao paulo,01310\nc2,u2,RJ,rio,20040\nc3,u3,SP,campinas,13010\n",
		"reviews.csv":   "review_id,order_id,review_score,review_creation_date\nr1,o1,5,2024-01-05 00:00:00\nr2,o2,3,2024-02-09 00:00:00\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	cfg := &config.Config{
		App: config.AppConfig{Env: "development"},
		Data: config.DataConfig{
			Dir:           dir,
			OrdersFile:    "orders.csv",
			ItemsFile:     "order_items.csv",
			ProductsFile:  "products.csv",
			CustomersFile: "customers.csv",
			ReviewsFile:   "reviews.csv",
			StatusFilter:  "delivered",
		},
		Cache: config.CacheConfig{SummaryTTL: time.Minute},
	}
	svc := insights.New(cfg, nil, nil, nil)
	return routes.NewRouter(cfg, nil, svc, nil)
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v\nbody: %s", err, rec.Body.String())
	}
	return envelope.Data
}

func TestHealthLive(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if data := decodeData(t, rec); data["status"] != "live" {
		t.Fatalf("data = %v", data)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("missing request id header")
	}
}

func TestRevenueEndpoint(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/api/v1/metrics/revenue", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	revenue, ok := data["revenue"].(map[string]any)
	if !ok {
		t.Fatalf("revenue payload missing: %v", data)
	}
	if revenue["total_orders"].(float64) != 2 {
		t.Fatalf("total_orders = %v, want 2 delivered", revenue["total_orders"])
	}
}

func TestRevenueRejectsBadYear(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/api/v1/metrics/revenue?start_year=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "VALIDATION_ERROR") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestGrowthEndpoint(t *testing.T) {
	body := `{
		"current_start_year": 2024, "current_end_year": 2024,
		"current_start_month": 2, "current_end_month": 2,
		"previous_start_year": 2024, "previous_end_year": 2024,
		"previous_start_month": 1, "previous_end_month": 1
	}`
	rec := do(t, testRouter(t), http.MethodPost, "/api/v1/metrics/growth", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	revenue := data["revenue"].(map[string]any)
	if revenue["pct_change"].(float64) != 100.0 {
		t.Fatalf("pct_change = %v, want 100", revenue["pct_change"])
	}
}

func TestGrowthValidatesBody(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodPost, "/api/v1/metrics/growth", `{"current_start_year": 2024}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGeographyRejectsUnknownLevel(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/api/v1/metrics/geography?level=continent", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGeographyStateDefault(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/api/v1/metrics/geography", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["level"] != "state" {
		t.Fatalf("level = %v", data["level"])
	}
}

func TestDatasetsEndpoint(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/api/v1/datasets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := decodeData(t, rec)
	datasets, ok := data["datasets"].(map[string]any)
	if !ok || len(datasets) != 5 {
		t.Fatalf("datasets = %v", data["datasets"])
	}
}

func TestSummaryEndpoint(t *testing.T) {
	rec := do(t, testRouter(t), http.MethodGet, "/api/v1/metrics/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	for _, group := range []string{"revenue", "operations", "monthly_trends", "cohorts"} {
		if _, ok := data[group]; !ok {
			t.Fatalf("summary missing %s: %v", group, data)
		}
	}
}

func TestRefreshEndpoint(t *testing.T) {
	router := testRouter(t)
	rec := do(t, router, http.MethodPost, "/api/v1/refresh", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	if data["fingerprint"] == "" {
		t.Fatal("missing fingerprint")
	}

	ready := do(t, router, http.MethodGet, "/health/ready", "")
	if readyData := decodeData(t, ready); readyData["data_prepared"] != true {
		t.Fatalf("data_prepared = %v after refresh", readyData["data_prepared"])
	}
}
