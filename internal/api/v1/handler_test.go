package v1

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"saleslens/internal/analytics"
	"saleslens/internal/config"
	"saleslens/internal/store"
)

func newTestRouter(t *testing.T, load bool) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "sales.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE orders (orderNumber INTEGER PRIMARY KEY, orderDate TEXT, requiredDate TEXT, shippedDate TEXT, status TEXT, customerNumber INTEGER)`,
		`CREATE TABLE orderdetails (orderNumber INTEGER, productCode TEXT, quantityOrdered INTEGER, priceEach REAL, orderLineNumber INTEGER)`,
		`CREATE TABLE customers (customerNumber INTEGER PRIMARY KEY, customerName TEXT, city TEXT, country TEXT, creditLimit REAL, salesRepEmployeeNumber INTEGER)`,
		`CREATE TABLE products (productCode TEXT PRIMARY KEY, productName TEXT, productLine TEXT)`,
		`CREATE TABLE employees (employeeNumber INTEGER PRIMARY KEY, firstName TEXT, lastName TEXT, jobTitle TEXT, officeCode TEXT)`,
		`CREATE TABLE payments (customerNumber INTEGER, paymentDate TEXT, amount REAL)`,
		`CREATE TABLE offices (officeCode TEXT PRIMARY KEY, city TEXT, country TEXT, territory TEXT)`,
		`INSERT INTO orders VALUES (1, '2024-01-10', '2024-01-20', '2024-01-18', 'Shipped', 100)`,
		`INSERT INTO orders VALUES (2, '2024-02-05', '2024-02-15', '2024-02-12', 'Shipped', 100)`,
		`INSERT INTO orderdetails VALUES (1, 'P1', 3, 100, 1)`,
		`INSERT INTO orderdetails VALUES (2, 'P1', 2, 100, 1)`,
		`INSERT INTO customers VALUES (100, '客户甲', 'Paris', 'France', 50000, 1001)`,
		`INSERT INTO products VALUES ('P1', 'Model Car', 'Classic Cars')`,
		`INSERT INTO employees VALUES (1001, 'Jane', 'Doe', 'Sales Rep', '1')`,
		`INSERT INTO payments VALUES (100, '2024-02-20', 300)`,
		`INSERT INTO offices VALUES ('1', 'Paris', 'France', 'EMEA')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("prepare test db: %v", err)
		}
	}

	st := store.OpenDB(db)
	engine := analytics.NewEngine(config.DefaultConfig().Analytics)
	h := NewHandler(st, engine, t.TempDir())
	if load {
		if err := h.Load(); err != nil {
			t.Fatalf("load datasets: %v", err)
		}
	}

	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	return r, h
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestGetStatus(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := doRequest(t, r, http.MethodGet, "/api/status")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if resp.Code != 0 {
		t.Fatalf("code = %d, want 0", resp.Code)
	}
	data := resp.Data.(map[string]interface{})
	if data["initialized"] != true {
		t.Errorf("initialized = %v, want true", data["initialized"])
	}
	if data["months"].(float64) != 2 {
		t.Errorf("months = %v, want 2", data["months"])
	}
	if data["factRows"].(float64) != 2 {
		t.Errorf("factRows = %v, want 2", data["factRows"])
	}
}

func TestGetStatusBeforeLoad(t *testing.T) {
	r, _ := newTestRouter(t, false)

	w := doRequest(t, r, http.MethodGet, "/api/status")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	data := decodeResponse(t, w).Data.(map[string]interface{})
	if data["initialized"] != false {
		t.Errorf("未加载时 initialized 应为 false")
	}
}

func TestGetDatasetByName(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := doRequest(t, r, http.MethodGet, "/api/datasets/monthly")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	rows := resp.Data.([]interface{})
	if len(rows) != 2 {
		t.Errorf("monthly rows = %d, want 2", len(rows))
	}

	first := rows[0].(map[string]interface{})
	if first["salesMonth"] != "2024-01" {
		t.Errorf("salesMonth = %v, want 2024-01", first["salesMonth"])
	}
}

func TestGetDatasetUnknownName(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := doRequest(t, r, http.MethodGet, "/api/datasets/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if !strings.Contains(resp.Message, "未知数据集") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestGetDatasetsBeforeLoad(t *testing.T) {
	r, _ := newTestRouter(t, false)

	w := doRequest(t, r, http.MethodGet, "/api/datasets")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}

func TestReload(t *testing.T) {
	r, _ := newTestRouter(t, false)

	w := doRequest(t, r, http.MethodPost, "/api/reload")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}

	// 重载后数据集可查
	w = doRequest(t, r, http.MethodGet, "/api/datasets/customers")
	if w.Code != http.StatusOK {
		t.Fatalf("reload 后数据集应可查: %d", w.Code)
	}
}

func TestExportDownloadRoundtrip(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := doRequest(t, r, http.MethodPost, "/api/export")
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	data := decodeResponse(t, w).Data.(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("导出应返回下载令牌")
	}
	fileName, _ := data["fileName"].(string)
	if !strings.HasSuffix(fileName, ".xlsx") {
		t.Errorf("fileName = %q", fileName)
	}

	dl := doRequest(t, r, http.MethodGet, "/api/export/download/"+token)
	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d", dl.Code)
	}
	if dl.Body.Len() == 0 {
		t.Error("下载内容为空")
	}
}

func TestDownloadUnknownToken(t *testing.T) {
	r, _ := newTestRouter(t, true)

	w := doRequest(t, r, http.MethodGet, "/api/export/download/no-such-token")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", w.Code)
	}
}
