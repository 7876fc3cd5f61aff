package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bpkad-transparency/backend/internal/model"
)

func authToken(t *testing.T, srv *Server) string {
	t.Helper()
	login := doLogin(t, srv, "admin", "plain123")
	if login.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", login.Code, login.Body.String())
	}
	var resp loginResponse
	if err := json.NewDecoder(login.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Data.Token
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestTahunAnggaran_CRUDAndAuthGating(t *testing.T) {
	srv, st := newTestServer(t)
	seedAdmin(t, st, "admin", "plain123")
	token := authToken(t, srv)

	// Writes without a token are rejected.
	rec := doJSON(t, srv, http.MethodPost, "/api/tahun-anggaran", "", map[string]any{"tahun": 2024})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthenticated create, got %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/tahun-anggaran", token, map[string]any{
		"tahun":      2024,
		"keterangan": "APBD murni",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created model.TahunAnggaran
	decodeData(t, rec, &created)
	if created.ID == "" || created.Tahun != 2024 {
		t.Fatalf("unexpected created tahun: %+v", created)
	}

	// Duplicate year conflicts.
	rec = doJSON(t, srv, http.MethodPost, "/api/tahun-anggaran", token, map[string]any{"tahun": 2024})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate year, got %d", rec.Code)
	}

	// Reads are public.
	rec = doJSON(t, srv, http.MethodGet, "/api/tahun-anggaran", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []model.TahunAnggaran
	decodeData(t, rec, &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 year, got %d", len(list))
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/tahun-anggaran/"+created.ID, token, map[string]any{
		"tahun":      2025,
		"keterangan": "perubahan",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/tahun-anggaran/"+created.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/tahun-anggaran/"+created.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for double delete, got %d", rec.Code)
	}
}

func TestTransaksiAndDashboard(t *testing.T) {
	srv, st := newTestServer(t)
	seedAdmin(t, st, "admin", "plain123")
	token := authToken(t, srv)

	var tahun model.TahunAnggaran
	rec := doJSON(t, srv, http.MethodPost, "/api/tahun-anggaran", token, map[string]any{"tahun": 2024})
	decodeData(t, rec, &tahun)

	var pendidikan model.KategoriAPBD
	rec = doJSON(t, srv, http.MethodPost, "/api/kategori-apbd", token, map[string]any{"nama_kategori": "Pendidikan"})
	decodeData(t, rec, &pendidikan)

	// Invalid jenis is a 400.
	rec = doJSON(t, srv, http.MethodPost, "/api/transaksi-apbd", token, map[string]any{
		"tahun_id":    tahun.ID,
		"kategori_id": pendidikan.ID,
		"jenis":       "hibah",
		"uraian":      "x",
		"jumlah":      1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad jenis, got %d", rec.Code)
	}

	for i, tc := range []struct {
		jenis  model.JenisTransaksi
		jumlah int64
	}{
		{model.JenisPendapatan, 5_000_000},
		{model.JenisBelanja, 3_000_000},
		{model.JenisBelanja, 1_000_000},
	} {
		rec = doJSON(t, srv, http.MethodPost, "/api/transaksi-apbd", token, map[string]any{
			"tahun_id":    tahun.ID,
			"kategori_id": pendidikan.ID,
			"jenis":       tc.jenis,
			"uraian":      fmt.Sprintf("transaksi %d", i),
			"jumlah":      tc.jumlah,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create transaksi %d: %d %s", i, rec.Code, rec.Body.String())
		}
	}

	// Unknown tahun_id is a 404.
	rec = doJSON(t, srv, http.MethodPost, "/api/transaksi-apbd", token, map[string]any{
		"tahun_id":    "00000000-0000-0000-0000-000000000000",
		"kategori_id": pendidikan.ID,
		"jenis":       "belanja",
		"uraian":      "x",
		"jumlah":      1,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown tahun, got %d", rec.Code)
	}

	// Public list with a jenis filter.
	rec = doJSON(t, srv, http.MethodGet, "/api/transaksi-apbd?jenis=belanja", "", nil)
	var list []model.TransaksiAPBD
	decodeData(t, rec, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 belanja rows, got %d", len(list))
	}

	// Dashboard aggregates.
	rec = doJSON(t, srv, http.MethodGet, "/api/dashboard?tahun_id="+tahun.ID, "", nil)
	var sum model.DashboardSummary
	decodeData(t, rec, &sum)
	if sum.TotalPendapatan != 5_000_000 || sum.TotalBelanja != 4_000_000 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if len(sum.PerKategori) != 1 || sum.PerKategori[0].NamaKategori != "Pendidikan" {
		t.Fatalf("unexpected per-kategori rollup: %+v", sum.PerKategori)
	}

	// Combined APBD view.
	rec = doJSON(t, srv, http.MethodGet, "/api/apbd", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("apbd view: %d %s", rec.Code, rec.Body.String())
	}
}

func TestHealthAndRoot(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Connected") {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("root: %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/no-such-route", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 fallback, got %d", rec.Code)
	}
}

func TestCORS_RejectsUnlistedOrigin(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unlisted origin, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for allowed origin, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("missing CORS header, got %q", got)
	}
}

func TestRateLimit_DeniesAfterBudget(t *testing.T) {
	memLimited := newRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !memLimited.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if memLimited.Allow("1.2.3.4") {
		t.Fatalf("fourth request should be denied")
	}
	// Other clients are unaffected.
	if !memLimited.Allow("5.6.7.8") {
		t.Fatalf("separate key should have its own bucket")
	}
}
