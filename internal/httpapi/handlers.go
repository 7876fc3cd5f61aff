package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"bpkad-transparency/backend/internal/model"
	"bpkad-transparency/backend/internal/store"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "Route not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "API Backend BPKAD Transparansi Keuangan",
		"version":     "1.0.0",
		"status":      "Aktif",
		"database":    "PostgreSQL",
		"environment": s.cfg.Environment,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":   "ERROR",
			"database": "Disconnected",
			"error":    err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"database":  "Connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sum, err := s.store.DashboardSummary(r.Context(), r.URL.Query().Get("tahun_id"))
	if err != nil {
		s.log.WithError(err).Error("dashboard summary failed")
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	writeData(w, http.StatusOK, sum)
}

// handleAPBD serves the combined per-year view: the year plus its category
// breakdown, one entry per budget year.
func (s *Server) handleAPBD(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tahun, err := s.store.ListTahun(r.Context())
	if err != nil {
		s.log.WithError(err).Error("apbd: list tahun failed")
		writeError(w, http.StatusInternalServerError, "Failed to load APBD data")
		return
	}

	type apbdEntry struct {
		Tahun       model.TahunAnggaran   `json:"tahun"`
		Pendapatan  int64                 `json:"total_pendapatan"`
		Belanja     int64                 `json:"total_belanja"`
		PerKategori []model.KategoriTotal `json:"per_kategori"`
	}

	out := make([]apbdEntry, 0, len(tahun))
	for _, t := range tahun {
		sum, err := s.store.DashboardSummary(r.Context(), t.ID)
		if err != nil {
			s.log.WithError(err).Error("apbd: summary failed")
			writeError(w, http.StatusInternalServerError, "Failed to load APBD data")
			return
		}
		out = append(out, apbdEntry{
			Tahun:       t,
			Pendapatan:  sum.TotalPendapatan,
			Belanja:     sum.TotalBelanja,
			PerKategori: sum.PerKategori,
		})
	}
	writeData(w, http.StatusOK, out)
}

type tahunRequest struct {
	Tahun      int    `json:"tahun"`
	Keterangan string `json:"keterangan"`
}

func (s *Server) handleTahunCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.store.ListTahun(r.Context())
		if err != nil {
			s.log.WithError(err).Error("list tahun failed")
			writeError(w, http.StatusInternalServerError, "Failed to load tahun anggaran")
			return
		}
		writeData(w, http.StatusOK, list)

	case http.MethodPost:
		var req tahunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.Tahun < 2000 || req.Tahun > 2100 {
			writeError(w, http.StatusBadRequest, "tahun must be a plausible year")
			return
		}
		created, err := s.store.CreateTahun(r.Context(), model.TahunAnggaran{
			Tahun:      req.Tahun,
			Keterangan: req.Keterangan,
		})
		if err != nil {
			s.writeStoreError(w, err, "tahun anggaran")
			return
		}
		writeData(w, http.StatusCreated, created)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTahunItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodPut:
		var req tahunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.Tahun < 2000 || req.Tahun > 2100 {
			writeError(w, http.StatusBadRequest, "tahun must be a plausible year")
			return
		}
		updated, err := s.store.UpdateTahun(r.Context(), model.TahunAnggaran{
			ID:         id,
			Tahun:      req.Tahun,
			Keterangan: req.Keterangan,
		})
		if err != nil {
			s.writeStoreError(w, err, "tahun anggaran")
			return
		}
		writeData(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.store.DeleteTahun(r.Context(), id); err != nil {
			s.writeStoreError(w, err, "tahun anggaran")
			return
		}
		writeMessage(w, http.StatusOK, "Deleted", nil)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type kategoriRequest struct {
	NamaKategori string `json:"nama_kategori"`
	Deskripsi    string `json:"deskripsi"`
}

func (s *Server) handleKategoriCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.store.ListKategori(r.Context())
		if err != nil {
			s.log.WithError(err).Error("list kategori failed")
			writeError(w, http.StatusInternalServerError, "Failed to load kategori")
			return
		}
		writeData(w, http.StatusOK, list)

	case http.MethodPost:
		var req kategoriRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.NamaKategori == "" {
			writeError(w, http.StatusBadRequest, "nama_kategori is required")
			return
		}
		created, err := s.store.CreateKategori(r.Context(), model.KategoriAPBD{
			NamaKategori: req.NamaKategori,
			Deskripsi:    req.Deskripsi,
		})
		if err != nil {
			s.writeStoreError(w, err, "kategori")
			return
		}
		writeData(w, http.StatusCreated, created)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleKategoriItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodPut:
		var req kategoriRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if req.NamaKategori == "" {
			writeError(w, http.StatusBadRequest, "nama_kategori is required")
			return
		}
		updated, err := s.store.UpdateKategori(r.Context(), model.KategoriAPBD{
			ID:           id,
			NamaKategori: req.NamaKategori,
			Deskripsi:    req.Deskripsi,
		})
		if err != nil {
			s.writeStoreError(w, err, "kategori")
			return
		}
		writeData(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.store.DeleteKategori(r.Context(), id); err != nil {
			s.writeStoreError(w, err, "kategori")
			return
		}
		writeMessage(w, http.StatusOK, "Deleted", nil)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type transaksiRequest struct {
	TahunID    string               `json:"tahun_id"`
	KategoriID string               `json:"kategori_id"`
	Jenis      model.JenisTransaksi `json:"jenis"`
	Uraian     string               `json:"uraian"`
	Jumlah     int64                `json:"jumlah"`
	Tanggal    time.Time            `json:"tanggal"`
}

func (r transaksiRequest) validate() string {
	if r.TahunID == "" {
		return "tahun_id is required"
	}
	if r.KategoriID == "" {
		return "kategori_id is required"
	}
	if !r.Jenis.Valid() {
		return "jenis must be pendapatan or belanja"
	}
	if r.Uraian == "" {
		return "uraian is required"
	}
	if r.Jumlah < 0 {
		return "jumlah must not be negative"
	}
	return ""
}

func (s *Server) handleTransaksiCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		list, err := s.store.ListTransaksi(r.Context(), store.TransaksiFilter{
			TahunID:    q.Get("tahun_id"),
			KategoriID: q.Get("kategori_id"),
			Jenis:      model.JenisTransaksi(q.Get("jenis")),
		})
		if err != nil {
			s.log.WithError(err).Error("list transaksi failed")
			writeError(w, http.StatusInternalServerError, "Failed to load transaksi")
			return
		}
		writeData(w, http.StatusOK, list)

	case http.MethodPost:
		var req transaksiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		created, err := s.store.CreateTransaksi(r.Context(), model.TransaksiAPBD{
			TahunID:    req.TahunID,
			KategoriID: req.KategoriID,
			Jenis:      req.Jenis,
			Uraian:     req.Uraian,
			Jumlah:     req.Jumlah,
			Tanggal:    req.Tanggal,
		})
		if err != nil {
			s.writeStoreError(w, err, "transaksi")
			return
		}
		writeData(w, http.StatusCreated, created)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTransaksiItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		tr, err := s.store.GetTransaksi(r.Context(), id)
		if err != nil {
			s.writeStoreError(w, err, "transaksi")
			return
		}
		writeData(w, http.StatusOK, tr)

	case http.MethodPut:
		var req transaksiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		updated, err := s.store.UpdateTransaksi(r.Context(), model.TransaksiAPBD{
			ID:         id,
			TahunID:    req.TahunID,
			KategoriID: req.KategoriID,
			Jenis:      req.Jenis,
			Uraian:     req.Uraian,
			Jumlah:     req.Jumlah,
			Tanggal:    req.Tanggal,
		})
		if err != nil {
			s.writeStoreError(w, err, "transaksi")
			return
		}
		writeData(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.store.DeleteTransaksi(r.Context(), id); err != nil {
			s.writeStoreError(w, err, "transaksi")
			return
		}
		writeMessage(w, http.StatusOK, "Deleted", nil)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleMethodNotAllowed keeps 405s inside the JSON envelope; the mux would
// otherwise answer method-qualified patterns with a plain-text 405.
func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error, entity string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, entity+" not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, entity+" already exists")
	default:
		s.log.WithError(err).Error(entity + " store error")
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
