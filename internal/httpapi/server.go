package httpapi

import (
	"context"
	"net/http"
	"time"

	"bpkad-transparency/backend/internal/auth"
	"bpkad-transparency/backend/internal/config"
	"bpkad-transparency/backend/internal/store"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Server struct {
	cfg     config.Config
	store   store.Store
	tokens  *auth.TokenService
	log     *logrus.Logger
	limiter *rateLimiter
	mux     *http.ServeMux
}

func NewServer(cfg config.Config, st store.Store, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	s := &Server{
		cfg:    cfg,
		store:  st,
		tokens: auth.NewTokenService(cfg.JWTSecret),
		log:    log,
		limiter: newRateLimiter(
			cfg.RateLimitMax,
			time.Duration(cfg.RateLimitWindowMinutes)*time.Minute,
		),
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// StartRateLimitCleanup prunes idle rate-limit buckets until ctx is cancelled.
func (s *Server) StartRateLimitCleanup(ctx context.Context) {
	s.limiter.StartCleanup(ctx)
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = gzipMiddleware(h)
	h = bodyLimitMiddleware(h)
	h = rateLimitMiddleware(s.limiter, h)
	h = corsMiddleware(s.cfg.AllowedOrigins, h)
	h = metricsMiddleware(h)
	h = loggingMiddleware(s.log, h)
	h = securityHeadersMiddleware(h)
	h = requestIDMiddleware(h)
	h = s.recoverMiddleware(h)
	return h
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())

	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/verify", s.requireAuth(s.handleAuthVerify))
	s.mux.HandleFunc("/api/auth/logout", s.requireAuth(s.handleLogout))

	s.mux.HandleFunc("/api/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/api/apbd", s.handleAPBD)

	s.mux.HandleFunc("GET /api/tahun-anggaran", s.handleTahunCollection)
	s.mux.HandleFunc("POST /api/tahun-anggaran", s.requireAuth(s.handleTahunCollection))
	s.mux.HandleFunc("/api/tahun-anggaran", s.handleMethodNotAllowed)
	s.mux.HandleFunc("/api/tahun-anggaran/{id}", s.requireAuth(s.handleTahunItem))

	s.mux.HandleFunc("GET /api/kategori-apbd", s.handleKategoriCollection)
	s.mux.HandleFunc("POST /api/kategori-apbd", s.requireAuth(s.handleKategoriCollection))
	s.mux.HandleFunc("/api/kategori-apbd", s.handleMethodNotAllowed)
	s.mux.HandleFunc("/api/kategori-apbd/{id}", s.requireAuth(s.handleKategoriItem))

	s.mux.HandleFunc("GET /api/transaksi-apbd", s.handleTransaksiCollection)
	s.mux.HandleFunc("POST /api/transaksi-apbd", s.requireAuth(s.handleTransaksiCollection))
	s.mux.HandleFunc("/api/transaksi-apbd", s.handleMethodNotAllowed)
	s.mux.HandleFunc("GET /api/transaksi-apbd/{id}", s.handleTransaksiItem)
	s.mux.HandleFunc("PUT /api/transaksi-apbd/{id}", s.requireAuth(s.handleTransaksiItem))
	s.mux.HandleFunc("DELETE /api/transaksi-apbd/{id}", s.requireAuth(s.handleTransaksiItem))
	s.mux.HandleFunc("/api/transaksi-apbd/{id}", s.handleMethodNotAllowed)
}
