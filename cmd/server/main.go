// Package main runs the SchemeBot HTTP chat API. Each session is one
// conversation; the engine behind it is shared by every session.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"schemebot/internal/config"
	"schemebot/internal/models"
	"schemebot/internal/services/catalog"
	"schemebot/internal/services/conversation"
	"schemebot/internal/services/database"
	"schemebot/internal/services/extract"
	"schemebot/internal/services/notify"
	"schemebot/internal/services/oracle"
	"schemebot/internal/services/recommend"
	"schemebot/internal/utils"
)

// Server holds all dependencies
type Server struct {
	db         *database.DB
	manager    *conversation.Manager
	catalog    *catalog.Catalog
	schemeRepo *database.SchemeRepository
	reportRepo *database.ReportRepository
	notifier   *notify.Service
	config     *config.Config
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ChatRequest is one user turn sent to the bot.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatResponse carries the bot's reply plus the session id so clients
// started without one can keep it.
type ChatResponse struct {
	SessionID string                `json:"session_id"`
	Reply     string                `json:"reply"`
	Stage     conversation.Stage    `json:"stage"`
	Profile   models.ProfileSummary `json:"profile"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()
	logger := utils.Logger

	ctx := context.Background()

	// The database is only tried when DB settings were set explicitly;
	// a failed connection falls back rather than aborting startup.
	var (
		db         *database.DB
		schemeRepo *database.SchemeRepository
		reportRepo *database.ReportRepository
	)
	if os.Getenv("DB_HOST") != "" || os.Getenv("DB_PASSWORD") != "" {
		db, err = database.New(cfg)
		if err != nil {
			log.Printf("Warning: Could not connect to database: %v", err)
			log.Println("Server will use the bundled catalog")
			db = nil
		}
	}
	if db != nil {
		schemeRepo = database.NewSchemeRepository(db)
		reportRepo = database.NewReportRepository(db)
		if err := schemeRepo.EnsureSchema(ctx); err != nil {
			logger.Warn("Schemes table unavailable", zap.Error(err))
			schemeRepo = nil
		}
		if err := reportRepo.EnsureSchema(ctx); err != nil {
			logger.Warn("Report tables unavailable, reports will not be stored", zap.Error(err))
			reportRepo = nil
		}
	}

	// Catalog source: the database when it holds schemes, a catalog
	// file when configured, the embedded seed otherwise.
	var source catalog.Source = catalog.SeedSource{}
	if cfg.CatalogPath != "" {
		source = catalog.FileSource{Path: cfg.CatalogPath}
	}
	if schemeRepo != nil {
		source = schemeRepo
	}

	cat, err := catalog.Load(ctx, source, logger)
	if err != nil && schemeRepo != nil {
		// An unseeded database is not fatal, the bundled catalog works.
		logger.Warn("Database catalog unusable, using the bundled catalog", zap.Error(err))
		source = catalog.SeedSource{}
		if cfg.CatalogPath != "" {
			source = catalog.FileSource{Path: cfg.CatalogPath}
		}
		cat, err = catalog.Load(ctx, source, logger)
	}
	if err != nil {
		logger.Fatal("Catalog failed to load", zap.Error(err))
	}
	logger.Info("Catalog ready", zap.Int("schemes", cat.Len()))

	var completer oracle.Completer
	if cfg.OracleEnabled() {
		gemini, err := oracle.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Gemini unavailable, extraction will use patterns only", zap.Error(err))
		} else {
			completer = gemini
			logger.Info("Extraction oracle ready", zap.String("model", gemini.Model()))
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, extraction will use patterns only")
	}

	recommender := recommend.NewService(cat, logger)
	manager := conversation.NewManager(conversation.Deps{
		Extractor:   extract.New(completer, logger),
		Recommender: recommender,
		Config:      cfg,
		Logger:      logger,
	})

	var notifier *notify.Service
	if cfg.NotifierEnabled() {
		notifier, err = notify.NewService(ctx, cfg, logger)
		if err != nil {
			logger.Warn("Notifier unavailable, match reports will not be emailed", zap.Error(err))
		}
	}

	server := &Server{
		db:         db,
		manager:    manager,
		catalog:    cat,
		schemeRepo: schemeRepo,
		reportRepo: reportRepo,
		notifier:   notifier,
		config:     cfg,
	}

	go func() {
		interval := cfg.SessionTimeout
		if interval <= 0 {
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			manager.Sweep(2 * cfg.SessionTimeout)
		}
	}()

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("/health", server.healthHandler)
	mux.HandleFunc("/api/health", server.healthHandler)

	mux.HandleFunc("/api/chat", server.chatHandler)
	mux.HandleFunc("/api/reset", server.resetHandler)

	mux.HandleFunc("/api/schemes", server.schemesHandler)
	mux.HandleFunc("/api/schemes/", server.schemeDetailHandler)

	mux.HandleFunc("/api/reports", server.reportsHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(requestLogger(logger, mux))

	port := getEnvOrDefault("PORT", fmt.Sprintf("%d", cfg.Port))
	addr := fmt.Sprintf("0.0.0.0:%s", port)

	log.Printf("SchemeBot API Server")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("Chat: POST http://localhost:%s/api/chat", port)
	log.Printf("Health: http://localhost:%s/health", port)
	log.Println("")

	// Start server (this blocks until error)
	log.Printf("Starting HTTP server on %s...", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "not configured"
	if s.db != nil {
		dbStatus = "connected"
		if err := s.db.HealthCheck(r.Context()); err != nil {
			dbStatus = "disconnected"
		}
	}

	oracleStatus := "disabled"
	if s.config.OracleEnabled() {
		oracleStatus = "enabled"
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "SchemeBot API is running",
		Data: map[string]interface{}{
			"status":    "healthy",
			"schemes":   s.catalog.Len(),
			"sessions":  s.manager.Len(),
			"oracle":    oracleStatus,
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
		},
	})
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	session := s.manager.GetOrCreate(req.SessionID)
	wasMatched := session.Stage() == conversation.StageMatched

	reply := session.Handle(r.Context(), req.Message)

	if !wasMatched && reply.Stage == conversation.StageMatched {
		if report := session.Report(); report != nil {
			go s.deliverReport(report)
		}
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: ChatResponse{
			SessionID: session.ID(),
			Reply:     reply.Text,
			Stage:     reply.Stage,
			Profile:   reply.Profile,
		},
	})
}

func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	session := s.manager.GetOrCreate(req.SessionID)
	reply := session.Reset()

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: ChatResponse{
			SessionID: session.ID(),
			Reply:     reply.Text,
			Stage:     reply.Stage,
			Profile:   reply.Profile,
		},
	})
}

func (s *Server) schemesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Data:    s.catalog.Summaries(),
		})

	case http.MethodPost:
		s.upsertSchemeHandler(w, r)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// upsertSchemeHandler stores a scheme record in the database. The
// served catalog stays as loaded at startup; a restart picks the
// change up.
func (s *Server) upsertSchemeHandler(w http.ResponseWriter, r *http.Request) {
	if s.schemeRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Catalog storage is not configured",
		})
		return
	}

	var scheme models.Scheme
	if err := json.NewDecoder(r.Body).Decode(&scheme); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}
	if err := scheme.ValidateIntegrity(); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	if err := s.schemeRepo.Upsert(r.Context(), &scheme); err != nil {
		utils.Logger.Error("Scheme upsert failed",
			zap.String("scheme_id", scheme.ID),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to store scheme",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Scheme stored. It is served after the next restart.",
	})
}

func (s *Server) schemeDetailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/schemes/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Unknown scheme",
		})
		return
	}

	scheme, ok := s.catalog.Get(id)
	if !ok {
		scheme, ok = s.catalog.FindByName(id)
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   fmt.Sprintf("No scheme with id %q", id),
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    scheme,
	})
}

func (s *Server) reportsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.reportRepo == nil {
		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Data:    []models.ReportSummary{},
		})
		return
	}

	reports, err := s.reportRepo.RecentReports(r.Context(), 100)
	if err != nil {
		utils.Logger.Error("Report listing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch reports",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    reports,
	})
}

// deliverReport stores and emails a freshly generated match report.
// Runs outside the request so slow SES calls never delay the chat
// reply.
func (s *Server) deliverReport(report *models.MatchReport) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.reportRepo != nil {
		if _, err := s.reportRepo.SaveReport(ctx, report); err != nil {
			utils.Logger.Error("Match report not stored",
				zap.String("session_id", report.SessionID),
				zap.Error(err),
			)
		}
	}

	if s.notifier == nil {
		return
	}

	record, err := s.notifier.SendMatchReport(ctx, report)
	if err != nil {
		utils.Logger.Error("Match report email failed",
			zap.String("session_id", report.SessionID),
			zap.Error(err),
		)
	}
	if s.reportRepo != nil && record != nil {
		if err := s.reportRepo.RecordNotification(ctx, record); err != nil {
			utils.Logger.Error("Notification record not stored",
				zap.String("session_id", report.SessionID),
				zap.Error(err),
			)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
