package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	api "github.com/manangupta12/mock-interviews-ai/internal/api/http"
	auth "github.com/manangupta12/mock-interviews-ai/internal/auth/middleware"
	"github.com/manangupta12/mock-interviews-ai/internal/config"
	"github.com/manangupta12/mock-interviews-ai/internal/db"
	"github.com/manangupta12/mock-interviews-ai/internal/interview"
	"github.com/manangupta12/mock-interviews-ai/internal/judge"
	"github.com/manangupta12/mock-interviews-ai/internal/llm"
	"github.com/manangupta12/mock-interviews-ai/internal/questionbank"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	sessions := interview.NewSQLStore(dbh)
	questions := questionbank.NewSQLStore(dbh)

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- LLM + judge ---
	provider, err := llm.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("gemini client: %v", err)
	}
	ctrl := interview.NewController(provider)
	harness := judge.NewHarness(judge.NewClient(cfg.Judge0URL, cfg.Judge0Key))

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", auth.RegisterHandler(authSvc, dbh))
	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Route("/api/interviews", func(ir chi.Router) {
			ir.Post("/start", api.StartInterviewHandler(sessions, questions))
			ir.Get("/sessions", api.ListSessionsHandler(sessions, questions))
			ir.Get("/session/{sessionID}", api.GetSessionHandler(sessions, questions))
			ir.Get("/session/{sessionID}/feedback", api.FeedbackHandler(sessions, questions, ctrl))
			ir.Post("/{sessionID}/chat", api.ChatHandler(sessions, questions, ctrl))
			ir.Post("/{sessionID}/submit-code", api.SubmitCodeHandler(sessions))
			ir.Post("/{sessionID}/complete-coding", api.CompleteCodingHandler(sessions, questions, ctrl))
			ir.Post("/{sessionID}/execute-code", api.ExecuteCodeHandler(sessions, questions, harness))
			ir.Post("/{sessionID}/save-statistics", api.SaveStatisticsHandler(sessions))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	})

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
