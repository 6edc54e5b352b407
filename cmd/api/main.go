package main

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/craftlocal/leadflow/internal/config"
	"github.com/craftlocal/leadflow/internal/infra/database"
	"github.com/craftlocal/leadflow/internal/infra/directory"
	"github.com/craftlocal/leadflow/internal/infra/http/handlers"
	"github.com/craftlocal/leadflow/internal/infra/http/middleware"
	"github.com/craftlocal/leadflow/internal/infra/integration/imagehost"
	"github.com/craftlocal/leadflow/internal/infra/mail"
	"github.com/craftlocal/leadflow/internal/usecase"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	// 1. Store and repository
	store := database.NewLeadStore(cfg.DataFile)
	leadRepo := database.NewLeadRepository(store)

	// 2. Gateways and adapters
	imageHost := imagehost.NewClient(cfg.ImageHostURL, cfg.ImageHostToken, cfg.ImageHostSecret)

	var notifier usecase.LeadNotifier
	if cfg.SMTPHost != "" && cfg.NotifyTo != "" {
		notifier = mail.NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.NotifyFrom, cfg.NotifyTo)
	}

	// 3. Phone directory
	dir := directory.New(cfg.DirectoryEntries)
	dir.Register(directory.Business{
		Name:    cfg.BusinessName,
		Phone:   cfg.BusinessPhone,
		FormURL: cfg.FormURL,
	})

	// 4. Use cases
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, notifier)
	updateLeadUC := usecase.NewUpdateLeadUseCase(leadRepo)
	attachPhotosUC := usecase.NewAttachPhotosUseCase(leadRepo)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(createLeadUC, updateLeadUC, leadRepo)
	photoHandler := handlers.NewPhotoHandler(imageHost, attachPhotosUC)
	webhookHandler := handlers.NewWebhookHandler(dir)
	healthHandler := handlers.NewHealthHandler(store, cfg.ImageHostURL, cfg.SMTPHost)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "x-admin-password"},
	}))

	r.Post("/api/submit-lead", leadHandler.HandleSubmit)
	r.Post("/api/upload-photos", photoHandler.HandleUpload)
	r.Post("/api/update-lead-photos", photoHandler.HandleAttach)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.AdminPassword))
		r.Get("/api/leads", leadHandler.HandleList)
		r.Put("/api/leads/{id}/status", leadHandler.HandleSetStatus)
		r.Put("/api/leads/{id}", leadHandler.HandleUpdate)
		r.Get("/api/debug-lead/{id}", leadHandler.HandleDebug)
	})

	r.Post("/sms-webhook", webhookHandler.HandleSMS)
	r.Post("/voice-webhook", webhookHandler.HandleVoice)

	r.Get("/healthz", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(cfg.PublicDir, "index.html"))
	})
	r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(cfg.PublicDir, "admin.html"))
	})

	addr := ":" + cfg.Port
	log.Printf("Leadflow running on %s (data file %s)", addr, cfg.DataFile)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}
