package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"rfpflow/db"
	"rfpflow/db/migrations"
	"rfpflow/internal/ai"
	"rfpflow/internal/config"
	"rfpflow/internal/handlers"
	"rfpflow/internal/mailer"
	"rfpflow/internal/service"
	logx "rfpflow/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("cannot load config")
	}
	logx.Init(cfg.Environment)

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		logx.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer dbConn.Close()

	migrations.Run(cfg.PostgresConn)

	store := db.NewStorage(dbConn)
	extractor := ai.NewExtractor(ai.Config{
		APIKey:          cfg.OpenAIAPIKey,
		ExtractionModel: cfg.ExtractionModel,
		ComparisonModel: cfg.ComparisonModel,
		ExtractionTemp:  cfg.ExtractionTemp,
		ComparisonTemp:  cfg.ComparisonTemp,
	})
	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.MailFrom,
	})
	inbox := mailer.NewIMAPOpener(mailer.IMAPConfig{
		Host:    cfg.IMAPHost,
		User:    cfg.IMAPUser,
		Pass:    cfg.IMAPPass,
		Mailbox: cfg.IMAPMailbox,
	})

	svc := service.New(store, extractor, sender, inbox)
	h := handlers.NewHandler(store, svc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)
		// RFP
		r.Post("/rfps/from-text", h.CreateRfpFromTextHandler)
		r.Get("/rfps", h.GetRfpsHandler)
		r.Post("/rfps/process-replies", h.ProcessRepliesHandler)
		r.Get("/rfps/{rfpId}", h.GetRfpHandler)
		r.Post("/rfps/{rfpId}/send", h.SendRfpHandler)
		r.Get("/rfps/{rfpId}/comparison", h.GetRfpComparisonHandler)
		// предложения
		r.Post("/proposals/ingest", h.IngestProposalHandler)
		r.Get("/proposals/by-rfp/{rfpId}", h.GetProposalsByRfpHandler)
		// поставщики
		r.Get("/vendors", h.GetVendorsHandler)
		r.Post("/vendors", h.CreateVendorHandler)
		r.Put("/vendors/{vendorId}", h.UpdateVendorHandler)
		r.Delete("/vendors/{vendorId}", h.DeleteVendorHandler)
	})

	logx.Info().Str("addr", cfg.ServerAddress).Msg("starting server")
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}
