package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "baanmae/internal/adapters/http_server"
	"baanmae/internal/adapters/line"
	"baanmae/internal/adapters/observability"
	redisad "baanmae/internal/adapters/redis"
	"baanmae/internal/app"
	"baanmae/internal/domain"
	"baanmae/internal/shared"
	mysqlrepo "baanmae/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var notifier domain.Notifier = line.Disabled{}
	if cfg.LineToken != "" {
		notifier, err = line.New(cfg.LineBase, cfg.LineToken, cfg.LineTo, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("line client init failed")
		}
	}

	auth := app.NewAuthService(repo, cfg.JWTSecret)
	villas := app.NewVillaService(repo, cache, cfg.CacheTTL)
	bookings := app.NewBookingService(repo, cache, cfg.CacheTTL)
	leads := app.NewLeadService(repo, repo, notifier)
	content := app.NewContentService(repo)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Auth:     auth,
		Villas:   villas,
		Bookings: bookings,
		Leads:    leads,
		Content:  content,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
