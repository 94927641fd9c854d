package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aouyang1/betasalon/api"
	"github.com/aouyang1/betasalon/api/client"
	"github.com/aouyang1/betasalon/catalog"
	"github.com/aouyang1/betasalon/config"
	"github.com/aouyang1/betasalon/contact"
	"github.com/aouyang1/betasalon/content"
	"github.com/aouyang1/betasalon/i18n"
	"github.com/aouyang1/betasalon/media"
	"github.com/aouyang1/betasalon/session"
	"github.com/aouyang1/betasalon/store"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(cfg.NewLogger())

	// "healthcheck" probes a running server, for container health checks
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(healthcheck(cfg))
	}

	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	site, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Initialize database
	database, err := store.NewDatabase(cfg.DatabasePath, store.AppSettings{
		CarouselPeriodSeconds: int(cfg.CarouselPeriod / time.Second),
		DefaultLang:           cfg.DefaultLang,
	})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()
	if err := database.SeedCatalog(site); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	bundle, err := i18n.Load(cfg.DefaultLang)
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	resolver, publicDir, err := setupMedia(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize media: %v", err)
	}

	var submitter contact.Submitter = contact.SimulatedSubmitter{Delay: cfg.ContactDelay}
	if cfg.SMTPHost != "" {
		submitter = contact.NewMailSubmitter(contact.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			To:       cfg.SMTPTo,
		})
		slog.Info("contact messages delivered over smtp", "host", cfg.SMTPHost, "to", cfg.SMTPTo)
	}

	webServer, err := api.NewWebServer(api.Deps{
		DB:         database,
		Catalog:    site,
		Bundle:     bundle,
		Content:    content.NewRenderer(),
		Media:      resolver,
		Sessions:   session.NewRegistry(cfg.SessionSize, cfg.SessionTTL),
		Submitter:  submitter,
		Newsletter: contact.NewNewsletter(),
	}, api.Options{
		Dev:              cfg.Dev,
		BaseURL:          cfg.BaseURL,
		PublicDir:        publicDir,
		MediaPrefix:      cfg.MediaPrefix,
		StatusClearAfter: cfg.StatusClearAfter,
		StaticMaxAge:     config.DefaultStaticCacheMaxAge,
	})
	if err != nil {
		log.Fatalf("Failed to initialize web server: %v", err)
	}

	// no write timeout, the testimonial stream is long lived
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	go func() {
		slog.Info("starting web server", "addr", cfg.Addr, "lang", cfg.DefaultLang, "dev", cfg.Dev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start web server: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	// closing the visitors ends their testimonial streams so Shutdown can drain
	webServer.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("error while shutting down web server", "error", err)
	}
}

// setupMedia picks how image references are served: presigned S3 URLs, a local mirror of the
// bucket, or plain files under PublicDir.
func setupMedia(ctx context.Context, cfg config.Config) (media.Resolver, string, error) {
	local := media.LocalResolver{Prefix: cfg.MediaPrefix}
	if cfg.S3Bucket == "" {
		return local, cfg.PublicDir, nil
	}

	s3Client, err := media.NewS3Client(ctx, cfg.AWSProfile)
	if err != nil {
		return nil, "", err
	}
	if !cfg.S3Mirror {
		slog.Info("serving images from s3", "bucket", cfg.S3Bucket, "expiry", cfg.PresignExpiry)
		return media.NewS3Resolver(s3Client, cfg.S3Bucket, cfg.PresignExpiry), "", nil
	}

	mirror, err := media.NewMirror(s3Client, cfg.S3Bucket, cfg.PublicDir, cfg.MirrorInterval)
	if err != nil {
		return nil, "", err
	}
	mirror.OnSync = func(r media.SyncResult) {
		slog.Info("media mirror updated", "added", len(r.Added), "removed", len(r.Removed))
	}
	go mirror.Run(ctx)
	slog.Info("mirroring s3 images", "bucket", cfg.S3Bucket, "dir", cfg.PublicDir, "interval", cfg.MirrorInterval)
	return local, cfg.PublicDir, nil
}

func healthcheck(cfg config.Config) int {
	addr := cfg.Addr
	if host, port, err := net.SplitHostPort(addr); err == nil && (host == "" || host == "0.0.0.0") {
		addr = "127.0.0.1:" + port
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.NewSiteClient("http://" + addr).Health(ctx); err != nil {
		slog.Error("health check failed", "addr", addr, "error", err)
		return 1
	}
	return 0
}
