package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Jeevanbnj/F-Glu/config"
	"github.com/Jeevanbnj/F-Glu/internal/api/httpapi"
	"github.com/Jeevanbnj/F-Glu/internal/api/telegram"
	"github.com/Jeevanbnj/F-Glu/internal/container"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/classifier"
)

func main() {
	var withBot bool

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Glaucoma screening REST API with an optional Telegram bot",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), withBot)
		},
	}
	cmd.Flags().BoolVar(&withBot, "bot", true, "start the Telegram bot when TELEGRAM_TOKEN is set")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, withBot bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetupLogging(cfg.LogLevel)

	// Модель грузится один раз, без неё сервер не стартует.
	clf, err := classifier.NewONNXClassifier(cfg.Model.Path, cfg.Model.MetadataPath, cfg.Model.SharedLibrary)
	if err != nil {
		return err
	}

	app, err := container.Build(ctx, cfg, clf)
	if err != nil {
		_ = clf.Close()
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Warn("release resources")
		}
	}()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := httpapi.Options{
		AllowOrigins:  cfg.Service.AllowOrigins,
		AuthRequired:  cfg.Auth.Required,
		MaxUploadSize: cfg.Uploads.MaxSizeMB << 20,
	}
	if !cfg.MinIO.Enabled {
		opts.UploadsDir = cfg.Uploads.Dir
		opts.PublicPrefix = cfg.Uploads.PublicPrefix
	}
	handler := httpapi.NewHandler(app, container.NewTokenService(cfg), opts)

	srv := &http.Server{
		Addr:              cfg.Service.Addr(),
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Бот создаётся до запуска сервера: ошибка авторизации не должна
	// оставлять работающий HTTP поверх уже закрытых ресурсов.
	var workers []func(context.Context) error
	switch {
	case !withBot:
	case cfg.TelegramToken == "":
		log.Info("TELEGRAM_TOKEN is not set, bot is disabled")
	default:
		bot, err := telegram.NewBot(cfg.TelegramToken, app)
		if err != nil {
			return err
		}
		workers = append(workers, func(ctx context.Context) error {
			log.Info("bot is running")
			return bot.Run(ctx)
		})
	}

	return serve(ctx, srv, workers...)
}

// serve держит HTTP-сервер и фоновые процессы до отмены ctx или первой ошибки.
// Возвращается только после остановки всех.
func serve(ctx context.Context, srv *http.Server, workers ...func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("http server is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	for _, w := range workers {
		g.Go(func() error { return w(gctx) })
	}

	return g.Wait()
}
