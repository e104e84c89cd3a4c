package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keya254/smart-serve/internal/config"
	"github.com/keya254/smart-serve/internal/database"
	"github.com/keya254/smart-serve/internal/realtime"
	"github.com/keya254/smart-serve/internal/repositories"
	"github.com/keya254/smart-serve/internal/router"
	"github.com/keya254/smart-serve/internal/services"
	"github.com/keya254/smart-serve/pkg/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		utils.LogError(err, "Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", "console")
		return err
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.ApplySchema(ctx, db); err != nil {
			return err
		}
	}
	if cfg.SeedOnStart {
		seeder := services.NewSeedService(
			repositories.NewMenuRepository(db),
			repositories.NewTableRepository(db),
			repositories.NewOrderRepository(db),
			db,
		)
		if _, err := seeder.Seed(ctx); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	hub := realtime.NewHub()
	g.Go(func() error { return hub.Run(gctx) })
	notifiers := realtime.Notifiers{hub}

	if cfg.AMQPURL != "" {
		publisher, err := realtime.DialAMQP(cfg.AMQPURL)
		if err != nil {
			utils.LogWarn("RabbitMQ unavailable, broker fan-out disabled", map[string]interface{}{"error": err.Error()})
		} else {
			defer publisher.Close()
			g.Go(func() error { return publisher.Run(gctx) })
			notifiers = append(notifiers, publisher)
		}
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.NewEngine(cfg.CORSAllowedOrigins)
	router.Setup(engine, db, hub, notifiers)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		utils.LogInfo("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
