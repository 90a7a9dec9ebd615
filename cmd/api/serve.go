package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "loanledger/internal/adapter/http"
	ledgermw "loanledger/internal/adapter/middleware"
	"loanledger/internal/adapter/notify"
	"loanledger/internal/adapter/repository/mysql"
	"loanledger/internal/config"
	domain "loanledger/internal/domain/loan"
	"loanledger/internal/infrastructure/cache"
	"loanledger/internal/infrastructure/db"
	"loanledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// streamMaxLen caps the notification stream; XADD trims approximately.
const streamMaxLen = 100_000

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the loan ledger HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Open(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	e, err := newServer(cfg, gdb, rdb)
	if err != nil {
		return err
	}

	addr := ":" + cfg.AppPort
	errc := make(chan error, 1)
	go func() {
		slog.Info("http: listening", "addr", addr, "interest_mode", cfg.InterestMode)
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("http: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// newServer wires repositories, the usecase and the HTTP surface onto a new
// echo instance.
func newServer(cfg *config.Config, gdb *gorm.DB, rdb *redis.Client) (*echo.Echo, error) {
	mode, err := domain.ParseInterestMode(cfg.InterestMode)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}

	hub := notify.NewHub()
	publisher := notify.Fanout{notify.NewRedisStream(rdb, cfg.EventStream, streamMaxLen), hub}

	uc := loan.NewUsecase(
		mysql.NewLoanRepository(gdb),
		mysql.NewTransferRepository(gdb),
		mysql.NewEventRepository(gdb),
		mysql.NewGormUoW(gdb),
		loan.WithPublisher(publisher),
		loan.WithInterestMode(mode),
		loan.WithLogger(slog.Default().With("component", "loan")),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			slog.LogAttrs(c.Request().Context(), level, "http.request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.Any("err", v.Error),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(ledgermw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL()))

	health := httpadp.NewHandler(map[string]httpadp.Check{
		"db":    sqlDB.PingContext,
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})
	httpadp.Register(e, health, httpadp.NewLoanHandler(uc), hub.ServeWS)
	return e, nil
}
