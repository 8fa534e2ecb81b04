package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/infra/cache"
	"bookstore/internal/infra/messaging"
	"bookstore/internal/infra/util"
	"bookstore/internal/usecase"
	"bookstore/internal/web"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// 外部依存。Cache/Events が nil ならキャッシュなし・ログ出力だけになる
type Deps struct {
	DB         *gorm.DB
	Cache      usecase.CatalogCache
	Events     usecase.EventPublisher
	Clock      usecase.Clock
	IDs        usecase.IDGenerator
	BcryptCost int
}

// echoを組み立てる（ミドルウェア + ルート）
func New(cfg config.Config, deps Deps) (*echo.Echo, error) {
	deps = withDefaults(deps)

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				slog.ErrorContext(c.Request().Context(), "request", append(attrs, "err", v.Error)...)
				return nil
			}
			slog.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))
	if cfg.CSRFEnabled {
		e.Use(echomw.CSRFWithConfig(echomw.CSRFConfig{
			TokenLookup:    "form:_csrf",
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   cfg.CookieSecure,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	RegisterRoutes(e, cfg, deps)
	return e, nil
}

func withDefaults(d Deps) Deps {
	if d.Clock == nil {
		d.Clock = util.RealClock{}
	}
	if d.IDs == nil {
		d.IDs = util.UUIDGenerator{}
	}
	if d.Cache == nil {
		d.Cache = cache.NoopCatalogCache{}
	}
	if d.Events == nil {
		d.Events = messaging.LogPublisher{}
	}
	return d
}

// ctxがキャンセルされたら30秒以内にグレースフルに止める
func Start(ctx context.Context, addr string, e *echo.Echo) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	slog.Info("http server shutting down")
	return e.Shutdown(shutdownCtx)
}
