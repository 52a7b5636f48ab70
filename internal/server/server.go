package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookstore/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// shutdown待ちの上限
const shutdownTimeout = 10 * time.Second

// New はミドルウェア込みのechoを作る
func New(log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestID())
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	return e
}

// Start はctxがキャンセルされるまで待ち受け、その後graceful shutdownする
func Start(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server started")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Msg("server shutting down")
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
