package httpserver

import (
	"net/http"
	"time"

	"finance-app-go/internal/config"
)

// New leaves WriteTimeout unset: the bank-amount event stream writes for as long as the client
// stays connected. Other routes are bounded by the router's request timeout.
func New(cfg config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
