package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Varun5711/deeplinks/internal/config"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/middleware"
	"github.com/caddyserver/certmagic"
)

const (
	ShutdownTimeout = 10 * time.Second

	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
)

// NewHandler wraps the router in the standard middleware chain. rateLimiter
// may be nil.
func NewHandler(router http.Handler, log *logger.Logger, rateLimiter *middleware.RateLimiter) http.Handler {
	chain := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logging(log),
		middleware.Recovery(log),
	}
	if rateLimiter != nil {
		chain = append(chain, rateLimiter.Middleware)
	}
	chain = append(chain, middleware.BodyLimit(middleware.DefaultMaxBodyBytes))

	return middleware.Chain(router, chain...)
}

type Server struct {
	cfg     config.ServerConfig
	handler http.Handler
	log     *logger.Logger
}

func New(cfg config.ServerConfig, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		cfg:     cfg,
		handler: handler,
		log:     log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to ShutdownTimeout. With TLSAuto set it serves HTTPS on :443 using
// certificates obtained from Let's Encrypt, and answers ACME challenges and
// redirects on :80.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.TLSAuto {
		return s.runTLS(ctx)
	}

	srv := s.newHTTPServer(":"+s.cfg.Port, s.handler)
	s.log.Info("Listening on :%s", s.cfg.Port)

	return serve(ctx, s.log, srv, func(srv *http.Server) error {
		return srv.ListenAndServe()
	})
}

func (s *Server) runTLS(ctx context.Context) error {
	host := s.cfg.Domain
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = s.cfg.TLSEmail

	magic := certmagic.NewDefault()
	issuer := certmagic.NewACMEIssuer(magic, certmagic.DefaultACME)
	magic.Issuers = []certmagic.Issuer{issuer}

	if err := magic.ManageSync(ctx, []string{host}); err != nil {
		return fmt.Errorf("failed to obtain certificate for %s: %w", host, err)
	}

	tlsConfig := magic.TLSConfig()
	tlsConfig.NextProtos = append([]string{"h2", "http/1.1"}, tlsConfig.NextProtos...)

	httpsSrv := s.newHTTPServer(":443", s.handler)
	httpsSrv.TLSConfig = tlsConfig

	redirectSrv := s.newHTTPServer(":80", issuer.HTTPChallengeHandler(http.HandlerFunc(redirectToHTTPS)))

	go func() {
		if err := serve(ctx, s.log, redirectSrv, func(srv *http.Server) error {
			return srv.ListenAndServe()
		}); err != nil {
			s.log.Error("HTTP redirect server error: %v", err)
		}
	}()

	s.log.Info("Listening on :443 for %s", host)

	return serve(ctx, s.log, httpsSrv, func(srv *http.Server) error {
		return srv.ListenAndServeTLS("", "")
	})
}

func (s *Server) newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          s.log.StdLogger(),
	}
}

func serve(ctx context.Context, log *logger.Logger, srv *http.Server, listen func(*http.Server) error) error {
	errCh := make(chan error, 1)
	go func() {
		if err := listen(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server on %s failed: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server on %s...", srv.Addr)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server on %s stopped", srv.Addr)
	return nil
}

func redirectToHTTPS(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	http.Redirect(w, r, "https://"+host+r.URL.RequestURI(), http.StatusMovedPermanently)
}
