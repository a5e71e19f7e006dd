// Package server bridges plant sessions to the 3D renderer over websocket.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"thermal/driver"
	"thermal/model"
)

// Requests are a type and one short argument.
const maxMessageSize = 512

type Server struct {
	cfg      Config
	upgrader websocket.Upgrader
	opts     []driver.Option
}

// NewServer builds a server; opts are applied to the driver of every session.
func NewServer(cfg Config, upgrader websocket.Upgrader, opts ...driver.Option) *Server {
	return &Server{
		cfg:      cfg,
		upgrader: upgrader,
		opts:     opts,
	}
}

// serveWs runs one session for the lifetime of the connection.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	hub := NewHub(s.cfg, s.opts...)
	logger := hub.logger().WithField("remote", r.RemoteAddr)
	logger.Info("session opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		if err := hub.driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("driver")
		}
	}()
	go func() {
		if err := hub.handleResponse(ctx, conn); err != nil {
			logger.WithError(err).Warn("writer stopped")
			cancel()
			conn.Close()
		}
	}()

	for {
		var msg model.Msg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("read")
			}
			break
		}
		hub.send(ctx, hub.handleRequest(msg))
	}
	logger.WithField("ticks", hub.driver.Stats().Ticks).Info("session closed")
}

// Handler routes the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.serveWs)
	return mux
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}
	errc := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr": s.cfg.Addr,
			"path": s.cfg.Path,
		}).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
