// Package server exposes the overlay board over HTTP and websocket.
package server

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/javajack/sheetlive/internal/config"
	"github.com/javajack/sheetlive/surface"
)

//go:embed overlay.html
var overlayPage []byte

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

// Message is what the websocket sends: one snapshot on connect, then one
// change per updated element.
type Message struct {
	Type     string            `json:"type"` // snapshot | change
	Elements []surface.Element `json:"elements,omitempty"`
	Element  *surface.Element  `json:"element,omitempty"`
}

// Server is the overlay HTTP server.
type Server struct {
	router   *gin.Engine
	board    *surface.Board
	api      *Handler
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

// NewServer builds the router. ctx bounds anything the API starts in the
// background.
func NewServer(ctx context.Context, cfg config.ServerConfig, updater Poller, board *surface.Board, log logrus.FieldLogger) *Server {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router: gin.New(),
		board:  board,
		api:    NewHandler(ctx, updater, board),
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the overlay is usually loaded from a streaming tool's browser source
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), s.requestLog())

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.api.RegisterRoutes(api)
	}

	s.router.GET("/ws", s.stream)
	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", overlayPage)
	})
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request")
	}
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.WithField("addr", addr).Info("overlay server listening")

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
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// stream pushes the board to a websocket client.
// GET /ws
func (s *Server) stream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	changes, cancel := s.board.Subscribe()
	defer cancel()

	if err := s.write(conn, Message{Type: "snapshot", Elements: s.board.Snapshot()}); err != nil {
		return
	}

	// The client never sends anything we need; reading only notices the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case e, ok := <-changes:
			if !ok {
				return
			}
			if err := s.write(conn, Message{Type: "change", Element: &e}); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) write(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		s.log.WithError(err).Debug("websocket write failed")
		return err
	}
	return nil
}
