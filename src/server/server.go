package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"ge-tracker/src/dispatcher"
	"ge-tracker/src/logger"
	"ge-tracker/src/models"
	"ge-tracker/src/projection"
	"ge-tracker/src/registry"
	"ge-tracker/src/store"
)

// -----------------------------------------------------------------------------
// Server
// -----------------------------------------------------------------------------

type Server struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine

	Store      *store.Store
	Registry   *registry.Registry
	Dispatcher *dispatcher.Dispatcher
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewServer(cfg *models.MConfig, log *logger.Logger, st *store.Store,
	reg *registry.Registry, disp *dispatcher.Dispatcher) *Server {
	// Set Gin mode
	if !strings.EqualFold(cfg.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		Config:     cfg,
		Logger:     log,
		engine:     gin.Default(),
		Store:      st,
		Registry:   reg,
		Dispatcher: disp,
	}

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *Server) setupRoutes() {
	// Embedded frontend
	s.engine.GET("/", s.getIndex)

	// REST API endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/config", s.getConfig)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)
	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

// Handler exposes the route tree for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *Server) getIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// -----------------------------------------------------------------------------

func (s *Server) getHealth(c *gin.Context) {
	var latest int64
	if t := s.Store.LastUpdated(); !t.IsZero() {
		latest = t.Unix()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   s.Registry.Len(),
		"latest_update": latest,
	})
}

// -----------------------------------------------------------------------------

func (s *Server) getConfig(c *gin.Context) {
	defaults := models.DefaultFilters(s.Config.Defaults)

	c.JSON(http.StatusOK, gin.H{
		"skills":    projection.SkillNames(),
		"sort_keys": []string{models.SortProfit, models.SortProfitPct, models.SortCost},
		"defaults": gin.H{
			"min_volume":  defaults.MinVolume,
			"max_results": defaults.MaxResults,
			"sort":        defaults.Sort,
			"volume_mode": defaults.VolumeMode,
		},
	})
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	// Buffered channel so one slow subscriber cannot stall a broadcast pass
	send := make(chan interface{}, 256)
	sub := s.Registry.Register(send)

	client := &Client{
		server: s,
		conn:   conn,
		sub:    sub,
		send:   send,
	}

	go client.writePump()
	go client.readPump()

	// Initial projection, delivered immediately on connect
	if err := s.Dispatcher.NotifyOne(sub.ID()); err != nil {
		s.Logger.Info("Initial delivery for %s failed: %v", sub.ID(), err)
	}
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

func (s *Server) HandleClientMessage(client *Client, message []byte) {
	var envelope models.MClientMessage
	if err := json.Unmarshal(message, &envelope); err != nil {
		s.Logger.Info("Failed to parse client message: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	switch envelope.Type {
	case "ping":
		// Keepalive; delivery failures here are handled on the next broadcast
		_ = client.sub.TrySend(&models.MPongPayload{Type: "pong"})

	case "set_filters":
		var update models.MFilterUpdate
		if err := json.Unmarshal(message, &update); err != nil {
			s.Logger.Info("Failed to parse filter update: %v, disconnecting client", err)
			client.conn.Close()
			return
		}

		if _, err := s.Registry.UpdateFilters(client.sub.ID(), update); err != nil {
			if errors.Is(err, models.ErrInvalidFilter) {
				// Rejected update: previous configuration stays in effect
				s.Logger.Info("Rejected filter update from %s: %v", client.sub.ID(), err)
			}
			return
		}

		if err := s.Dispatcher.NotifyOne(client.sub.ID()); err != nil {
			s.Logger.Debug("Notify after filter update failed for %s: %v", client.sub.ID(), err)
		}

	default:
		// Unknown message types are ignored
	}
}
