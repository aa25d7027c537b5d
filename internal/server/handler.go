package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"

	"github.com/javajack/sheetlive"
	"github.com/javajack/sheetlive/surface"
)

// Poller is the part of *sheetlive.Updater the API drives.
type Poller interface {
	Start(ctx context.Context) error
	Update(ctx context.Context) error
	Polling() bool
	Stats() sheetlive.Stats
	Plan() *sheetlive.Plan
	Interval() time.Duration
}

// Handler serves the /api routes.
type Handler struct {
	ctx     context.Context
	updater Poller
	board   *surface.Board
}

// NewHandler creates the API handler. ctx bounds the poll loop started by
// POST /api/start, so it should live as long as the process.
func NewHandler(ctx context.Context, updater Poller, board *surface.Board) *Handler {
	return &Handler{ctx: ctx, updater: updater, board: board}
}

// RegisterRoutes registers the API routes on router.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.GET("/elements", h.ListElements)
	router.GET("/elements/:id", h.GetElement)
	router.POST("/start", h.Start)
	router.POST("/refresh", h.Refresh)
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Polling    bool            `json:"polling"`
	Range      string          `json:"range"`
	IntervalMS int64           `json:"intervalMs"`
	Kinds      []string        `json:"kinds"`
	Stats      sheetlive.Stats `json:"stats"`
}

// GetStatus reports the updater state.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	plan := h.updater.Plan()
	c.JSON(http.StatusOK, StatusResponse{
		Polling:    h.updater.Polling(),
		Range:      plan.Range.String(),
		IntervalMS: h.updater.Interval().Milliseconds(),
		Kinds:      plan.Kinds(),
		Stats:      h.updater.Stats(),
	})
}

// ListElements returns every display element.
// GET /api/elements
func (h *Handler) ListElements(c *gin.Context) {
	c.JSON(http.StatusOK, h.board.Snapshot())
}

// GetElement returns one display element.
// GET /api/elements/:id
func (h *Handler) GetElement(c *gin.Context) {
	e, ok := h.board.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": sheetlive.ErrElementNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

// Start begins polling.
// POST /api/start
func (h *Handler) Start(c *gin.Context) {
	if err := h.updater.Start(h.ctx); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sheetlive.ErrAlreadyPolling) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"polling": true})
}

// RefreshResponse is the body of a completed POST /api/refresh.
type RefreshResponse struct {
	HandlerErrors []string `json:"handlerErrors"`
}

// Refresh runs one cycle immediately.
// POST /api/refresh
func (h *Handler) Refresh(c *gin.Context) {
	err := h.updater.Update(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, RefreshResponse{HandlerErrors: []string{}})
	case errors.Is(err, sheetlive.ErrCycleInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, sheetlive.ErrFetchFailed), errors.Is(err, sheetlive.ErrDecodeFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		resp := RefreshResponse{HandlerErrors: []string{}}
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				resp.HandlerErrors = append(resp.HandlerErrors, e.Error())
			}
		} else {
			resp.HandlerErrors = append(resp.HandlerErrors, err.Error())
		}
		c.JSON(http.StatusOK, resp)
	}
}
