// Package handler exposes the ops HTTP surface that runs next to the bot:
// a health check and a JWT-gated read-only view of the campaign state.
package handler

import (
	"errors"
	"net/http"

	"santagogo/backend/internal/config"
	"santagogo/backend/internal/exchange"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Svc *exchange.Service
	Cfg *config.Config
}

func NewHandler(svc *exchange.Service, cfg *config.Config) *Handler {
	return &Handler{Svc: svc, Cfg: cfg}
}

// RegisterRoutes wires the ops endpoints. The /api group is only mounted
// when an API secret is configured.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	if h.Cfg.APISecret == "" {
		return
	}
	r.POST("/api/token", h.IssueToken)

	authorized := r.Group("/api", h.RequireAuth)
	authorized.GET("/status", h.Status)
	authorized.GET("/pairs", h.Pairs)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status reports the bound chat and its registration summary.
func (h *Handler) Status(c *gin.Context) {
	chat, err := h.Svc.BoundChat()
	if err != nil {
		if errors.Is(err, exchange.ErrNotBound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no chat bound"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	status, err := h.Svc.Registration(chat.ChatID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat_id":           chat.ChatID,
		"title":             chat.Title,
		"participants":      status.ActiveCount,
		"registration_open": status.RegistrationOpen,
	})
}

// Pairs is the HTTP equivalent of the /export command: the full assignment
// with display names, for audit.
func (h *Handler) Pairs(c *gin.Context) {
	chat, err := h.Svc.BoundChat()
	if err != nil {
		if errors.Is(err, exchange.ErrNotBound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no chat bound"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	exports, err := h.Svc.Export(chat.ChatID)
	if err != nil {
		if errors.Is(err, exchange.ErrNoPairs) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no pairs"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	type pairView struct {
		Giver    string `json:"giver"`
		Receiver string `json:"receiver"`
	}
	pairs := make([]pairView, 0, len(exports))
	for _, e := range exports {
		pairs = append(pairs, pairView{Giver: e.GiverDisplay(), Receiver: e.ReceiverDisplay()})
	}
	c.JSON(http.StatusOK, gin.H{"chat_id": chat.ChatID, "pairs": pairs})
}
