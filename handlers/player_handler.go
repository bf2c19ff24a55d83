package handlers

import (
	"net/http"
	"strings"

	"partygames/services"

	"github.com/gin-gonic/gin"
)

// PlayerHandler serves the open player surface: joining a session,
// submitting answers and wagers, and reading the shared state.
type PlayerHandler struct {
	sessions *services.SessionService
	registry *services.RegistryService
	answers  *services.AnswerService
	rounds   *services.RoundService
}

func NewPlayerHandler(
	sessions *services.SessionService,
	registry *services.RegistryService,
	answers *services.AnswerService,
	rounds *services.RoundService,
) *PlayerHandler {
	return &PlayerHandler{
		sessions: sessions,
		registry: registry,
		answers:  answers,
		rounds:   rounds,
	}
}

type joinRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *PlayerHandler) Join(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.registry.Register(c.Request.Context(), code, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

// GetSession returns the session with its roster and round snapshot, the
// same state a websocket client receives on attach.
func (h *PlayerHandler) GetSession(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	session, err := h.sessions.Get(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	players, err := h.registry.List(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	round, err := h.rounds.Round(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"players": players,
		"round":   newRoundView(round),
	})
}

type submitAnswerRequest struct {
	PlayerKey string `json:"player_key" binding:"required"`
	Slot      string `json:"slot" binding:"required"`
	Text      string `json:"text"`
}

func (h *PlayerHandler) SubmitAnswer(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.answers.Submit(c.Request.Context(), code, req.PlayerKey, req.Slot, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer submitted successfully"})
}

type submitWagerRequest struct {
	PlayerKey string `json:"player_key" binding:"required"`
	Wager     *int   `json:"wager" binding:"required"`
}

func (h *PlayerHandler) SubmitWager(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req submitWagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.answers.SubmitWager(c.Request.Context(), code, req.PlayerKey, *req.Wager)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wager submitted successfully"})
}
