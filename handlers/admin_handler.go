package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"partygames/models"
	"partygames/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the game-control surface. Every route here sits
// behind the auth middleware; these are the only callers allowed to move
// the round state machine or commit scores.
type AdminHandler struct {
	sessions   *services.SessionService
	registry   *services.RegistryService
	rounds     *services.RoundService
	scoring    *services.ScoringService
	categories *services.CategoryService
}

func NewAdminHandler(
	sessions *services.SessionService,
	registry *services.RegistryService,
	rounds *services.RoundService,
	scoring *services.ScoringService,
	categories *services.CategoryService,
) *AdminHandler {
	return &AdminHandler{
		sessions:   sessions,
		registry:   registry,
		rounds:     rounds,
		scoring:    scoring,
		categories: categories,
	}
}

type createSessionRequest struct {
	Variant string `json:"variant" binding:"required"`
}

func (h *AdminHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), req.Variant)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

type seedPlayersRequest struct {
	Names []string `json:"names" binding:"required,min=1"`
}

func (h *AdminHandler) SeedPlayers(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req seedPlayersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	players, err := h.registry.Seed(c.Request.Context(), code, req.Names)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, players)
}

type startRoundRequest struct {
	Prompt     string `json:"prompt"`
	DurationMs int64  `json:"duration_ms" binding:"required,min=1000"`
}

func (h *AdminHandler) StartRound(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req startRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.rounds.Start(c.Request.Context(), code, req.Prompt,
		time.Duration(req.DurationMs)*time.Millisecond)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoundView(round))
}

func (h *AdminHandler) PauseRound(c *gin.Context) {
	h.roundTransition(c, h.rounds.Pause)
}

func (h *AdminHandler) ResumeRound(c *gin.Context) {
	h.roundTransition(c, h.rounds.Resume)
}

func (h *AdminHandler) EndRound(c *gin.Context) {
	h.roundTransition(c, h.rounds.End)
}

func (h *AdminHandler) AdvanceQuestion(c *gin.Context) {
	h.roundTransition(c, h.rounds.Advance)
}

type setPromptRequest struct {
	Prompt string `json:"prompt"`
}

func (h *AdminHandler) SetPrompt(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req setPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.rounds.SetPrompt(c.Request.Context(), code, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoundView(round))
}

type setupBoardRequest struct {
	Categories       []string `json:"categories" binding:"required,min=1"`
	DoubleCategories []string `json:"double_categories"`
	Values           []int    `json:"values"`
}

func (h *AdminHandler) SetupBoard(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req setupBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.rounds.SetupBoard(c.Request.Context(), code,
		req.Categories, req.DoubleCategories, req.Values)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoundView(round))
}

type setModeRequest struct {
	On *bool `json:"on" binding:"required"`
}

func (h *AdminHandler) SetDoubleRound(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req setModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.rounds.SetDouble(c.Request.Context(), code, *req.On)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoundView(round))
}

func (h *AdminHandler) SetFinalRound(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req setModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	round, err := h.rounds.SetFinal(c.Request.Context(), code, *req.On)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoundView(round))
}

func (h *AdminHandler) ResetGame(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	if err := h.rounds.Reset(c.Request.Context(), code); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game reset"})
}

// AutoScores returns the computed letter verdicts for admin review before
// committing.
func (h *AdminHandler) AutoScores(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	results, err := h.scoring.ScoreRound(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

type commitScoresRequest struct {
	PlayerKey string          `json:"player_key" binding:"required"`
	Scores    map[string]bool `json:"scores" binding:"required"`
}

func (h *AdminHandler) CommitScores(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req commitScoresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	points, err := h.scoring.CommitLetterScores(c.Request.Context(), code, req.PlayerKey, req.Scores)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"points": points})
}

type judgeRequest struct {
	QuestionIndex *int                         `json:"question_index" binding:"required"`
	Judgments     map[string]services.Judgment `json:"judgments" binding:"required"`
}

func (h *AdminHandler) JudgeQuestion(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req judgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcomes, err := h.scoring.JudgeQuestion(c.Request.Context(), code, *req.QuestionIndex, req.Judgments)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

type adjustScoreRequest struct {
	PlayerKey string `json:"player_key" binding:"required"`
	Delta     *int   `json:"delta" binding:"required"`
}

func (h *AdminHandler) AdjustScore(c *gin.Context) {
	code := strings.ToLower(c.Param("code"))

	var req adjustScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.scoring.AdjustScore(c.Request.Context(), code, req.PlayerKey, *req.Delta); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Score adjusted"})
}

// GenerateCategory asks the text oracle for a category suggestion. A
// failure changes nothing; the admin can retry or type one by hand.
func (h *AdminHandler) GenerateCategory(c *gin.Context) {
	category, err := h.categories.Generate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// roundTransition runs a body-less lifecycle operation and returns the
// resulting round snapshot.
func (h *AdminHandler) roundTransition(c *gin.Context, op func(ctx context.Context, code string) (models.RoundState, error)) {
	code := strings.ToLower(c.Param("code"))

	round, err := op(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRoundView(round))
}
