package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"study-buddy/internal/auth"
	"study-buddy/internal/domain"
	"study-buddy/internal/llm"
	"study-buddy/internal/repository"
	"study-buddy/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	study   service.StudyService
	history service.HistoryService
	tokens  *auth.Manager
}

func NewHandler(users service.UserService, study service.StudyService, history service.HistoryService, tokens *auth.Manager) *Handler {
	return &Handler{
		users:   users,
		study:   study,
		history: history,
		tokens:  tokens,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)

		protected := api.Group("")
		protected.Use(h.authRequired())
		{
			protected.GET("/me", h.me)
			protected.GET("/history", h.listHistory)
			protected.POST("/tools/explain", h.explain)
			protected.POST("/tools/summarize", h.summarize)
			protected.POST("/tools/quiz", h.quiz)
			protected.POST("/tools/flashcards", h.flashcards)
		}
	}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		case errors.Is(err, repository.ErrStorage):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"username": user.Username})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		case errors.Is(err, repository.ErrStorage):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	token, err := h.tokens.Generate(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "username": user.Username})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": c.GetString("username")})
}

type explainRequest struct {
	Topic string `json:"topic" binding:"required"`
	Style string `json:"style"`
}

func (h *Handler) explain(c *gin.Context) {
	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic is required"})
		return
	}
	result, err := h.study.Explain(c.Request.Context(), c.GetString("username"), req.Topic, req.Style)
	h.toolResponse(c, result, err)
}

type summarizeRequest struct {
	Notes  string `json:"notes" binding:"required"`
	Length string `json:"length"`
}

func (h *Handler) summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notes are required"})
		return
	}
	result, err := h.study.Summarize(c.Request.Context(), c.GetString("username"), req.Notes, req.Length)
	h.toolResponse(c, result, err)
}

type quizRequest struct {
	Material  string `json:"material" binding:"required"`
	Questions int    `json:"questions"`
}

func (h *Handler) quiz(c *gin.Context) {
	var req quizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "material is required"})
		return
	}
	result, err := h.study.Quiz(c.Request.Context(), c.GetString("username"), req.Material, req.Questions)
	h.toolResponse(c, result, err)
}

type flashcardsRequest struct {
	Material string `json:"material" binding:"required"`
	Count    int    `json:"count"`
}

func (h *Handler) flashcards(c *gin.Context) {
	var req flashcardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "material is required"})
		return
	}
	result, err := h.study.Flashcards(c.Request.Context(), c.GetString("username"), req.Material, req.Count)
	h.toolResponse(c, result, err)
}

func (h *Handler) toolResponse(c *gin.Context, result *service.ToolResult, err error) {
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrInference):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, InteractionResponse{
		ID:           result.Interaction.ID,
		Tool:         string(result.Interaction.Tool),
		Input:        result.Interaction.Input,
		Output:       result.Interaction.Output,
		CreatedAt:    result.Interaction.CreatedAt.Format(time.RFC3339),
		HistorySaved: result.HistorySaved,
	})
}

func (h *Handler) listHistory(c *gin.Context) {
	interactions, err := h.history.ListForUser(c.Request.Context(), c.GetString("username"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]InteractionResponse, len(interactions))
	for i := range interactions {
		resp[i] = interactionToResponse(interactions[i])
	}
	c.JSON(http.StatusOK, gin.H{"history": resp})
}

// InteractionResponse is the wire form of one logged tool invocation.
type InteractionResponse struct {
	ID           string `json:"id"`
	Tool         string `json:"tool"`
	Input        string `json:"input"`
	Output       string `json:"output"`
	CreatedAt    string `json:"created_at"`
	HistorySaved bool   `json:"history_saved"`
}

func interactionToResponse(interaction domain.Interaction) InteractionResponse {
	return InteractionResponse{
		ID:           interaction.ID,
		Tool:         string(interaction.Tool),
		Input:        interaction.Input,
		Output:       interaction.Output,
		CreatedAt:    interaction.CreatedAt.Format(time.RFC3339),
		HistorySaved: true,
	}
}
