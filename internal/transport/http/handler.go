package http

import (
	"errors"
	"net/http"

	"colmeia-quiz-service/internal/app"
	"colmeia-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
)

// Handler exposes the quiz use cases over HTTP.
type Handler struct {
	service *app.QuizService
	ws      *WSHandler
}

func NewHandler(service *app.QuizService) *Handler {
	return &Handler{service: service, ws: NewWSHandler(service)}
}

// NewRouter mounts the quiz routes at the root and under /api/quiz and /api.
func NewRouter(service *app.QuizService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger(), Cors())

	h := NewHandler(service)
	router.GET("/", h.Welcome)
	router.GET("/healthz", h.Health)

	h.Register(&router.RouterGroup)
	h.Register(router.Group("/api/quiz"))
	h.Register(router.Group("/api"))
	return router
}

// Register attaches the quiz endpoints to group.
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/questions", h.Questions)
	group.POST("/result", h.Result)
	group.GET("/dashboard", h.Dashboard)
	group.GET("/history", h.History)
	group.POST("/reset", h.Reset)
	group.GET("/ws/dashboard", gin.WrapF(h.ws.ServeWS))
}

func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Colmeia API!"})
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *Handler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Questions())
}

func (h *Handler) Result(c *gin.Context) {
	var answers []domain.UserAnswer
	if err := c.ShouldBindJSON(&answers); err != nil {
		sendJSONError(c, http.StatusBadRequest, "Invalid answers payload", errors.Join(domain.ErrValidation, err))
		return
	}

	result, err := h.service.Submit(c.Request.Context(), answers)
	if err != nil {
		sendJSONError(c, statusFor(err), "Failed to process quiz result", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Dashboard(c *gin.Context) {
	state, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		sendJSONError(c, statusFor(err), "Failed to load dashboard", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) History(c *gin.Context) {
	entries, err := h.service.History(c.Request.Context())
	if err != nil {
		sendJSONError(c, statusFor(err), "Failed to load history", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) Reset(c *gin.Context) {
	state, err := h.service.Reset(c.Request.Context())
	if err != nil {
		sendJSONError(c, statusFor(err), "Failed to reset dashboard", err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func statusFor(err error) int {
	if errors.Is(err, domain.ErrValidation) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
