package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/Jeevanbnj/F-Glu/internal/container"
	"github.com/Jeevanbnj/F-Glu/internal/domain/entity"
	"github.com/Jeevanbnj/F-Glu/internal/infrastructure/auth"
)

// TokenValidator проверяет токен из заголовка Authorization.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Options настройки HTTP слоя.
type Options struct {
	AllowOrigins []string
	AuthRequired bool
	// UploadsDir и PublicPrefix раздают локальные загрузки, пустой UploadsDir отключает раздачу.
	UploadsDir    string
	PublicPrefix  string
	MaxUploadSize int64
}

type Handler struct {
	*container.Container
	Tokens  TokenValidator
	Options Options
}

func NewHandler(c *container.Container, tokens TokenValidator, opts Options) *Handler {
	return &Handler{Container: c, Tokens: tokens, Options: opts}
}

// NewRouter собирает gin.Engine со всеми маршрутами.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), CORS(h.Options.AllowOrigins))
	if h.Options.MaxUploadSize > 0 {
		router.MaxMultipartMemory = h.Options.MaxUploadSize
	}

	h.RegisterHandler(router)
	h.RegisterStatic(router)
	return router
}

// RegisterHandler регистрирует маршруты API.
func (h *Handler) RegisterHandler(router *gin.Engine) {
	router.GET("/ping", h.Ping)

	authGroup := router.Group("/api/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/me", RequireDoctor(h.Tokens, true), h.Me)

	api := router.Group("/api", RequireDoctor(h.Tokens, h.Options.AuthRequired))

	patients := api.Group("/patients")
	patients.POST("/add", h.AddPatient)
	patients.GET("/all", h.ListPatients)
	patients.POST("/image", h.AttachPatientImage)
	patients.GET("/:id", h.GetPatient)

	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", h.DashboardSummary)
	dashboard.GET("/patients-over-time", h.PatientsOverTime)
	dashboard.GET("/age-distribution", h.AgeDistribution)

	api.POST("/upload", h.Upload)
	api.POST("/predict", h.Predict)

	api.GET("/records", h.ListRecords)
	api.POST("/records", h.CreateRecord)
	api.GET("/records/:id", h.GetRecord)
}

// RegisterStatic раздаёт загруженные снимки и наложения Grad-CAM.
func (h *Handler) RegisterStatic(router *gin.Engine) {
	if h.Options.UploadsDir == "" {
		return
	}
	prefix := h.Options.PublicPrefix
	if prefix == "" {
		prefix = "/uploads"
	}
	router.Static(prefix, h.Options.UploadsDir)
}

func (h *Handler) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// errorHandler для более удобного вывода ошибок
func (h *Handler) errorHandler(ctx *gin.Context, errorStatusCode int, err error) {
	if errorStatusCode >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", ctx.FullPath()).Error("request failed")
	} else {
		log.WithError(err).WithField("path", ctx.FullPath()).Debug("request rejected")
	}
	ctx.AbortWithStatusJSON(errorStatusCode, gin.H{
		"status":      "error",
		"description": err.Error(),
	})
}

// fail выбирает код ответа по ошибке предметной области.
func (h *Handler) fail(ctx *gin.Context, err error) {
	h.errorHandler(ctx, statusFor(err), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound), errors.Is(err, entity.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrDecodeImage), errors.Is(err, entity.ErrLowQuality):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, entity.ErrNoImage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func parseID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", entity.ErrInvalidInput)
	}
	return uint(id), nil
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.WithFields(log.Fields{
			"method":  ctx.Request.Method,
			"path":    ctx.Request.URL.Path,
			"status":  ctx.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("http request")
	}
}
