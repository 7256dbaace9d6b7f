package handler

import (
	"errors"
	"net/http"
	"strconv"

	"Backend-Plotter/internal/app/config"
	"Backend-Plotter/internal/app/controller"
	"Backend-Plotter/internal/app/middleware"
	"Backend-Plotter/internal/app/pipeline"
	"Backend-Plotter/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterHandlers регистрирует все обработчики
func RegisterHandlers(router *gin.Engine, repo *repository.Repository, ctrl *controller.Controller, conf *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiRouter := router.Group("/api")

	// Черный список токенов доступен только с Redis
	var blacklist middleware.TokenBlacklist
	if client := repo.GetRedisClient(); client != nil {
		blacklist = client
	}

	// Журнал загрузок доступен только с Postgres
	var uploadLogs UploadLogReader
	if repo.UploadLogs != nil {
		uploadLogs = repo.UploadLogs
	}

	// Создаем хендлеры
	sessionHandler := NewSessionHandler(ctrl, conf, repo)
	plotHandler := NewPlotHandler(ctrl, conf)
	uploadLogHandler := NewUploadLogHandler(uploadLogs)

	// Public routes - доступны без токена сессии
	public := apiRouter.Group("")
	{
		public.GET("/health", Health)
		public.POST("/sessions", sessionHandler.CreateSession)
		public.POST("/plot", plotHandler.Plot)
	}

	// Session routes - требуют токен сессии
	session := apiRouter.Group("/sessions/current")
	session.Use(middleware.SessionAuth(conf.SessionSecret, blacklist))
	{
		session.GET("", sessionHandler.GetSession)
		session.DELETE("", sessionHandler.DeleteSession)
		session.POST("/upload", sessionHandler.Upload)
		session.PUT("/params", sessionHandler.UpdateParams)
		session.GET("/view", sessionHandler.View)
		session.GET("/chart", sessionHandler.Chart)
		session.GET("/file", sessionHandler.File)
		session.GET("/uploads", uploadLogHandler.GetUploadLogs)
	}
}

// Health godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError переводит ошибку контроллера в HTTP-ответ
func respondError(ctx *gin.Context, err error, fallback string) {
	var parseErr *pipeline.ParseError
	var windowErr *pipeline.InvalidWindowError
	var paramsErr *controller.ParamsError

	switch {
	case errors.As(err, &parseErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Error processing file: " + parseErr.Error()})
	case errors.As(err, &windowErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": windowErr.Error()})
	case errors.As(err, &paramsErr):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": paramsErr.Error()})
	case errors.Is(err, controller.ErrNoTable):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Upload a file first"})
	case errors.Is(err, controller.ErrNoArchive):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Uploaded file is not available"})
	case controller.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	default:
		logrus.Error(fallback+": ", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// queryInt читает положительный целый query-параметр; пустое значение дает def
func queryInt(ctx *gin.Context, name string, def int) (int, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}
