package handler

import (
	"fmt"
	"net/http"

	"Backend-Plotter/internal/app/config"
	"Backend-Plotter/internal/app/controller"
	"Backend-Plotter/internal/app/ds"
	"Backend-Plotter/internal/app/middleware"
	"Backend-Plotter/internal/app/render"
	"Backend-Plotter/internal/app/repository"
	"Backend-Plotter/internal/app/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SessionHandler struct {
	ctrl *controller.Controller
	conf *config.Config
	repo *repository.Repository
}

func NewSessionHandler(ctrl *controller.Controller, conf *config.Config, repo *repository.Repository) *SessionHandler {
	return &SessionHandler{
		ctrl: ctrl,
		conf: conf,
		repo: repo,
	}
}

// CreateSession godoc
// @Summary Create session
// @Description Create an empty plotting session and return its token
// @Tags Sessions
// @Produce json
// @Success 201 {object} ds.SessionTokenResponse
// @Failure 500 {object} map[string]string
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(ctx *gin.Context) {
	session, err := h.ctrl.CreateSession(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, "Failed to create session")
		return
	}

	token, expiresAt, err := utils.GenerateSessionToken(session.ID, h.conf.SessionSecret, h.conf.SessionExpire)
	if err != nil {
		logrus.Error("Failed to generate session token: ", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	ctx.JSON(http.StatusCreated, ds.SessionTokenResponse{
		SessionID: session.ID,
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	})
}

// GetSession godoc
// @Summary Get current session
// @Description Get uploaded file info, date bounds and current parameters
// @Tags Sessions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} ds.SessionSummary
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/current [get]
func (h *SessionHandler) GetSession(ctx *gin.Context) {
	sessionID, _ := middleware.GetSessionID(ctx)

	session, err := h.ctrl.GetSession(ctx.Request.Context(), sessionID)
	if err != nil {
		respondError(ctx, err, "Failed to get session")
		return
	}

	ctx.JSON(http.StatusOK, session.Summary())
}

// DeleteSession godoc
// @Summary Close session
// @Description Drop session state and revoke its token
// @Tags Sessions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/current [delete]
func (h *SessionHandler) DeleteSession(ctx *gin.Context) {
	sessionID, _ := middleware.GetSessionID(ctx)

	if err := h.ctrl.DeleteSession(ctx.Request.Context(), sessionID); err != nil {
		respondError(ctx, err, "Failed to delete session")
		return
	}

	// Отзываем токен до истечения его срока
	if client := h.repo.GetRedisClient(); client != nil {
		token, _ := middleware.GetToken(ctx)
		claims, _ := middleware.GetClaims(ctx)
		if claims != nil {
			if err := client.AddToBlacklist(ctx.Request.Context(), token, utils.TokenTTL(claims)); err != nil {
				logrus.Error("Failed to add token to blacklist: ", err)
			}
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

// Upload godoc
// @Summary Upload time series file
// @Description Upload a CSV or XLSX file with a Time column; resets parameters to defaults
// @Tags Sessions
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} ds.SessionSummary
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /sessions/current/upload [post]
func (h *SessionHandler) Upload(ctx *gin.Context) {
	sessionID, _ := middleware.GetSessionID(ctx)

	filename, data, ok := readUpload(ctx, h.conf.MaxUploadSize)
	if !ok {
		return
	}

	session, err := h.ctrl.Upload(ctx.Request.Context(), sessionID, filename, data)
	if err != nil {
		respondError(ctx, err, "Failed to upload file")
		return
	}

	ctx.JSON(http.StatusOK, session.Summary())
}

// UpdateParams godoc
// @Summary Update display parameters
// @Description Partially update date range and moving average window
// @Tags Sessions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ds.ParamsUpdate true "Parameters to change"
// @Success 200 {object} ds.SessionSummary
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/current/params [put]
func (h *SessionHandler) UpdateParams(ctx *gin.Context) {
	sessionID, _ := middleware.GetSessionID(ctx)

	var req ds.ParamsUpdate
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	session, err := h.ctrl.UpdateParams(ctx.Request.Context(), sessionID, req)
	if err != nil {
		respondError(ctx, err, "Failed to update parameters")
		return
	}

	ctx.JSON(http.StatusOK, session.Summary())
}

// View godoc
// @Summary Get chart and table
// @Description Rebuild chart and a page of the table from the uploaded file and current parameters
// @Tags Sessions
// @Security BearerAuth
// @Produce json
// @Param page query int false "Table page" default(1)
// @Param page_size query int false "Table page size"
// @Success 200 {object} ds.ViewResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/current/view [get]
func (h *SessionHandler) View(ctx *gin.Context) {
	sessionID, _ := middleware.GetSessionID(ctx)

	page, ok := queryInt(ctx, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := queryInt(ctx, "page_size", h.conf.TablePageSize)
	if !ok {
		return
	}

	result, session, err := h.ctrl.View(ctx.Request.Context(), sessionID)
	if err != nil {
		respondError(ctx, err, "Failed to build view")
		return
	}

	tablePage := result.Table.Page(page, pageSize)
	ctx.JSON(http.StatusOK, ds.ViewResponse{
		Chart:      result.Chart,
		Table:      tablePage.TableView,
		Pagination: tablePage.Pagination,
		Params:     session.Params.DTO(),
	})
}

// Chart godoc
// @Summary Chart page
// @Description Render the current chart as an HTML page
// @Tags Sessions
// @Security BearerAuth
// @Produce html
// @Success 200 {string} string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/current/chart [get]
func (h *SessionHandler) Chart(ctx *gin.Context) {
	sessionID, _ := middleware.GetSessionID(ctx)

	result, _, err := h.ctrl.View(ctx.Request.Context(), sessionID)
	if err != nil {
		respondError(ctx, err, "Failed to build chart")
		return
	}

	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.Status(http.StatusOK)
	if err := render.Chart(ctx.Writer, result.Chart); err != nil {
		logrus.Error("Failed to render chart: ", err)
	}
}

// File godoc
// @Summary Download uploaded file
// @Description Download the raw file of the current upload
// @Tags Sessions
// @Security BearerAuth
// @Produce octet-stream
// @Success 200 {file} file
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /sessions/current/file [get]
func (h *SessionHandler) File(ctx *gin.Context) {
	sessionID, _ := middleware.GetSessionID(ctx)

	data, session, err := h.ctrl.UploadedFile(ctx.Request.Context(), sessionID)
	if err != nil {
		respondError(ctx, err, "Failed to get uploaded file")
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", session.Filename))
	ctx.Data(http.StatusOK, repository.ContentType(session.Filename), data)
}
