package handler

import (
	"context"
	"net/http"

	"Backend-Plotter/internal/app/ds"
	"Backend-Plotter/internal/app/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UploadLogReader источник журнала загрузок
type UploadLogReader interface {
	GetUploadLogs(ctx context.Context, status, sessionID string, page, pageSize int) ([]ds.UploadLog, ds.PaginationInfo, error)
}

type UploadLogHandler struct {
	logs UploadLogReader
}

// NewUploadLogHandler создает хендлер журнала; nil означает, что журнал отключен
func NewUploadLogHandler(logs UploadLogReader) *UploadLogHandler {
	return &UploadLogHandler{
		logs: logs,
	}
}

// GetUploadLogs godoc
// @Summary Get upload log of the current session
// @Description Get paginated list of upload attempts of the current session, newest first
// @Tags Sessions
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (parsed, failed)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(8)
// @Success 200 {object} ds.PaginatedUploadLogsResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /sessions/current/uploads [get]
func (h *UploadLogHandler) GetUploadLogs(ctx *gin.Context) {
	if h.logs == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Upload log is disabled"})
		return
	}

	sessionID, exists := middleware.GetSessionID(ctx)
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Session token required"})
		return
	}

	status := ctx.Query("status")
	if status != "" && status != ds.UploadStatusParsed && status != ds.UploadStatusFailed {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	page, ok := queryInt(ctx, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := queryInt(ctx, "page_size", ds.DefaultLogPageSize)
	if !ok {
		return
	}

	logs, pagination, err := h.logs.GetUploadLogs(ctx.Request.Context(), status, sessionID, page, pageSize)
	if err != nil {
		logrus.Error("Failed to get upload logs: ", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get upload logs"})
		return
	}

	response := ds.PaginatedUploadLogsResponse{
		Data:       logs,
		Pagination: pagination,
	}
	if status != "" {
		response.Filters = &ds.UploadLogFiltersInfo{Status: status}
	}
	if response.Data == nil {
		response.Data = []ds.UploadLog{}
	}

	ctx.JSON(http.StatusOK, response)
}
