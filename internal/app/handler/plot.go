package handler

import (
	"net/http"
	"strconv"

	"Backend-Plotter/internal/app/config"
	"Backend-Plotter/internal/app/controller"
	"Backend-Plotter/internal/app/ds"

	"github.com/gin-gonic/gin"
)

type PlotHandler struct {
	ctrl *controller.Controller
	conf *config.Config
}

func NewPlotHandler(ctrl *controller.Controller, conf *config.Config) *PlotHandler {
	return &PlotHandler{
		ctrl: ctrl,
		conf: conf,
	}
}

// PlotResponse ответ разового построения
type PlotResponse struct {
	Chart  ds.ChartSpec `json:"chart"`
	Table  ds.TableView `json:"table"`
	Params ds.ParamsDTO `json:"params"`
}

// Plot godoc
// @Summary Plot file
// @Description Build chart and table from a file without creating a session
// @Tags Plot
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Param start_date formData string false "Start date (YYYY-MM-DD)"
// @Param end_date formData string false "End date (YYYY-MM-DD)"
// @Param window_size formData int false "Moving average window" default(5)
// @Success 200 {object} PlotResponse
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /plot [post]
func (h *PlotHandler) Plot(ctx *gin.Context) {
	filename, data, ok := readUpload(ctx, h.conf.MaxUploadSize)
	if !ok {
		return
	}

	update := &ds.ParamsUpdate{}
	if v, exists := ctx.GetPostForm("start_date"); exists && v != "" {
		update.StartDate = &v
	}
	if v, exists := ctx.GetPostForm("end_date"); exists && v != "" {
		update.EndDate = &v
	}
	if v, exists := ctx.GetPostForm("window_size"); exists && v != "" {
		window, err := strconv.Atoi(v)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window_size"})
			return
		}
		update.WindowSize = &window
	}

	result, params, err := h.ctrl.Plot(filename, data, update)
	if err != nil {
		respondError(ctx, err, "Failed to plot file")
		return
	}

	ctx.JSON(http.StatusOK, PlotResponse{
		Chart:  result.Chart,
		Table:  result.Table,
		Params: params.DTO(),
	})
}
