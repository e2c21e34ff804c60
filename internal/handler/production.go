package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductionHandler serves the derived capacity views and report downloads.
// onReport, when set, is told about every generated report (metrics).
type ProductionHandler struct {
	svc      service.ProductionService
	onReport func(format string)
}

func NewProductionHandler(svc service.ProductionService, onReport func(format string)) *ProductionHandler {
	if onReport == nil {
		onReport = func(string) {}
	}
	return &ProductionHandler{svc: svc, onReport: onReport}
}

// Suggestions godoc
// @Summary Production suggestions, most valuable products first
// @Description Products are visited by unit price descending; each one consumes
// @Description the stock it would use before the next is evaluated.
// @Tags production
// @Produce json
// @Success 200 {array} dto.ProductionSuggestion
// @Router /production/suggestions [get]
func (h *ProductionHandler) Suggestions(c *gin.Context) {
	resp, err := h.svc.Suggestions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Capacity godoc
// @Summary Producible quantity of every product against the full stock
// @Tags production
// @Produce json
// @Success 200 {object} dto.CapacityReportResponse
// @Router /production/capacity [get]
func (h *ProductionHandler) Capacity(c *gin.Context) {
	resp, err := h.svc.Capacity(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProductCapacity GET /production/capacity/:productId
func (h *ProductionHandler) ProductCapacity(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	resp, err := h.svc.ProductCapacity(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReportPDF GET /production/report.pdf
func (h *ProductionHandler) ReportPDF(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ReportPDF(c.Request.Context(), &buf); err != nil {
		fail(c, err)
		return
	}
	h.onReport("pdf")
	name := "production_" + time.Now().UTC().Format("20060102_150405") + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// ReportXLSX GET /production/report.xlsx
func (h *ProductionHandler) ReportXLSX(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.ReportXLSX(c.Request.Context(), &buf); err != nil {
		fail(c, err)
		return
	}
	h.onReport("xlsx")
	name := "production_" + time.Now().UTC().Format("20060102_150405") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
