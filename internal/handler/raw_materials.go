package handler

import (
	"net/http"

	"github.com/stain603/industrial-inventory-manager/internal/apierror"
	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/service"

	"github.com/gin-gonic/gin"
)

type RawMaterialsHandler struct{ svc service.RawMaterialService }

func NewRawMaterialsHandler(svc service.RawMaterialService) *RawMaterialsHandler {
	return &RawMaterialsHandler{svc: svc}
}

// List godoc
// @Summary List raw materials
// @Tags raw-materials
// @Produce json
// @Param q query string false "Filter on code or name"
// @Success 200 {array} dto.RawMaterialResponse
// @Router /raw-materials [get]
func (h *RawMaterialsHandler) List(c *gin.Context) {
	var filter dto.RawMaterialFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get GET /raw-materials/:id
func (h *RawMaterialsHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Register a raw material
// @Tags raw-materials
// @Accept json
// @Produce json
// @Param body body dto.CreateRawMaterialRequest true "Raw material"
// @Success 201 {object} dto.RawMaterialResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /raw-materials [post]
func (h *RawMaterialsHandler) Create(c *gin.Context) {
	var req dto.CreateRawMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update PUT /raw-materials/:id
func (h *RawMaterialsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRawMaterialRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustStock PATCH /raw-materials/:id/stock
func (h *RawMaterialsHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movements godoc
// @Summary Stock ledger of a raw material, newest first
// @Tags raw-materials
// @Produce json
// @Param id path string true "Raw material ID"
// @Param kind query string false "receipt | usage"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {object} dto.StockMovementListResponse
// @Failure 404 {object} apierror.APIError
// @Router /raw-materials/{id}/movements [get]
func (h *RawMaterialsHandler) Movements(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var filter dto.StockMovementFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Movements(c.Request.Context(), id, filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete DELETE /raw-materials/:id
func (h *RawMaterialsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
