package handler

import (
	"net/http"

	"github.com/stain603/industrial-inventory-manager/internal/dto"
	"github.com/stain603/industrial-inventory-manager/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductMaterialsHandler exposes single bill-of-materials lines.
type ProductMaterialsHandler struct{ svc service.ProductMaterialService }

func NewProductMaterialsHandler(svc service.ProductMaterialService) *ProductMaterialsHandler {
	return &ProductMaterialsHandler{svc: svc}
}

func (h *ProductMaterialsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductMaterialsHandler) Get(c *gin.Context) {
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

// ListByProduct GET /product-materials/product/:productId
func (h *ProductMaterialsHandler) ListByProduct(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	resp, err := h.svc.ListByProduct(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductMaterialsHandler) Create(c *gin.Context) {
	var req dto.CreateProductMaterialRequest
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

func (h *ProductMaterialsHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductMaterialRequest
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

func (h *ProductMaterialsHandler) Delete(c *gin.Context) {
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
