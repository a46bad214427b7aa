package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/halewick/tradeportal-backend/internal/http/response"
	"github.com/halewick/tradeportal-backend/internal/repos"
	"github.com/halewick/tradeportal-backend/internal/services"
)

type ProductHandler struct {
	products services.ProductService
}

func NewProductHandler(products services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c *gin.Context) {
	items, err := h.products.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "catalog_unavailable", err)
		return
	}
	response.RespondOK(c, gin.H{"products": items})
}

func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}
	product, err := h.products.Get(c.Request.Context(), productID)
	if errors.Is(err, repos.ErrProductNotFound) {
		response.RespondError(c, http.StatusNotFound, "product_not_found", err)
		return
	}
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "catalog_unavailable", err)
		return
	}
	response.RespondOK(c, gin.H{"product": product})
}
