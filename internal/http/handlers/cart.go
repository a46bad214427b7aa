package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/halewick/tradeportal-backend/internal/http/response"
	"github.com/halewick/tradeportal-backend/internal/pkg/logger"
	"github.com/halewick/tradeportal-backend/internal/repos"
	"github.com/halewick/tradeportal-backend/internal/services"
)

type CartHandler struct {
	log  *logger.Logger
	cart services.CartService
}

func NewCartHandler(log *logger.Logger, cart services.CartService) *CartHandler {
	return &CartHandler{log: log.With("handler", "CartHandler"), cart: cart}
}

func (h *CartHandler) respondState(c *gin.Context, state services.CartState) {
	response.RespondOK(c, gin.H{
		"items":  state.Items,
		"groups": services.SummarizeGroups(state.Items),
		"total":  services.CartTotal(state.Items),
		"error":  state.Error,
	})
}

// respondCartError maps coordinator failures onto the transport: busy gate
// to 409, local validation to 400, anything remote to 502.
func (h *CartHandler) respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCartBusy):
		response.RespondError(c, http.StatusConflict, "cart_busy", err)
	case errors.Is(err, services.ErrInvalidQuantity):
		response.RespondError(c, http.StatusBadRequest, "invalid_quantity", err)
	case errors.Is(err, repos.ErrProductNotFound):
		response.RespondError(c, http.StatusNotFound, "product_not_found", err)
	case errors.Is(err, services.ErrUnauthorized):
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	default:
		response.RespondError(c, http.StatusBadGateway, "persistence_failure", err)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	state, err := h.cart.Load(c.Request.Context())
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondState(c, state)
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Color     string `json:"color" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_product_id", err)
		return
	}
	state, err := h.cart.Add(c.Request.Context(), productID, req.Color, req.Size, req.Quantity)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondState(c, state)
}

func (h *CartHandler) itemID(c *gin.Context) (uuid.UUID, bool) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
		return uuid.Nil, false
	}
	return itemID, true
}

func (h *CartHandler) Increase(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}
	state, err := h.cart.Increase(c.Request.Context(), itemID)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondState(c, state)
}

func (h *CartHandler) Decrease(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}
	state, err := h.cart.Decrease(c.Request.Context(), itemID)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondState(c, state)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	state, err := h.cart.SetItemQuantity(c.Request.Context(), itemID, req.Quantity)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondState(c, state)
}

func (h *CartHandler) Remove(c *gin.Context) {
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}
	state, err := h.cart.Remove(c.Request.Context(), itemID)
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondState(c, state)
}

func (h *CartHandler) Clear(c *gin.Context) {
	state, err := h.cart.Clear(c.Request.Context())
	if err != nil {
		h.respondCartError(c, err)
		return
	}
	h.respondState(c, state)
}
