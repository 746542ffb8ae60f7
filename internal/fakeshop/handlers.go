package fakeshop

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gurkerl-cli/internal/domain"
)

type handlers struct {
	store  *Store
	logger *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "email and password required")
		return
	}
	token, err := h.store.Login(req.Email, req.Password)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	c.SetCookie(sessionCookie, token, int(domain.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, envelope{
		Status:   http.StatusOK,
		Messages: []string{},
		Data: gin.H{
			"accessToken": token,
			"user":        gin.H{"email": strings.ToLower(strings.TrimSpace(req.Email))},
		},
	})
}

func (h *handlers) suggest(c *gin.Context) {
	ids := h.store.Search(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"productIds": ids})
}

func (h *handlers) productCards(c *gin.Context) {
	var ids []domain.ProductID
	for _, raw := range c.QueryArray("products") {
		for _, part := range strings.Split(raw, ",") {
			id, ok := parseInt64(strings.TrimSpace(part))
			if !ok {
				abortWithError(c, http.StatusBadRequest, "invalid product id")
				return
			}
			ids = append(ids, domain.ProductID(id))
		}
	}
	cards := make([]productCardPayload, 0, len(ids))
	for _, p := range h.store.Products(ids) {
		cards = append(cards, toProductCard(p))
	}
	c.JSON(http.StatusOK, cards)
}

func (h *handlers) checkCart(c *gin.Context) {
	cart := h.store.Cart(c.GetString(emailKey))
	c.JSON(http.StatusOK, envelope{
		Status:   http.StatusOK,
		Messages: []string{},
		Data:     toCartPayload(cart),
	})
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *handlers) setQuantity(c *gin.Context) {
	fieldID, ok := parseInt64(c.Param("orderFieldId"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "invalid orderFieldId")
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Quantity < 0 {
		abortWithError(c, http.StatusBadRequest, "quantity must be a non-negative integer")
		return
	}
	err := h.store.SetQuantity(c.GetString(emailKey), domain.OrderFieldID(fieldID), *req.Quantity)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Status: http.StatusOK, Messages: []string{}})
}

type addItemRequest struct {
	Amount    int              `json:"amount" binding:"required,min=1"`
	ProductID domain.ProductID `json:"productId" binding:"required"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "amount and productId required")
		return
	}
	if err := h.store.AddToCart(c.GetString(emailKey), req.ProductID, req.Amount); err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, envelope{Status: http.StatusOK, Messages: []string{}})
}

func (h *handlers) listIDs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shoppingLists": h.store.ListIDs(c.GetString(emailKey))})
}

func (h *handlers) showList(c *gin.Context) {
	id, ok := parseInt64(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "invalid list id")
		return
	}
	list, err := h.store.List(c.GetString(emailKey), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type createListRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *handlers) createList(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		abortWithError(c, http.StatusBadRequest, "name required")
		return
	}
	id := h.store.CreateList(c.GetString(emailKey), strings.TrimSpace(req.Name))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *handlers) deleteList(c *gin.Context) {
	id, ok := parseInt64(c.Param("id"))
	if !ok {
		abortWithError(c, http.StatusBadRequest, "invalid list id")
		return
	}
	if err := h.store.DeleteList(c.GetString(emailKey), id); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) orders(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			abortWithError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = v
	}
	orders := h.store.Orders(c.GetString(emailKey), limit)
	out := make([]orderPayload, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderPayload(o, false))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

func (h *handlers) order(c *gin.Context) {
	o, err := h.store.Order(c.GetString(emailKey), c.Param("number"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderPayload(o, true))
}

func (h *handlers) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errUnknownProduct), errors.Is(err, errUnknownLine),
		errors.Is(err, errUnknownList), errors.Is(err, errUnknownOrder):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, errOverStock):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("store failure", "err", err)
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
}
