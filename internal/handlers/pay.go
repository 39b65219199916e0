package handlers

import (
	"fmt"
	"net/http"

	"infoshare/internal/middleware"
	"infoshare/internal/services"

	"github.com/gin-gonic/gin"
)

type PayHandler struct {
	paywall *services.PaywallService
}

func NewPayHandler(svc *services.Services) *PayHandler {
	return &PayHandler{paywall: svc.Paywall}
}

// Pay unlocks a private post with points.
func (h *PayHandler) Pay(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		jsonError(c, services.ErrNotFound)
		return
	}

	receipt, err := h.paywall.PayForPost(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		jsonError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Post unlocked for %d points", receipt.Price),
		"receipt": receipt,
	})
}
