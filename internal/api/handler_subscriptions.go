package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-waste-scheduler/internal/model"
)

type subscriptionRequest struct {
	Endpoint         string   `json:"endpoint" binding:"required"`
	P256DH           string   `json:"p256dh" binding:"required"`
	Auth             string   `json:"auth" binding:"required"`
	SubscribedHotels []string `json:"subscribed_hotels"`
}

type subscriptionResponse struct {
	SubscribedHotels []string `json:"subscribed_hotels"`
}

// PutSubscription handles PUT /api/subscriptions. The hotel set replaces
// whatever the endpoint was subscribed to before.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := &model.PushSubscription{
		Endpoint:  req.Endpoint,
		P256DH:    req.P256DH,
		Auth:      req.Auth,
		CreatedAt: h.service.Now(),
	}
	if err := h.store.SaveSubscription(c.Request.Context(), sub, req.SubscribedHotels); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// DeleteSubscription handles DELETE /api/subscriptions.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// endpointParam reads ?endpoint= without unescaping; push endpoints are stored
// exactly as the browser reported them.
func endpointParam(rawQuery string) string {
	for _, kv := range strings.Split(rawQuery, "&") {
		if v, ok := strings.CutPrefix(kv, "endpoint="); ok {
			return v
		}
	}
	return ""
}

// GetSubscription handles GET /api/subscriptions?endpoint=...
func (h *Handler) GetSubscription(c *gin.Context) {
	endpoint := endpointParam(c.Request.URL.RawQuery)
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	ids, err := h.store.SubscribedHotelIDs(c.Request.Context(), endpoint)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subscriptionResponse{SubscribedHotels: ids})
}

// GetVAPIDPublicKey returns the key browsers need to subscribe to alert pushes.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	if h.webpush == nil || h.webpush.VAPIDPublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_key": h.webpush.VAPIDPublicKey})
}
