package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-waste-scheduler/internal/model"
)

func setupSubscriptionRouter() *gin.Engine {
	r := gin.New()
	handler := NewHandler(nil, nil, nil, 4, nil)
	r.PUT("/api/subscriptions", handler.PutSubscription)
	r.GET("/api/vapid_public_key", handler.GetVAPIDPublicKey)
	return r
}

func TestPutSubscription_InvalidRequest(t *testing.T) {
	router := setupSubscriptionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/api/subscriptions", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid request"}`, w.Body.String())
}

func TestGetVAPIDPublicKey_NotConfigured(t *testing.T) {
	router := setupSubscriptionRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/vapid_public_key", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	env := newTestEnv(t, "Grand Plaza", "Seaside")
	endpoint := "https://push.example.com/abc"

	body, _ := json.Marshal(gin.H{
		"endpoint":          endpoint,
		"p256dh":            "key",
		"auth":              "secret",
		"subscribed_hotels": []string{env.hotels[0].ID, env.hotels[1].ID},
	})
	w := env.do(t, http.MethodPut, "/api/subscriptions", bytes.NewReader(body))
	require.Equal(t, http.StatusCreated, w.Code)

	// Replacing the subscription narrows it to one hotel.
	body, _ = json.Marshal(gin.H{
		"endpoint":          endpoint,
		"p256dh":            "key2",
		"auth":              "secret2",
		"subscribed_hotels": []string{env.hotels[1].ID},
	})
	w = env.do(t, http.MethodPut, "/api/subscriptions", bytes.NewReader(body))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/subscriptions?endpoint="+endpoint, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscribed_hotels":["`+env.hotels[1].ID+`"]}`, w.Body.String())

	var sub model.PushSubscription
	require.NoError(t, env.db.First(&sub, "endpoint = ?", endpoint).Error)
	assert.Equal(t, "key2", sub.P256DH)

	body, _ = json.Marshal(gin.H{"endpoint": endpoint})
	w = env.do(t, http.MethodDelete, "/api/subscriptions", bytes.NewReader(body))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/subscriptions?endpoint="+url.QueryEscape(endpoint), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var mappings int64
	require.NoError(t, env.db.Table("subscription_hotel_mapping").Count(&mappings).Error)
	assert.Equal(t, int64(0), mappings)
}

func TestPutSubscription_UnknownHotel(t *testing.T) {
	env := newTestEnv(t, "Grand Plaza")

	body, _ := json.Marshal(gin.H{
		"endpoint":          "https://push.example.com/xyz",
		"p256dh":            "key",
		"auth":              "secret",
		"subscribed_hotels": []string{"no-such-hotel"},
	})
	w := env.do(t, http.MethodPut, "/api/subscriptions", bytes.NewReader(body))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"hotel not found"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/subscriptions?endpoint=https://push.example.com/xyz", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
