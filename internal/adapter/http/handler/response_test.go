package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ressKim-io/topic-ensemble/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondSuccess(t *testing.T) {
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		respondSuccess(c, http.StatusOK, map[string]string{"key": "value"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key":"value"}`, w.Body.String())
}

func TestRespondError(t *testing.T) {
	t.Run("returns error response with request id", func(t *testing.T) {
		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			c.Set("request_id", "test-request-id")
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid input")
		})

		req, _ := http.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorBody
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "INVALID_REQUEST", response.Code)
		assert.Equal(t, "invalid input", response.Error)
		assert.Equal(t, "test-request-id", response.RequestID)
	})

	t.Run("omits request id when not set", func(t *testing.T) {
		router := gin.New()
		router.GET("/test", func(c *gin.Context) {
			respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "something went wrong")
		})

		req, _ := http.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"something went wrong","code":"INTERNAL_ERROR"}`, w.Body.String())
	})
}

func TestRespondPredictFailure(t *testing.T) {
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		respondPredictFailure(c, &usecase.AllModelsFailedError{Description: "  Raw Text "})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{
		"cluster": -1,
		"cluster_name": "Unknown",
		"description": "  Raw Text ",
		"model_used": "none",
		"error": "All models failed to predict",
		"warning": "No working models available",
		"code": "ALL_MODELS_FAILED"
	}`, w.Body.String())
}
