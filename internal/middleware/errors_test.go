package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/apperror"
)

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/test", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandler(t *testing.T) {
	t.Run("erreur typée traduite en statut + message", func(t *testing.T) {
		w := performRequest(func(c *gin.Context) {
			c.Error(apperror.NotFound("Produit introuvable"))
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Produit introuvable", body["message"])
	})

	t.Run("erreur non typée masquée en 500", func(t *testing.T) {
		w := performRequest(func(c *gin.Context) {
			c.Error(errors.New("détail interne qui ne doit pas fuiter"))
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Erreur interne du serveur", body["message"])
	})

	t.Run("seule la dernière erreur répond", func(t *testing.T) {
		w := performRequest(func(c *gin.Context) {
			c.Error(apperror.BadRequest("première"))
			c.Error(apperror.Forbidden("dernière"))
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "dernière", decodeBody(t, w)["message"])
	})

	t.Run("réponse déjà écrite laissée intacte", func(t *testing.T) {
		w := performRequest(func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["success"])
	})
}
