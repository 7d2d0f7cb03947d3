package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"velora_back_end/internal/apperror"
)

func TestResponseStatus(t *testing.T) {
	newContext := func() (*gin.Context, *httptest.ResponseRecorder) {
		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
		return c, w
	}

	t.Run("erreur typée pas encore rendue", func(t *testing.T) {
		c, _ := newContext()
		c.Error(apperror.Unauthorized("Email ou mot de passe incorrect"))

		// le writer dit encore 200, le statut effectif est celui de l'erreur
		assert.Equal(t, http.StatusOK, c.Writer.Status())
		assert.Equal(t, http.StatusUnauthorized, responseStatus(c))
	})

	t.Run("erreur non typée comptée comme 500", func(t *testing.T) {
		c, _ := newContext()
		c.Error(errors.New("panne interne"))

		assert.Equal(t, http.StatusInternalServerError, responseStatus(c))
	})

	t.Run("réponse écrite directement", func(t *testing.T) {
		c, _ := newContext()
		c.Status(http.StatusCreated)

		assert.Equal(t, http.StatusCreated, responseStatus(c))
	})

	t.Run("sans erreur ni écriture", func(t *testing.T) {
		c, _ := newContext()
		assert.Equal(t, http.StatusOK, responseStatus(c))
	})
}

// Un limiteur placé entre ErrorHandler et le handler doit voir l'échec du
// login au retour de c.Next(), même si la réponse 401 n'est rendue que
// plus tard par ErrorHandler.
func TestResponseStatusSeenByInnerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())

	var observed int
	observer := func(c *gin.Context) {
		c.Next()
		observed = responseStatus(c)
	}
	r.POST("/login", observer, func(c *gin.Context) {
		c.Error(apperror.Unauthorized("Email ou mot de passe incorrect"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.fr"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, observed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
