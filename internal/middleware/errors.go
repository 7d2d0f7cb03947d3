package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"velora_back_end/internal/apperror"
)

// ErrorHandler est le répondeur d'erreurs central : toute erreur attachée
// par un handler via c.Error(...) est traduite ici en statut HTTP + corps
// JSON uniforme {success: false, message}. Une erreur non typée est un 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := "Erreur interne du serveur"

		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			status = appErr.Status
			message = appErr.Message
		} else {
			log.Println("❌ Erreur inattendue:", err)
		}

		c.JSON(status, gin.H{"success": false, "message": message})
	}
}
