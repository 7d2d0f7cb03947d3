package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"velora_back_end/internal/config"
	"velora_back_end/internal/models"
)

const TokenCookieName = "token"

// GenerateJWT signe un token de session HS256 portant l'id et le nom.
func GenerateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID.Hex(),
		"name": user.Name,
		"exp":  time.Now().Add(config.App.JWTExpiresIn).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.App.JWTSecret))
}

// SendToken émet le token de session, le pose en cookie httpOnly et répond.
func SendToken(c *gin.Context, user *models.User, status int) {
	token, err := GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Erreur génération du token"})
		return
	}

	c.SetCookie(TokenCookieName, token, int(config.App.CookieExpiresIn.Seconds()), "/", "", false, true)
	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// ClearTokenCookie invalide le cookie de session.
func ClearTokenCookie(c *gin.Context) {
	c.SetCookie(TokenCookieName, "", -1, "/", "", false, true)
}
