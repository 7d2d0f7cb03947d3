package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/config"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

const ContextUserKey = "user"

// AuthRequired lit le token de session (cookie "token", ou header Bearer en
// secours), le vérifie, charge l'utilisateur référencé et l'attache au
// contexte de la requête.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionToken(c)
		if tokenString == "" {
			abort(c, apperror.Unauthorized("Connectez-vous d'abord pour accéder à cette ressource"))
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
			}
			return []byte(config.App.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abort(c, apperror.Unauthorized("Token invalide ou expiré"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, apperror.Unauthorized("Token invalide"))
			return
		}

		id, _ := claims["id"].(string)
		userID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			abort(c, apperror.Unauthorized("Token invalide"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := database.Users().FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				abort(c, apperror.NotFound("Utilisateur introuvable"))
				return
			}
			abort(c, apperror.Internal("Erreur connexion base de données"))
			return
		}

		c.Set(ContextUserKey, &user)
		c.Next()
	}
}

// AuthorizeRoles réserve la route aux rôles listés. À placer après
// AuthRequired.
func AuthorizeRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abort(c, apperror.Unauthorized("Connectez-vous d'abord pour accéder à cette ressource"))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abort(c, apperror.Forbidden(fmt.Sprintf("Le rôle %s n'est pas autorisé à accéder à cette ressource", user.Role)))
	}
}

// CurrentUser retourne l'utilisateur attaché par AuthRequired, ou nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(utils.TokenCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func abort(c *gin.Context, err *apperror.Error) {
	_ = c.Error(err)
	c.Abort()
}
