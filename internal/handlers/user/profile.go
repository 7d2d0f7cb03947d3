package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
	"velora_back_end/internal/services"
	"velora_back_end/internal/utils"
)

// GetMe retourne le profil de l'utilisateur connecté.
func GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    middleware.CurrentUser(c),
	})
}

// UpdateMe met à jour nom, numéro de mobile, description et éventuellement
// l'avatar. L'ancien avatar est retiré de MinIO quand il est remplacé.
func UpdateMe(c *gin.Context) {
	var input struct {
		Name        string `json:"name"`
		MobileNo    string `json:"mobileNo"`
		Description string `json:"description"`
		Avatar      string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if input.Name == "" || input.MobileNo == "" || input.Description == "" {
		c.Error(apperror.BadRequest("Champ requis manquant"))
		return
	}

	formattedMobileNo, err := utils.FormatMobileNumber(input.MobileNo)
	if err != nil {
		c.Error(err)
		return
	}

	user := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	update := bson.M{
		"name":        input.Name,
		"mobileNo":    formattedMobileNo,
		"description": input.Description,
		"updatedAt":   time.Now(),
	}

	if input.Avatar != "" {
		avatar, err := services.UploadBase64(ctx, input.Avatar, services.AvatarOptions)
		if err != nil {
			c.Error(err)
			return
		}
		if user.Avatar.PublicID != "" {
			if err := services.RemoveObject(ctx, user.Avatar.PublicID); err != nil {
				log.Printf("⚠️ Nettoyage ancien avatar échoué: %v", err)
			}
		}
		update["avatar"] = avatar
	}

	var updated models.User
	err = database.Users().FindOneAndUpdate(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": update},
		afterUpdate(),
	).Decode(&updated)
	if err != nil {
		c.Error(apperror.NotFound("Utilisateur introuvable"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Utilisateur mis à jour avec succès",
		"updatedUser": updated,
	})
}

// DeleteMe supprime le compte de l'utilisateur connecté et ferme sa session.
func DeleteMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := database.Users().DeleteOne(ctx, bson.M{"_id": user.ID})
	if err != nil {
		c.Error(apperror.Internal("Erreur suppression utilisateur"))
		return
	}
	if result.DeletedCount == 0 {
		c.Error(apperror.NotFound("Utilisateur introuvable"))
		return
	}

	if user.Avatar.PublicID != "" {
		if err := services.RemoveObject(ctx, user.Avatar.PublicID); err != nil {
			log.Printf("⚠️ Nettoyage avatar échoué: %v", err)
		}
	}

	utils.ClearTokenCookie(c)
	c.Status(http.StatusNoContent)
}
