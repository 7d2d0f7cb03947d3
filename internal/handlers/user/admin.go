package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/utils"
)

// GetUser retourne un utilisateur par son id (admin).
func GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("ID utilisateur invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.Error(apperror.NotFound("Utilisateur introuvable"))
			return
		}
		c.Error(apperror.Internal("Erreur lecture utilisateur"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// GetAllUsers liste les comptes de rôle "user" (admin).
func GetAllUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := database.Users().Find(ctx, bson.M{"role": models.RoleUser})
	if err != nil {
		c.Error(apperror.Internal("Erreur lecture utilisateurs"))
		return
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		c.Error(apperror.Internal("Erreur décodage utilisateurs"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"totalUsers": len(users),
		"users":      users,
	})
}

// UpdateUser met à jour un compte ciblé par l'email du body (admin) :
// nom, numéro de mobile, et éventuellement le rôle.
func UpdateUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		MobileNo string `json:"mobileNo"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users().FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.Error(apperror.NotFound("Utilisateur introuvable"))
			return
		}
		c.Error(apperror.Internal("Erreur lecture utilisateur"))
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != "" {
		update["name"] = input.Name
	}
	if input.Role != "" {
		if input.Role != models.RoleUser && input.Role != models.RoleAdmin {
			c.Error(apperror.BadRequest("Veuillez choisir un rôle valide"))
			return
		}
		update["role"] = input.Role
	}
	if input.MobileNo != "" {
		formatted, err := utils.FormatMobileNumber(input.MobileNo)
		if err != nil {
			c.Error(err)
			return
		}
		update["mobileNo"] = formatted
	}

	var updated models.User
	err := database.Users().FindOneAndUpdate(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": update},
		afterUpdate(),
	).Decode(&updated)
	if err != nil {
		c.Error(apperror.Internal("Erreur mise à jour utilisateur"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Utilisateur mis à jour avec succès",
		"updatedUser": updated,
	})
}

// DeleteUser supprime un compte par son id (admin).
func DeleteUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("ID utilisateur invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := database.Users().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.Error(apperror.Internal("Erreur suppression utilisateur"))
		return
	}
	if result.DeletedCount == 0 {
		c.Error(apperror.NotFound("Utilisateur introuvable"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Utilisateur supprimé avec succès",
	})
}

// afterUpdate demande le document après mise à jour.
func afterUpdate() *options.FindOneAndUpdateOptions {
	after := options.After
	return options.FindOneAndUpdate().SetReturnDocument(after)
}
