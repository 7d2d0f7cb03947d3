package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/config"
	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
	"velora_back_end/internal/services"
	"velora_back_end/internal/utils"
)

const resetTokenTTL = 15 * time.Minute

// ForgotPassword émet un token de réinitialisation : empreinte sha256 et
// expiration stockées sur le document utilisateur, token en clair envoyé
// par email. Si l'envoi échoue, le token est effacé — pas de retry.
func ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
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
		c.Error(apperror.Internal("Erreur connexion base de données"))
		return
	}

	token, hash, err := utils.GenerateResetToken()
	if err != nil {
		c.Error(apperror.Internal("Erreur génération du token"))
		return
	}

	_, err = database.Users().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"resetPasswordToken":  hash,
		"resetPasswordExpire": time.Now().Add(resetTokenTTL),
	}})
	if err != nil {
		c.Error(apperror.Internal("Erreur enregistrement du token"))
		return
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/password/reset/%s", config.App.PublicURL, token)
	message := fmt.Sprintf("Votre token de réinitialisation est : %s\n\nCliquez sur le lien ci-dessous pour réinitialiser votre mot de passe\n\n%s", token, resetURL)

	if err := services.SendEmail(user.Email, "Récupération de mot de passe Velora", message); err != nil {
		// échec d'envoi : on efface le token plutôt que de réessayer
		_, clearErr := database.Users().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$unset": bson.M{
			"resetPasswordToken":  "",
			"resetPasswordExpire": "",
		}})
		if clearErr != nil {
			log.Println("⚠️ Nettoyage du token de reset échoué:", clearErr)
		}
		c.Error(apperror.Internal(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Email envoyé à %s avec succès", user.Email),
	})
}

// ResetPassword valide le token reçu par email et remplace le mot de passe.
func ResetPassword(c *gin.Context) {
	var input struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if input.Password == "" {
		c.Error(apperror.BadRequest("Veuillez saisir un mot de passe"))
		return
	}
	if input.Password != input.ConfirmPassword {
		c.Error(apperror.BadRequest("Les mots de passe ne correspondent pas"))
		return
	}

	hash := utils.HashResetToken(c.Param("token"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{
		"resetPasswordToken":  hash,
		"resetPasswordExpire": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.Error(apperror.BadRequest("Le token de réinitialisation est invalide ou a expiré"))
			return
		}
		c.Error(apperror.Internal("Erreur connexion base de données"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Error(apperror.Internal("Erreur lors de la réinitialisation"))
		return
	}

	_, err = database.Users().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set":   bson.M{"password": string(hashedPassword), "updatedAt": time.Now()},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	})
	if err != nil {
		c.Error(apperror.Internal("Erreur lors de la mise à jour"))
		return
	}

	log.Printf("✅ Mot de passe réinitialisé pour %s", user.Email)
	utils.SendToken(c, &user, http.StatusOK)
}

// UpdateMyPassword change le mot de passe de l'utilisateur connecté après
// vérification de l'ancien.
func UpdateMyPassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if input.CurrentPassword == "" || input.NewPassword == "" || input.ConfirmPassword == "" {
		c.Error(apperror.BadRequest("Veuillez remplir tous les champs"))
		return
	}

	user := middleware.CurrentUser(c)
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)) != nil {
		c.Error(apperror.BadRequest("L'ancien mot de passe est incorrect"))
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		c.Error(apperror.BadRequest("Les mots de passe ne correspondent pas"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.Error(apperror.Internal("Erreur lors du changement de mot de passe"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	_, err = database.Users().UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"password":  string(hashedPassword),
		"updatedAt": time.Now(),
	}})
	if err != nil {
		c.Error(apperror.Internal("Erreur lors de la mise à jour"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Mot de passe mis à jour avec succès",
	})
}
