package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
	"velora_back_end/internal/services"
	"velora_back_end/internal/utils"
)

// Signup crée un compte : avatar poussé vers MinIO, mot de passe hashé
// bcrypt, email unique, session ouverte dans la foulée.
func Signup(c *gin.Context) {
	var input struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		MobileNo    string `json:"mobileNo"`
		Avatar      string `json:"avatar"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if input.Name == "" || input.Email == "" || input.Password == "" {
		c.Error(apperror.BadRequest("Veuillez remplir tous les champs"))
		return
	}
	if input.Avatar == "" {
		c.Error(apperror.BadRequest("Veuillez fournir un avatar"))
		return
	}

	mobileNo := ""
	if input.MobileNo != "" {
		formatted, err := utils.FormatMobileNumber(input.MobileNo)
		if err != nil {
			c.Error(err)
			return
		}
		mobileNo = formatted
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	// email déjà pris ?
	var existing models.User
	err := database.Users().FindOne(ctx, bson.M{"email": input.Email}).Decode(&existing)
	if err == nil {
		c.Error(apperror.New(http.StatusConflict, "Un compte avec cet email existe déjà"))
		return
	}

	avatar, err := services.UploadBase64(ctx, input.Avatar, services.AvatarOptions)
	if err != nil {
		c.Error(err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Error(apperror.Internal("Erreur création utilisateur"))
		return
	}

	now := time.Now()
	user := models.User{
		Name:        input.Name,
		Email:       input.Email,
		Password:    string(hashedPassword),
		MobileNo:    mobileNo,
		Avatar:      avatar,
		Role:        models.RoleUser,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := database.Users().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.Error(apperror.New(http.StatusConflict, "Un compte avec cet email existe déjà"))
			return
		}
		c.Error(apperror.Internal("Erreur création utilisateur"))
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	log.Printf("✅ Nouveau compte : %s", user.Email)
	utils.SendToken(c, &user, http.StatusCreated)
}

// Login vérifie les identifiants et ouvre une session.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if input.Email == "" || input.Password == "" {
		c.Error(apperror.BadRequest("Veuillez saisir email et mot de passe"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := database.Users().FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.Error(apperror.Unauthorized("Email ou mot de passe incorrect"))
			return
		}
		c.Error(apperror.Internal("Erreur connexion base de données"))
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		c.Error(apperror.Unauthorized("Email ou mot de passe incorrect"))
		return
	}

	utils.SendToken(c, &user, http.StatusOK)
}

// Logout invalide le cookie de session. Se déconnecter sans être connecté
// répond en 200 avec un message d'erreur métier.
func Logout(c *gin.Context) {
	cookie, err := c.Cookie(utils.TokenCookieName)
	utils.ClearTokenCookie(c)

	if err != nil || cookie == "" {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Connectez-vous d'abord pour vous déconnecter",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Déconnexion réussie",
	})
}
