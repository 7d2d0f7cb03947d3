package product

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/database"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
)

// CreateProductReview ajoute ou remplace l'avis de l'utilisateur connecté
// sur un produit. Un deuxième avis du même utilisateur écrase le premier.
// Mutation et recalcul des champs dérivés partent dans une seule mise à
// jour Mongo.
func CreateProductReview(c *gin.Context) {
	var input struct {
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if input.Rating == 0 || input.Comment == "" || input.ProductID == "" {
		c.Error(apperror.BadRequest("Champs requis manquants"))
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		c.Error(apperror.BadRequest("La note doit être comprise entre 1 et 5"))
		return
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		c.Error(apperror.BadRequest("ID produit invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.Error(apperror.NotFound("Produit introuvable"))
			return
		}
		c.Error(apperror.Internal("Erreur lecture produit"))
		return
	}

	user := middleware.CurrentUser(c)
	product.UpsertReview(models.Review{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Name:      user.Name,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now(),
	})

	if err := persistReviews(ctx, &product); err != nil {
		c.Error(apperror.Internal("Erreur enregistrement de l'avis"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"reviews":      product.Reviews,
		"numOfReviews": product.NumOfReviews,
		"rating":       product.Ratings,
		"message":      "Avis enregistré avec succès",
	})
}

// GetProductReviews retourne les avis d'un produit (?id=<productId>).
func GetProductReviews(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		c.Error(apperror.BadRequest("ID produit invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.Error(apperror.NotFound("Produit introuvable"))
			return
		}
		c.Error(apperror.Internal("Erreur lecture produit"))
		return
	}

	productImg := ""
	if len(product.Images) > 0 {
		productImg = product.Images[0].URL
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"reviews":      product.Reviews,
		"ratings":      product.Ratings,
		"productName":  product.Name,
		"productImg":   productImg,
		"totalReviews": len(product.Reviews),
	})
}

// DeleteProductReview supprime un avis par son id (?id=<reviewId>) et
// recalcule les champs dérivés du produit porteur.
func DeleteProductReview(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		c.Error(apperror.BadRequest("ID avis invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products().FindOne(ctx, bson.M{"reviews._id": reviewID}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.Error(apperror.NotFound("Aucun produit avec cet avis"))
			return
		}
		c.Error(apperror.Internal("Erreur lecture produit"))
		return
	}

	if !product.RemoveReview(reviewID) {
		c.Error(apperror.NotFound("Aucun produit avec cet avis"))
		return
	}

	if err := persistReviews(ctx, &product); err != nil {
		c.Error(apperror.Internal("Erreur suppression de l'avis"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// persistReviews écrit avis + champs dérivés en une seule mise à jour,
// pour que ratings/numOfReviews ne divergent jamais de la liste.
func persistReviews(ctx context.Context, product *models.Product) error {
	_, err := database.Products().UpdateOne(ctx,
		bson.M{"_id": product.ID},
		bson.M{"$set": bson.M{
			"reviews":      product.Reviews,
			"ratings":      product.Ratings,
			"numOfReviews": product.NumOfReviews,
		}},
	)
	return err
}
