package product

import (
	"context"
	"encoding/json"
	"errors"
	"log"
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
	"velora_back_end/internal/query"
	"velora_back_end/internal/services"
)

// CreateProduct crée un produit (admin). Les images arrivent en data-URI
// base64 (une seule ou un tableau) et sont poussées vers MinIO avant
// l'insertion.
func CreateProduct(c *gin.Context) {
	var input struct {
		Name        string          `json:"name"`
		Description []string        `json:"description"`
		Price       float64         `json:"price"`
		Category    string          `json:"category"`
		Stock       int             `json:"stock"`
		Images      json.RawMessage `json:"images"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	if input.Name == "" || len(input.Description) == 0 || input.Price <= 0 || input.Category == "" {
		c.Error(apperror.BadRequest("Veuillez remplir tous les champs du produit"))
		return
	}
	if input.Stock < 0 {
		c.Error(apperror.BadRequest("Le stock ne peut pas être négatif"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	images := make([]models.Image, 0)
	for _, data := range normalizeImages(input.Images) {
		img, err := services.UploadBase64(ctx, data, services.ProductImageOptions)
		if err != nil {
			c.Error(err)
			return
		}
		images = append(images, img)
	}

	user := middleware.CurrentUser(c)
	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Stock:       input.Stock,
		Images:      images,
		Reviews:     []models.Review{},
		User:        user.ID,
		CreatedAt:   time.Now(),
	}

	result, err := database.Products().InsertOne(ctx, product)
	if err != nil {
		c.Error(apperror.Internal("Erreur création produit"))
		return
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	log.Printf("✅ Produit créé : %s (%s)", product.Name, product.ID.Hex())

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"product": product,
	})
}

// GetAllProducts liste les produits : recherche, filtres, note, catégorie,
// puis pagination. Le total est compté sur le même filtre, hors pagination.
func GetAllProducts(c *gin.Context) {
	feats := query.New(c.Request.URL.Query()).
		Search().
		Filter().
		FilterByRating().
		FilterByCategory()

	filter := feats.FilterDocument()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	resultsCount, err := database.Products().CountDocuments(ctx, filter)
	if err != nil {
		c.Error(apperror.Internal("Erreur comptage produits"))
		return
	}

	feats.Paginate()

	cursor, err := database.Products().Find(ctx, filter, feats.FindOptions())
	if err != nil {
		c.Error(apperror.Internal("Erreur lecture produits"))
		return
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		c.Error(apperror.Internal("Erreur décodage produits"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"results":        resultsCount,
		"returnProducts": len(products),
		"products":       products,
	})
}

// GetProduct retourne un produit par son id.
func GetProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
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

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// UpdateProduct met à jour les champs fournis (admin).
func UpdateProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("ID produit invalide"))
		return
	}

	var input struct {
		Name        *string   `json:"name"`
		Description *[]string `json:"description"`
		Price       *float64  `json:"price"`
		Category    *string   `json:"category"`
		Stock       *int      `json:"stock"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	update := bson.M{}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.Price != nil {
		update["price"] = *input.Price
	}
	if input.Category != nil {
		update["category"] = *input.Category
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			c.Error(apperror.BadRequest("Le stock ne peut pas être négatif"))
			return
		}
		update["stock"] = *input.Stock
	}
	if len(update) == 0 {
		c.Error(apperror.BadRequest("Aucun champ à mettre à jour"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := database.Products().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		c.Error(apperror.Internal("Erreur mise à jour produit"))
		return
	}
	if result.MatchedCount == 0 {
		c.Error(apperror.NotFound("Produit introuvable"))
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteProduct supprime le produit et nettoie ses images MinIO (best
// effort).
func DeleteProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.Error(apperror.BadRequest("ID produit invalide"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := database.Products().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.Error(apperror.NotFound("Produit introuvable"))
			return
		}
		c.Error(apperror.Internal("Erreur suppression produit"))
		return
	}

	for _, img := range product.Images {
		if err := services.RemoveObject(ctx, img.PublicID); err != nil {
			log.Printf("⚠️ Nettoyage image %s échoué: %v", img.PublicID, err)
		}
	}

	c.Status(http.StatusNoContent)
}

// normalizeImages accepte une image seule ou un tableau d'images.
func normalizeImages(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil && one != "" {
		return []string{one}
	}
	return nil
}
