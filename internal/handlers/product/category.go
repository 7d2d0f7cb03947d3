package product

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/database"
)

// GetProductsCategories retourne la liste triée des catégories distinctes,
// calculée par pipeline d'agrégation.
func GetProductsCategories(c *gin.Context) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"categories": bson.M{"$addToSet": "$category"},
		}}},
		{{Key: "$unwind", Value: "$categories"}},
		{{Key: "$sort", Value: bson.M{"categories": 1}}},
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"categories": bson.M{"$push": "$categories"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":        0,
			"categories": 1,
		}}},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := database.Products().Aggregate(ctx, pipeline)
	if err != nil {
		c.Error(apperror.Internal("Erreur agrégation catégories"))
		return
	}
	defer cursor.Close(ctx)

	var results []struct {
		Categories []string `bson:"categories"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		c.Error(apperror.Internal("Erreur décodage catégories"))
		return
	}

	categories := make([]string, 0)
	for _, r := range results {
		categories = append(categories, r.Categories...)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// PriceInfo retourne le prix minimum et maximum du catalogue.
func PriceInfo(c *gin.Context) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"minPrice": bson.M{"$min": "$price"},
			"maxPrice": bson.M{"$max": "$price"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"minPrice": 1,
			"maxPrice": 1,
		}}},
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := database.Products().Aggregate(ctx, pipeline)
	if err != nil {
		c.Error(apperror.Internal("Erreur agrégation prix"))
		return
	}
	defer cursor.Close(ctx)

	var results []struct {
		MinPrice float64 `bson:"minPrice"`
		MaxPrice float64 `bson:"maxPrice"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		c.Error(apperror.Internal("Erreur décodage prix"))
		return
	}

	if len(results) < 1 {
		c.Error(apperror.NotFound("Aucun produit trouvé"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"minPrice": results[0].MinPrice,
		"maxPrice": results[0].MaxPrice,
	})
}
