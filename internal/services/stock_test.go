package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/models"
)

// La quantité invalide doit être rejetée avant toute lecture en base :
// CheckStock passe par ce chemin depuis la création de commande comme
// depuis la transition en livraison.
func TestCheckStockRejectsInvalidQuantity(t *testing.T) {
	err := CheckStock(context.Background(), []models.OrderItem{
		{Name: "Lampe", Product: primitive.NewObjectID(), Quantity: -3},
	})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestShortageMessage(t *testing.T) {
	t.Run("stock partiel", func(t *testing.T) {
		msg := ShortageMessage("Chaise en chêne", 3, 5)
		assert.Equal(t, "Chaise en chêne est en rupture de stock, il n'en reste que ( 3 ). Veuillez réduire la quantité demandée ( 5 ) et réessayer.", msg)
	})

	t.Run("stock à zéro", func(t *testing.T) {
		msg := ShortageMessage("Chaise en chêne", 0, 2)
		assert.Equal(t, "Chaise en chêne est en rupture de stock.", msg)
	})
}

func TestCombineShortages(t *testing.T) {
	t.Run("aucune pénurie", func(t *testing.T) {
		assert.Equal(t, "", CombineShortages(nil))
	})

	t.Run("une seule pénurie, pas de numérotation", func(t *testing.T) {
		assert.Equal(t, "Lampe est en rupture de stock.", CombineShortages([]string{"Lampe est en rupture de stock."}))
	})

	t.Run("plusieurs pénuries numérotées", func(t *testing.T) {
		combined := CombineShortages([]string{"premier message", "second message"})
		assert.Equal(t, "1:- premier message, 2:- second message", combined)
	})
}

func TestOutOfStockMessages(t *testing.T) {
	available := primitive.NewObjectID()
	short := primitive.NewObjectID()
	empty := primitive.NewObjectID()
	missing := primitive.NewObjectID()

	catalog := map[primitive.ObjectID]*models.Product{
		available: {ID: available, Name: "Table", Stock: 10},
		short:     {ID: short, Name: "Lampe", Stock: 1},
		empty:     {ID: empty, Name: "Tapis", Stock: 0},
	}
	fetch := func(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
		return catalog[id], nil
	}

	t.Run("tout disponible", func(t *testing.T) {
		shortages, err := OutOfStockMessages(context.Background(), []models.OrderItem{
			{Product: available, Quantity: 2},
		}, fetch)
		require.NoError(t, err)
		assert.Empty(t, shortages)
	})

	t.Run("quantité exactement égale au stock", func(t *testing.T) {
		shortages, err := OutOfStockMessages(context.Background(), []models.OrderItem{
			{Product: short, Quantity: 1},
		}, fetch)
		require.NoError(t, err)
		assert.Empty(t, shortages)
	})

	t.Run("pénuries multiples dans l'ordre des lignes", func(t *testing.T) {
		shortages, err := OutOfStockMessages(context.Background(), []models.OrderItem{
			{Product: short, Quantity: 3},
			{Product: empty, Quantity: 1},
		}, fetch)
		require.NoError(t, err)
		require.Len(t, shortages, 2)
		assert.Equal(t, ShortageMessage("Lampe", 1, 3), shortages[0])
		assert.Equal(t, ShortageMessage("Tapis", 0, 1), shortages[1])
	})

	t.Run("quantité négative refusée avant tout accès produit", func(t *testing.T) {
		fetchCalled := false
		spy := func(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
			fetchCalled = true
			return fetch(ctx, id)
		}

		_, err := OutOfStockMessages(context.Background(), []models.OrderItem{
			{Name: "Tapis", Product: empty, Quantity: -3},
		}, spy)
		require.Error(t, err)

		var appErr *apperror.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
		assert.Equal(t, "Quantité invalide pour l'article Tapis.", appErr.Message)
		assert.False(t, fetchCalled)
	})

	t.Run("quantité nulle refusée", func(t *testing.T) {
		_, err := OutOfStockMessages(context.Background(), []models.OrderItem{
			{Name: "Table", Product: available, Quantity: 0},
		}, fetch)
		assert.Error(t, err)
	})

	t.Run("produit introuvable", func(t *testing.T) {
		shortages, err := OutOfStockMessages(context.Background(), []models.OrderItem{
			{Name: "Ancien produit", Product: missing, Quantity: 1},
		}, fetch)
		require.NoError(t, err)
		require.Len(t, shortages, 1)
		assert.Equal(t, "Produit introuvable pour l'article Ancien produit.", shortages[0])
	})
}
