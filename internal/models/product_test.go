package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func review(user primitive.ObjectID, rating int, comment string) Review {
	return Review{
		ID:      primitive.NewObjectID(),
		User:    user,
		Name:    "Testeur",
		Rating:  rating,
		Comment: comment,
	}
}

func TestUpsertReview(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	t.Run("premier avis", func(t *testing.T) {
		p := Product{}
		p.UpsertReview(review(alice, 4, "Très bien"))

		assert.Equal(t, 1, p.NumOfReviews)
		assert.Equal(t, 4.0, p.Ratings)
	})

	t.Run("moyenne sur plusieurs avis", func(t *testing.T) {
		p := Product{}
		p.UpsertReview(review(alice, 5, "Parfait"))
		p.UpsertReview(review(bob, 2, "Décevant"))

		assert.Equal(t, 2, p.NumOfReviews)
		assert.Equal(t, 3.5, p.Ratings)
	})

	t.Run("un seul avis par utilisateur, écrasé en place", func(t *testing.T) {
		p := Product{}
		p.UpsertReview(review(alice, 5, "Parfait"))
		p.UpsertReview(review(bob, 3, "Correct"))
		p.UpsertReview(review(alice, 1, "J'ai changé d'avis"))

		require.Equal(t, 2, p.NumOfReviews)
		assert.Equal(t, 2.0, p.Ratings)
		// L'avis d'alice garde sa position d'origine.
		assert.Equal(t, alice, p.Reviews[0].User)
		assert.Equal(t, 1, p.Reviews[0].Rating)
		assert.Equal(t, "J'ai changé d'avis", p.Reviews[0].Comment)
	})
}

func TestRemoveReview(t *testing.T) {
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	t.Run("suppression d'un avis", func(t *testing.T) {
		p := Product{}
		p.UpsertReview(review(alice, 5, "Parfait"))
		p.UpsertReview(review(bob, 1, "Nul"))

		require.True(t, p.RemoveReview(p.Reviews[1].ID))
		assert.Equal(t, 1, p.NumOfReviews)
		assert.Equal(t, 5.0, p.Ratings)
	})

	t.Run("dernier avis : tout retombe à zéro", func(t *testing.T) {
		p := Product{}
		p.UpsertReview(review(alice, 4, "Bien"))

		require.True(t, p.RemoveReview(p.Reviews[0].ID))
		assert.Equal(t, 0, p.NumOfReviews)
		assert.Equal(t, 0.0, p.Ratings)
		assert.Empty(t, p.Reviews)
	})

	t.Run("id inconnu", func(t *testing.T) {
		p := Product{}
		p.UpsertReview(review(alice, 4, "Bien"))

		assert.False(t, p.RemoveReview(primitive.NewObjectID()))
		assert.Equal(t, 1, p.NumOfReviews)
		assert.Equal(t, 4.0, p.Ratings)
	})
}
