package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"velora_back_end/internal/config"
	"velora_back_end/internal/models"
)

func TestGenerateJWT(t *testing.T) {
	config.App.JWTSecret = "secret-de-test"
	config.App.JWTExpiresIn = time.Hour

	user := &models.User{
		ID:   primitive.NewObjectID(),
		Name: "Marie",
	}

	signed, err := GenerateJWT(user)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.App.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.Hex(), claims["id"])
	assert.Equal(t, "Marie", claims["name"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))
}

func TestGenerateJWTRejectsWrongSecret(t *testing.T) {
	config.App.JWTSecret = "secret-de-test"
	config.App.JWTExpiresIn = time.Hour

	signed, err := GenerateJWT(&models.User{ID: primitive.NewObjectID(), Name: "Marie"})
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("autre-secret"), nil
	})
	assert.Error(t, err)
}
