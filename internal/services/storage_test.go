package services

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velora_back_end/internal/config"
)

func TestParseDataURI(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	t.Run("data-URI valide", func(t *testing.T) {
		contentType, decoded, err := parseDataURI(uri)
		require.NoError(t, err)
		assert.Equal(t, "image/png", contentType)
		assert.Equal(t, payload, decoded)
	})

	t.Run("préfixe manquant", func(t *testing.T) {
		_, _, err := parseDataURI("image/png;base64,AAAA")
		assert.Error(t, err)
	})

	t.Run("contenu manquant", func(t *testing.T) {
		_, _, err := parseDataURI("data:image/png;base64")
		assert.Error(t, err)
	})

	t.Run("type non image refusé", func(t *testing.T) {
		_, _, err := parseDataURI("data:application/pdf;base64,AAAA")
		assert.Error(t, err)
	})

	t.Run("base64 invalide", func(t *testing.T) {
		_, _, err := parseDataURI("data:image/png;base64,pas-du-base64!!!")
		assert.Error(t, err)
	})
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "png", extension("image/png"))
	assert.Equal(t, "jpeg", extension("image/jpeg"))
	assert.Equal(t, "bin", extension("image"))
	assert.Equal(t, "bin", extension("image/"))
}

func TestObjectURL(t *testing.T) {
	config.App.MinioEndpoint = "localhost:9000"
	config.App.MinioBucket = "velora"

	config.App.MinioUseSSL = false
	assert.Equal(t, "http://localhost:9000/velora/products/a.png", ObjectURL("products/a.png"))

	config.App.MinioUseSSL = true
	assert.Equal(t, "https://localhost:9000/velora/products/a.png", ObjectURL("products/a.png"))
}
