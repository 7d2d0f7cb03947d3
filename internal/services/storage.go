package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"context"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"velora_back_end/internal/apperror"
	"velora_back_end/internal/config"
	"velora_back_end/internal/database"
	"velora_back_end/internal/models"
)

// UploadOptions fixe le dossier de destination et la transformation
// attendue côté front (enregistrée en métadonnées objet).
type UploadOptions struct {
	Folder string
	Width  int
	Height int
	Crop   string
}

var (
	ProductImageOptions = UploadOptions{Folder: "products", Width: 557, Height: 650, Crop: "scale"}
	AvatarOptions       = UploadOptions{Folder: "avatar", Width: 300, Height: 300, Crop: "scale"}
)

// UploadBase64 pousse une image encodée en data-URI vers MinIO et retourne
// la référence {publicId, url}. Tout échec est une erreur de requête (400),
// jamais un retry.
func UploadBase64(ctx context.Context, dataURI string, opts UploadOptions) (models.Image, error) {
	contentType, payload, err := parseDataURI(dataURI)
	if err != nil {
		return models.Image{}, apperror.BadRequest("Image invalide : " + err.Error())
	}

	objectName := fmt.Sprintf("%s/%s.%s", opts.Folder, uuid.NewString(), extension(contentType))

	_, err = database.MinIO.PutObject(ctx, config.App.MinioBucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"width":  fmt.Sprintf("%d", opts.Width),
				"height": fmt.Sprintf("%d", opts.Height),
				"crop":   opts.Crop,
			},
		})
	if err != nil {
		return models.Image{}, apperror.BadRequest("Échec de l'envoi de l'image : " + err.Error())
	}

	return models.Image{
		PublicID: objectName,
		URL:      ObjectURL(objectName),
	}, nil
}

// RemoveObject supprime un objet par son publicId. Best effort : les
// appelants ignorent l'échec de nettoyage.
func RemoveObject(ctx context.Context, publicID string) error {
	return database.MinIO.RemoveObject(ctx, config.App.MinioBucket, publicID, minio.RemoveObjectOptions{})
}

// ObjectURL reconstruit l'URL publique d'un objet du bucket.
func ObjectURL(objectName string) string {
	scheme := "http"
	if config.App.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, config.App.MinioEndpoint, config.App.MinioBucket, objectName)
}

// parseDataURI découpe "data:image/png;base64,...." en type MIME + octets.
func parseDataURI(dataURI string) (contentType string, payload []byte, err error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", nil, fmt.Errorf("format data-URI attendu")
	}

	meta, data, found := strings.Cut(dataURI[len("data:"):], ",")
	if !found {
		return "", nil, fmt.Errorf("data-URI sans contenu")
	}

	contentType, _, _ = strings.Cut(meta, ";")
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, fmt.Errorf("seules les images sont acceptées")
	}
	if !strings.Contains(meta, "base64") {
		return "", nil, fmt.Errorf("encodage base64 attendu")
	}

	payload, err = base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("base64 invalide")
	}
	return contentType, payload, nil
}

func extension(contentType string) string {
	_, sub, found := strings.Cut(contentType, "/")
	if !found || sub == "" {
		return "bin"
	}
	return sub
}
