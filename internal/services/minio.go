package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/minio/minio-go/v7"

	"shopmall_back_end/internal/database"
)

// UploadProductImage pousse l'image d'un produit dans le bucket MinIO et
// retourne le chemin objet à stocker dans le champ image.
func UploadProductImage(ctx context.Context, productID string, reader io.Reader, size int64, contentType string) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")
	objectName := fmt.Sprintf("products/%s", productID)

	_, err := database.MinIO.PutObject(ctx, bucket, objectName, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}

	return objectName, nil
}

// GenerateSignedURL génère une URL GET signée avec expiration pour un
// objet du bucket produits.
func GenerateSignedURL(ctx context.Context, objectName string, duration time.Duration) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, objectName,
		duration, make(url.Values))
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}
