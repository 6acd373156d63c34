package product

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopmall_back_end/internal/services"
	"shopmall_back_end/internal/store"
)

// UploadProductImage stocke l'image dans MinIO et met à jour le champ
// image du produit avec le chemin objet.
func UploadProductImage(c *gin.Context) {
	ctx := c.Request.Context()

	existing, err := store.Products.GetByID(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Champ 'image' manquant"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	objectName, err := services.UploadProductImage(ctx, existing.ID, file,
		fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image: " + err.Error()})
		return
	}

	p := *existing
	p.Image = objectName
	p.UpdatedAt = time.Now().UTC()

	if err := store.Products.Replace(ctx, existing, &p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateListCache(ctx)

	c.JSON(http.StatusOK, gin.H{"image": objectName})
}

// GetProductImageURL renvoie une URL signée de 24h vers l'image.
func GetProductImageURL(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := store.Products.GetByID(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	signedURL, err := services.GenerateSignedURL(ctx, p.Image, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération URL signée: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}
