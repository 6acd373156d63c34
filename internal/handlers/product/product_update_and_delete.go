package product

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopmall_back_end/internal/models"
	"shopmall_back_end/internal/services"
	"shopmall_back_end/internal/store"
)

// UpdateProduct remplace intégralement un produit. La clé de partition
// (catégorie) est résolue par id : le store migre la ligne si elle change.
func UpdateProduct(c *gin.Context) {
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

	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now().UTC()

	if validation := p.Validate(); !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation échouée",
			"details": validation.Errors,
		})
		return
	}

	err = store.Products.Replace(ctx, existing, &p)
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce SKU existe déjà. Le SKU doit être unique."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateListCache(ctx)
	go services.IndexProduct(p)

	c.JSON(http.StatusOK, p)
}

// PartialUpdateProduct applique champ par champ les valeurs fournies,
// puis revalide l'enregistrement complet comme pour un remplacement.
func PartialUpdateProduct(c *gin.Context) {
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

	var patch models.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := *existing
	patch.Apply(&p)
	p.UpdatedAt = time.Now().UTC()

	if validation := p.Validate(); !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation échouée",
			"details": validation.Errors,
		})
		return
	}

	err = store.Products.Replace(ctx, existing, &p)
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce SKU existe déjà. Le SKU doit être unique."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateListCache(ctx)
	go services.IndexProduct(p)

	c.JSON(http.StatusOK, p)
}

func DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := store.Products.Delete(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateListCache(ctx)
	go services.RemoveProductFromIndex(p.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé avec succès"})
}
