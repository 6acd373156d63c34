package product

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shopmall_back_end/internal/database"
	"shopmall_back_end/internal/models"
	"shopmall_back_end/internal/services"
	"shopmall_back_end/internal/store"
)

const listCacheKey = "products:all"

// GetAllProducts renvoie tous les produits, triés du plus récent au plus
// ancien, avec cache Redis d'une heure.
func GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()

	// ✅ Vérifie le cache Redis
	if database.Redis != nil {
		if val, err := database.Redis.Get(ctx, listCacheKey).Result(); err == nil && val != "" {
			var cached []models.Product
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				c.JSON(http.StatusOK, cached)
				return
			}
		}
	}

	products, err := store.Products.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	// ✅ Met en cache
	if database.Redis != nil {
		if data, err := json.Marshal(products); err == nil {
			database.Redis.Set(ctx, listCacheKey, data, time.Hour)
		}
	}

	c.JSON(http.StatusOK, products)
}

func invalidateListCache(ctx context.Context) {
	if database.Redis != nil {
		database.Redis.Del(ctx, listCacheKey)
	}
}

// GetProductByID résout la catégorie via l'index id → catégorie : pas
// besoin de passer la clé de partition dans la query string.
func GetProductByID(c *gin.Context) {
	p, err := store.Products.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func GetProductBySku(c *gin.Context) {
	p, err := store.Products.GetBySKU(c.Request.Context(), c.Param("sku"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func GetProductsByCategory(c *gin.Context) {
	products, err := store.Products.GetByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

// SearchProducts interroge Elasticsearch, avec repli sur un filtre en
// mémoire du store quand l'index est vide ou indisponible.
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	if results, err := services.SearchProducts(query); err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}

	// 🔁 Fallback : scan complet et filtre en mémoire
	products, err := store.Products.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	matches := []models.Product{}
	for _, p := range products {
		if containsIgnoreCase(p.Name, query) ||
			containsIgnoreCase(p.Description, query) ||
			containsIgnoreCase(p.Category, query) {
			matches = append(matches, p)
		}
	}
	c.JSON(http.StatusOK, matches)
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// CreateProduct valide puis insère un nouveau produit. L'unicité du SKU
// est garantie par le store : un doublon renvoie 409 sans rien écrire.
func CreateProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if validation := p.Validate(); !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation échouée",
			"details": validation.Errors,
		})
		return
	}

	err := store.Products.Create(c.Request.Context(), &p)
	if errors.Is(err, store.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce SKU existe déjà. Le SKU doit être unique."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateListCache(c.Request.Context())

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)

	c.JSON(http.StatusCreated, p)
}
