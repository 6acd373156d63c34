package models

import (
	"strings"
	"time"
)

type Product struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate vérifie les champs obligatoires avant persistance.
// L'unicité du SKU est gérée par la couche store, pas ici.
func (p *Product) Validate() ValidationResult {
	var errors []string

	if strings.TrimSpace(p.SKU) == "" {
		errors = append(errors, "Le SKU est obligatoire")
	}
	if strings.TrimSpace(p.Name) == "" {
		errors = append(errors, "Le nom du produit est obligatoire")
	}
	if p.Price < 0 {
		errors = append(errors, "Le prix doit être un nombre supérieur ou égal à 0")
	}
	if strings.TrimSpace(p.Category) == "" {
		errors = append(errors, "La catégorie est obligatoire")
	}
	if strings.TrimSpace(p.Image) == "" {
		errors = append(errors, "L'image est obligatoire")
	}
	if p.Stock < 0 {
		errors = append(errors, "Le stock doit être un nombre supérieur ou égal à 0")
	}

	return ValidationResult{IsValid: len(errors) == 0, Errors: errors}
}

// ProductPatch porte les champs d'une mise à jour partielle.
// Un pointeur nil signifie « champ inchangé ».
type ProductPatch struct {
	SKU         *string  `json:"sku"`
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
}

// Apply reporte champ par champ les valeurs fournies sur le produit existant.
func (patch ProductPatch) Apply(p *Product) {
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
}
