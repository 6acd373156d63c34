package models

import (
	"regexp"
	"strings"
	"time"
)

const (
	UserTypeCustomer = "customer"
	UserTypeAdmin    = "admin"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"`
	UserType  string    `json:"user_type"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate vérifie les champs obligatoires avant persistance.
// L'unicité de l'email est gérée par la couche store, pas ici.
func (u *User) Validate() ValidationResult {
	var errors []string

	if strings.TrimSpace(u.Email) == "" {
		errors = append(errors, "L'email est obligatoire")
	} else if !emailRegex.MatchString(u.Email) {
		errors = append(errors, "Le format de l'email est invalide")
	}
	if strings.TrimSpace(u.Name) == "" {
		errors = append(errors, "Le nom est obligatoire")
	}
	if u.Password == "" {
		errors = append(errors, "Le mot de passe est obligatoire")
	}
	if u.UserType == "" {
		errors = append(errors, "Le type d'utilisateur est obligatoire")
	} else if u.UserType != UserTypeCustomer && u.UserType != UserTypeAdmin {
		errors = append(errors, "Le type d'utilisateur doit être \"customer\" ou \"admin\"")
	}

	return ValidationResult{IsValid: len(errors) == 0, Errors: errors}
}

// UserPatch porte les champs d'une mise à jour partielle.
// Un pointeur nil signifie « champ inchangé ». L'email (clé de partition)
// ne se modifie pas par patch.
type UserPatch struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
	UserType *string `json:"user_type"`
	Address  *string `json:"address"`
}

// Apply reporte champ par champ les valeurs fournies sur l'utilisateur
// existant. Le hash du mot de passe est fait par l'appelant avant.
func (patch UserPatch) Apply(u *User) {
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.UserType != nil {
		u.UserType = *patch.UserType
	}
	if patch.Address != nil {
		u.Address = patch.Address
	}
}
