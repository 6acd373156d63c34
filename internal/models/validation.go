package models

// ValidationResult est le retour commun des validateurs d'entités.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}
