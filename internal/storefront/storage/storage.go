// Package storage fournit le stockage local du client boutique : un
// pendant du localStorage navigateur, clé → valeur sérialisée.
//
// Les observateurs enregistrés via Watch ne voient que les écritures
// EXTERNES (autre process, autre handle). Une instance n'est jamais
// notifiée de ses propres écritures — même convention que les événements
// storage du navigateur, qui ne se déclenchent pas dans l'onglet
// écrivain. La notification même-onglet est du ressort de l'appelant.
package storage

type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Watch enregistre un observateur des modifications externes de key.
	// Retourne une fonction d'arrêt.
	Watch(key string, fn func()) (stop func())
}
