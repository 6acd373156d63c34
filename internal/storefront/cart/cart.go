// Package cart implémente l'état panier du client boutique : une liste
// observable de lignes {article, quantité}, persistée à chaque mutation
// dans le stockage local sous une clé fixe.
//
// Deux canaux de notification coexistent, et les deux sont nécessaires :
// les abonnés in-process (badge compteur, totaux affichés) sont prévenus
// directement après chaque mutation locale, et un observateur du
// stockage relaie les écritures des AUTRES process — celles-là seules,
// le stockage ne renvoyant jamais ses propres écritures à l'écrivain.
package cart

import (
	"encoding/json"
	"math"
	"sync"

	"shopmall_back_end/internal/storefront/storage"
)

// StorageKey est la clé fixe du panier dans le stockage local.
const StorageKey = "cart"

// TaxRate est le taux de taxe fixe appliqué au sous-total.
const TaxRate = 0.08

type Entry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Store est le panier observable. Toutes les méthodes sont sûres en
// concurrence, même si le client n'a qu'un fil d'événements UI.
type Store struct {
	mu          sync.Mutex
	storage     storage.Storage
	entries     []Entry
	subscribers map[int]func([]Entry)
	nextSubID   int
	stopWatch   func()
}

// New charge le panier existant depuis le stockage et branche
// l'observateur des écritures externes.
func New(st storage.Storage) (*Store, error) {
	s := &Store{
		storage:     st,
		subscribers: make(map[int]func([]Entry)),
	}

	if err := s.reload(); err != nil {
		return nil, err
	}

	s.stopWatch = st.Watch(StorageKey, func() {
		// Écriture d'un autre process : on relit puis on prévient les
		// abonnés locaux.
		if err := s.reload(); err != nil {
			return
		}
		s.notify()
	})

	return s, nil
}

// Close détache l'observateur du stockage.
func (s *Store) Close() {
	if s.stopWatch != nil {
		s.stopWatch()
	}
}

func (s *Store) reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.storage.Get(StorageKey)
	if err != nil {
		return err
	}
	if raw == nil {
		s.entries = nil
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return err
	}
	s.entries = entries
	return nil
}

func (s *Store) persist() error {
	raw, err := json.Marshal(s.entries)
	if err != nil {
		return err
	}
	return s.storage.Set(StorageKey, raw)
}

// Subscribe enregistre un abonné in-process, prévenu après chaque
// mutation locale ET après chaque changement externe relayé par le
// stockage. Retourne une fonction de désabonnement.
func (s *Store) Subscribe(fn func([]Entry)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	entries := s.snapshot()
	fns := make([]func([]Entry), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(entries)
	}
}

func (s *Store) snapshot() []Entry {
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

// Items retourne une copie des lignes du panier.
func (s *Store) Items() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Count retourne le nombre total d'articles (somme des quantités),
// la valeur du badge panier.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, e := range s.entries {
		count += e.Quantity
	}
	return count
}

// Add fusionne l'article dans le panier : quantité +1 s'il y est déjà,
// sinon nouvelle ligne à quantité 1.
func (s *Store) Add(item Entry) error {
	s.mu.Lock()
	merged := false
	for i := range s.entries {
		if s.entries[i].ID == item.ID {
			s.entries[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = 1
		s.entries = append(s.entries, item)
	}
	err := s.persist()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetQuantity fixe la quantité d'une ligne. Une quantité ≤ 0 équivaut à
// un retrait de la ligne.
func (s *Store) SetQuantity(id string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(id)
	}

	s.mu.Lock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Quantity = quantity
			break
		}
	}
	err := s.persist()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Remove retire la ligne correspondante du panier.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	err := s.persist()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Clear vide le panier, après la création réussie d'une commande.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.entries = nil
	err := s.persist()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// Totals recalcule les montants dérivés : sous-total, taxe fixe de 8%
// arrondie, livraison offerte.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subtotal float64
	for _, e := range s.entries {
		subtotal += e.Price * float64(e.Quantity)
	}
	tax := math.Round(subtotal * TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: 0,
		Total:    subtotal + tax,
	}
}
