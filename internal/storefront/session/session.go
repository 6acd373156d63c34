// Package session conserve l'utilisateur connecté côté client, sous une
// clé fixe du stockage local, avec la même double notification que le
// panier : abonnés in-process pour le badge de connexion, observateur
// du stockage pour les autres process.
package session

import (
	"encoding/json"
	"sync"

	"shopmall_back_end/internal/storefront/storage"
)

// StorageKey est la clé fixe de l'utilisateur connecté.
const StorageKey = "user"

// Account est l'enregistrement persisté après un login réussi : le
// profil renvoyé par le serveur (jamais le mot de passe) et le jeton.
type Account struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`
	Token    string `json:"token"`
}

type Store struct {
	mu          sync.Mutex
	storage     storage.Storage
	current     *Account
	subscribers map[int]func(*Account)
	nextSubID   int
	stopWatch   func()
}

func New(st storage.Storage) (*Store, error) {
	s := &Store{
		storage:     st,
		subscribers: make(map[int]func(*Account)),
	}

	if err := s.reload(); err != nil {
		return nil, err
	}

	s.stopWatch = st.Watch(StorageKey, func() {
		if err := s.reload(); err != nil {
			return
		}
		s.notify()
	})

	return s, nil
}

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
		s.current = nil
		return nil
	}

	var account Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return err
	}
	s.current = &account
	return nil
}

// Current retourne l'utilisateur connecté, ou nil.
func (s *Store) Current() *Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	account := *s.current
	return &account
}

// Subscribe enregistre un abonné aux changements de connexion.
func (s *Store) Subscribe(fn func(*Account)) (unsubscribe func()) {
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
	var current *Account
	if s.current != nil {
		account := *s.current
		current = &account
	}
	fns := make([]func(*Account), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(current)
	}
}

// SignIn persiste l'utilisateur connecté après un login réussi.
func (s *Store) SignIn(account Account) error {
	raw, err := json.Marshal(account)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.storage.Set(StorageKey, raw); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = &account
	s.mu.Unlock()

	s.notify()
	return nil
}

// SignOut efface l'utilisateur connecté.
func (s *Store) SignOut() error {
	s.mu.Lock()
	if err := s.storage.Delete(StorageKey); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = nil
	s.mu.Unlock()

	s.notify()
	return nil
}
