package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// File persiste les clés dans un fichier JSON unique et détecte les
// écritures des autres process par sondage. Les valeurs écrites par ce
// process sont mémorisées pour ne pas se notifier soi-même.
type File struct {
	path     string
	interval time.Duration

	mu       sync.Mutex
	lastSeen map[string][]byte
	watchers map[string][]*fileWatcher
	done     chan struct{}
	once     sync.Once
}

type fileWatcher struct {
	fn func()
}

// NewFile ouvre (ou crée) le stockage fichier et démarre le sondage.
func NewFile(path string, pollInterval time.Duration) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f := &File{
		path:     path,
		interval: pollInterval,
		lastSeen: make(map[string][]byte),
		watchers: make(map[string][]*fileWatcher),
		done:     make(chan struct{}),
	}

	data, err := f.readAll()
	if err != nil {
		return nil, err
	}
	for key, value := range data {
		f.lastSeen[key] = value
	}

	go f.poll()
	return f, nil
}

func (f *File) readAll() (map[string][]byte, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, err
	}

	var decoded map[string]json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, err
		}
	}

	data := make(map[string][]byte, len(decoded))
	for key, value := range decoded {
		data[key] = []byte(value)
	}
	return data, nil
}

func (f *File) writeAll(data map[string][]byte) error {
	encoded := make(map[string]json.RawMessage, len(data))
	for key, value := range data {
		encoded[key] = json.RawMessage(value)
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o644)
}

func (f *File) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.readAll()
	if err != nil {
		return nil, err
	}
	return data[key], nil
}

func (f *File) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.readAll()
	if err != nil {
		return err
	}
	data[key] = value
	if err := f.writeAll(data); err != nil {
		return err
	}
	f.lastSeen[key] = value
	return nil
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.readAll()
	if err != nil {
		return err
	}
	delete(data, key)
	if err := f.writeAll(data); err != nil {
		return err
	}
	delete(f.lastSeen, key)
	return nil
}

func (f *File) Watch(key string, fn func()) (stop func()) {
	w := &fileWatcher{fn: fn}

	f.mu.Lock()
	f.watchers[key] = append(f.watchers[key], w)
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		watchers := f.watchers[key]
		for i, existing := range watchers {
			if existing == w {
				f.watchers[key] = append(watchers[:i], watchers[i+1:]...)
				return
			}
		}
	}
}

// Close arrête la goroutine de sondage.
func (f *File) Close() {
	f.once.Do(func() { close(f.done) })
}

// poll relit le fichier à intervalle fixe et notifie les observateurs
// des clés dont la valeur diffère de la dernière vue par ce process.
func (f *File) poll() {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
		}

		f.mu.Lock()
		data, err := f.readAll()
		if err != nil {
			f.mu.Unlock()
			continue
		}

		var toNotify []func()
		for key, watchers := range f.watchers {
			if len(watchers) == 0 {
				continue
			}
			if !bytes.Equal(data[key], f.lastSeen[key]) {
				f.lastSeen[key] = data[key]
				for _, w := range watchers {
					toNotify = append(toNotify, w.fn)
				}
			}
		}
		f.mu.Unlock()

		for _, fn := range toNotify {
			fn()
		}
	}
}
