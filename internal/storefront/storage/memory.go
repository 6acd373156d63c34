package storage

import "sync"

// Memory est un stockage partagé en mémoire. Chaque « onglet » ouvre son
// propre handle via Open : une écriture notifie les observateurs des
// autres handles, jamais ceux du handle écrivain.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	watchers []*memoryWatcher
}

type memoryWatcher struct {
	handle *MemoryHandle
	key    string
	fn     func()
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Open crée un handle, l'équivalent d'un onglet sur le même stockage.
func (m *Memory) Open() *MemoryHandle {
	return &MemoryHandle{backing: m}
}

func (m *Memory) notify(writer *MemoryHandle, key string) {
	var toNotify []func()
	m.mu.Lock()
	for _, w := range m.watchers {
		if w.key == key && w.handle != writer {
			toNotify = append(toNotify, w.fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range toNotify {
		fn()
	}
}

type MemoryHandle struct {
	backing *Memory
}

func (h *MemoryHandle) Get(key string) ([]byte, error) {
	h.backing.mu.Lock()
	defer h.backing.mu.Unlock()

	value, ok := h.backing.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (h *MemoryHandle) Set(key string, value []byte) error {
	h.backing.mu.Lock()
	stored := make([]byte, len(value))
	copy(stored, value)
	h.backing.data[key] = stored
	h.backing.mu.Unlock()

	h.backing.notify(h, key)
	return nil
}

func (h *MemoryHandle) Delete(key string) error {
	h.backing.mu.Lock()
	delete(h.backing.data, key)
	h.backing.mu.Unlock()

	h.backing.notify(h, key)
	return nil
}

func (h *MemoryHandle) Watch(key string, fn func()) (stop func()) {
	w := &memoryWatcher{handle: h, key: key, fn: fn}

	h.backing.mu.Lock()
	h.backing.watchers = append(h.backing.watchers, w)
	h.backing.mu.Unlock()

	return func() {
		h.backing.mu.Lock()
		defer h.backing.mu.Unlock()
		for i, existing := range h.backing.watchers {
			if existing == w {
				h.backing.watchers = append(h.backing.watchers[:i], h.backing.watchers[i+1:]...)
				return
			}
		}
	}
}
