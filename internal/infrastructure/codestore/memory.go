// Package codestore guarda los códigos de verificación pendientes (en memoria o en Redis).
package codestore

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/myshop-api/internal/application/auth"
)

// Retention tiempo que un código vencido se conserva para poder informar "vencido" en vez de "no encontrado".
const Retention = 10 * time.Minute

var _ auth.CodeStore = (*MemoryStore)(nil)

// MemoryStore almacén en proceso protegido por mutex. Un código por teléfono; el último Put gana.
type MemoryStore struct {
	mu    sync.Mutex
	codes map[string]auth.PendingCode
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{codes: make(map[string]auth.PendingCode), now: time.Now}
}

// Put guarda el código y de paso purga los que vencieron hace más de Retention.
func (s *MemoryStore) Put(_ context.Context, phone string, code auth.PendingCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purge()
	s.codes[phone] = code
	return nil
}

func (s *MemoryStore) Get(_ context.Context, phone string) (*auth.PendingCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[phone]
	if !ok {
		return nil, nil
	}
	if code.ExpiresAt.Add(Retention).Before(s.now()) {
		delete(s.codes, phone)
		return nil, nil
	}
	return &code, nil
}

func (s *MemoryStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, phone)
	return nil
}

// Len cantidad de códigos guardados.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}

func (s *MemoryStore) purge() {
	cutoff := s.now().Add(-Retention)
	for phone, code := range s.codes {
		if code.ExpiresAt.Before(cutoff) {
			delete(s.codes, phone)
		}
	}
}
