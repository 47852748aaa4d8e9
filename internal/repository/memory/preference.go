package memory

import (
	"context"
	"sync"

	"github.com/egannguyen/go-car-showroom/internal/entity"
	"github.com/egannguyen/go-car-showroom/internal/repository"
)

// PreferenceStore keeps the role preference in process memory. It behaves
// like the other backends but forgets everything on restart.
type PreferenceStore struct {
	mu sync.Mutex
	kv map[string]string
}

var _ repository.PreferenceStore = (*PreferenceStore)(nil)

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{kv: make(map[string]string)}
}

func (s *PreferenceStore) Load(ctx context.Context) (entity.Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return repository.DecodePreference(s.kv), nil
}

func (s *PreferenceStore) Save(ctx context.Context, p entity.Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range repository.EncodePreference(p) {
		s.kv[k] = v
	}
	return nil
}

func (s *PreferenceStore) Close() error { return nil }
