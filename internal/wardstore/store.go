package wardstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
)

// Store owns the current ward set. The set is only ever replaced as a whole;
// readers always get copies.
type Store struct {
	mu        sync.RWMutex
	wards     []models.Ward
	index     map[string]int
	updatedAt time.Time
}

func New() *Store {
	return &Store{index: make(map[string]int)}
}

// Replace swaps in a new ward set. On validation failure the previous set
// is kept.
func (s *Store) Replace(wards []models.Ward) error {
	if err := Validate(wards); err != nil {
		return err
	}

	next := models.CloneWards(wards)
	index := make(map[string]int, len(next))
	for i, w := range next {
		index[w.ID] = i
	}

	s.mu.Lock()
	s.wards = next
	s.index = index
	s.updatedAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *Store) Wards() []models.Ward {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneWards(s.wards)
}

func (s *Store) Get(id string) (models.Ward, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Ward{}, false
	}
	return s.wards[i].Clone(), true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wards)
}

// UpdatedAt is zero until the first successful Replace.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *Store) TotalActiveComplaints() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalActiveComplaints(s.wards)
}

// Validate checks the structural invariants of a ward set: every ward has an
// id and ids are unique.
func Validate(wards []models.Ward) error {
	seen := make(map[string]struct{}, len(wards))
	for i, w := range wards {
		if w.ID == "" {
			return &models.ValidationError{Field: fmt.Sprintf("wards[%d].id", i), Reason: "is required"}
		}
		if _, dup := seen[w.ID]; dup {
			return &models.ValidationError{Field: fmt.Sprintf("wards[%d].id", i), Reason: "is duplicated", ID: w.ID}
		}
		seen[w.ID] = struct{}{}
	}
	return nil
}
