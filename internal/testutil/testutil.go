// Package testutil provides shared test helpers.
package testutil

import (
	"errors"
	"sort"
	"sync"

	"github.com/amvora/amvora/internal/models"
)

// ErrUnavailable simulates a datastore read failure.
var ErrUnavailable = errors.New("datastore unavailable")

// MemDB is an in-memory implementation of the store.DB interface.
type MemDB struct {
	mu        sync.Mutex
	sessions  map[string][]models.FocusSession
	notes     map[string][]models.Note
	trust     map[string]*models.TrustMetric
	FailReads bool
}

func NewMemDB() *MemDB {
	return &MemDB{
		sessions: make(map[string][]models.FocusSession),
		notes:    make(map[string][]models.Note),
		trust:    make(map[string]*models.TrustMetric),
	}
}

func (d *MemDB) SaveSession(userID string, sess *models.FocusSession) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.sessions[userID] {
		if d.sessions[userID][i].ID == sess.ID {
			d.sessions[userID][i] = *sess
			return nil
		}
	}

	d.sessions[userID] = append(d.sessions[userID], *sess)

	return nil
}

func (d *MemDB) ListSessions(userID string) ([]models.FocusSession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.FailReads {
		return nil, ErrUnavailable
	}

	out := make([]models.FocusSession, len(d.sessions[userID]))
	copy(out, d.sessions[userID])

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})

	return out, nil
}

func (d *MemDB) DeleteSessions(userID string, ids []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var kept []models.FocusSession

	for _, sess := range d.sessions[userID] {
		deleted := false

		for _, id := range ids {
			if sess.ID == id {
				deleted = true
			}
		}

		if !deleted {
			kept = append(kept, sess)
		}
	}

	d.sessions[userID] = kept

	return nil
}

func (d *MemDB) SaveNote(userID string, note *models.Note) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.notes[userID] {
		if d.notes[userID][i].ID == note.ID {
			d.notes[userID][i] = *note
			return nil
		}
	}

	d.notes[userID] = append(d.notes[userID], *note)

	return nil
}

func (d *MemDB) ListNotes(userID string) ([]models.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.FailReads {
		return nil, ErrUnavailable
	}

	out := make([]models.Note, len(d.notes[userID]))
	copy(out, d.notes[userID])

	return out, nil
}

func (d *MemDB) DeleteNote(userID, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var kept []models.Note

	for _, note := range d.notes[userID] {
		if note.ID != id {
			kept = append(kept, note)
		}
	}

	d.notes[userID] = kept

	return nil
}

func (d *MemDB) GetTrustMetric(userID string) (*models.TrustMetric, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	m, ok := d.trust[userID]
	if !ok {
		return nil, nil
	}

	clone := *m

	return &clone, nil
}

func (d *MemDB) SaveTrustMetric(userID string, m *models.TrustMetric) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	clone := *m
	d.trust[userID] = &clone

	return nil
}

func (d *MemDB) Close() error { return nil }

func (d *MemDB) Open() error { return nil }
