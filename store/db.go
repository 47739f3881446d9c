package store

import (
	"github.com/amvora/amvora/internal/models"
)

// DB is the database storage interface. All reads and writes are scoped
// to a single user.
type DB interface {
	// SaveSession stores a focus session. The session is created if it
	// doesn't exist already, or overwritten if it does.
	SaveSession(userID string, sess *models.FocusSession) error
	// ListSessions returns every saved session for the user, ordered by
	// start time.
	ListSessions(userID string) ([]models.FocusSession, error)
	// DeleteSessions deletes one or more saved sessions.
	DeleteSessions(userID string, ids []string) error
	// SaveNote stores a note, overwriting any previous version.
	SaveNote(userID string, note *models.Note) error
	// ListNotes returns every saved note for the user, ordered by
	// creation time.
	ListNotes(userID string) ([]models.Note, error)
	// DeleteNote deletes a saved note.
	DeleteNote(userID, id string) error
	// GetTrustMetric retrieves the user's trust metric, or nil if none
	// has been created yet.
	GetTrustMetric(userID string) (*models.TrustMetric, error)
	// SaveTrustMetric stores the user's trust metric.
	SaveTrustMetric(userID string, m *models.TrustMetric) error
	// Close ends the database connection.
	Close() error
	// Open begins a database connection.
	Open() error
}
