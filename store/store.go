// Package store connects to the data store and manages sessions, notes,
// and trust metrics.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/amvora/amvora/internal/models"
)

var pathToDB string

var errAlreadyRunning = errors.New(
	"is Amvora already running? Only one instance can be active at a time",
)

const (
	sessionsBucket = "sessions"
	notesBucket    = "notes"
	trustBucket    = "trust"
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// sessionKey orders sessions chronologically within a user's prefix. The
// start time never changes, so the key stays stable across updates.
func sessionKey(userID string, sess *models.FocusSession) []byte {
	return []byte(userID + "/" + sess.StartedAt.Format(time.RFC3339Nano))
}

func noteKey(userID string, note *models.Note) []byte {
	return []byte(userID + "/" + note.CreatedAt.Format(time.RFC3339Nano))
}

func (c *Client) SaveSession(
	userID string,
	sess *models.FocusSession,
) error {
	value, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).
			Put(sessionKey(userID, sess), value)
	})
}

func (c *Client) ListSessions(userID string) ([]models.FocusSession, error) {
	var sessions []models.FocusSession

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionsBucket)).Cursor()
		prefix := []byte(userID + "/")

		for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
			var sess models.FocusSession

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return err
			}

			sessions = append(sessions, sess)
		}

		return nil
	})

	return sessions, err
}

func (c *Client) DeleteSessions(userID string, ids []string) error {
	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionsBucket))
		cur := b.Cursor()
		prefix := []byte(userID + "/")

		var keys [][]byte

		for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
			var sess models.FocusSession

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return err
			}

			for _, id := range ids {
				if sess.ID == id {
					keys = append(keys, append([]byte(nil), k...))
				}
			}
		}

		for _, k := range keys {
			err := b.Delete(k)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (c *Client) SaveNote(userID string, note *models.Note) error {
	value, err := json.Marshal(note)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(notesBucket)).
			Put(noteKey(userID, note), value)
	})
}

func (c *Client) ListNotes(userID string) ([]models.Note, error) {
	var notes []models.Note

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(notesBucket)).Cursor()
		prefix := []byte(userID + "/")

		for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
			var note models.Note

			err := json.Unmarshal(v, &note)
			if err != nil {
				return err
			}

			notes = append(notes, note)
		}

		return nil
	})

	return notes, err
}

func (c *Client) DeleteNote(userID, id string) error {
	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(notesBucket))
		cur := b.Cursor()
		prefix := []byte(userID + "/")

		for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
			var note models.Note

			err := json.Unmarshal(v, &note)
			if err != nil {
				return err
			}

			if note.ID == id {
				return b.Delete(k)
			}
		}

		return nil
	})
}

func (c *Client) GetTrustMetric(userID string) (*models.TrustMetric, error) {
	var m *models.TrustMetric

	err := c.View(func(tx *bolt.Tx) error {
		value := tx.Bucket([]byte(trustBucket)).Get([]byte(userID))
		if len(value) == 0 {
			// no metric exists yet
			return nil
		}

		m = &models.TrustMetric{}

		return json.Unmarshal(value, m)
	})

	return m, err
}

func (c *Client) SaveTrustMetric(userID string, m *models.TrustMetric) error {
	value, err := json.Marshal(m)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(trustBucket)).Put([]byte(userID), value)
	})
}

func (c *Client) Open() error {
	db, err := openDB(pathToDB)
	if err != nil {
		return err
	}

	*c = Client{
		db,
	}

	return nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// a held file lock times out the open, which means another
		// instance owns the database
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	pathToDB = dbPath

	db, err := openDB(pathToDB)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist
	// already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{sessionsBucket, notesBucket, trustBucket} {
			_, err = tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
