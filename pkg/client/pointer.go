package client

import (
	"database/sql"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

const pointerSchema = `
CREATE TABLE IF NOT EXISTS session_pointers (
    course_id  TEXT NOT NULL,
    deck_key   TEXT NOT NULL,
    session_id TEXT NOT NULL,
    saved_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (course_id, deck_key)
);
`

// PointerStore remembers which session belongs to each deck selection so a
// study run can be resumed after the app restarts. One row per
// (course, deck selection); starting over replaces the row.
type PointerStore struct {
	db *sql.DB
}

// OpenPointerStore opens or creates the store at dbPath.
func OpenPointerStore(dbPath string) (*PointerStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(pointerSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &PointerStore{db: db}, nil
}

func (s *PointerStore) Close() error {
	return s.db.Close()
}

// DeckKey canonicalizes a deck selection. The same decks picked in any
// order map to the same key, so reordering a selection still resumes the
// same session.
func DeckKey(deckIDs []string) string {
	sorted := append([]string(nil), deckIDs...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Put saves or replaces the pointer for a deck selection.
func (s *PointerStore) Put(courseID string, deckIDs []string, sessionID string) error {
	_, err := s.db.Exec(`INSERT INTO session_pointers (course_id, deck_key, session_id, saved_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(course_id, deck_key) DO UPDATE SET
			session_id = excluded.session_id,
			saved_at = excluded.saved_at`,
		courseID, DeckKey(deckIDs), sessionID)
	return err
}

// Get returns the saved session id for a deck selection, or "" when there
// is none.
func (s *PointerStore) Get(courseID string, deckIDs []string) (string, error) {
	var sessionID string
	err := s.db.QueryRow(`SELECT session_id FROM session_pointers WHERE course_id = ? AND deck_key = ?`,
		courseID, DeckKey(deckIDs)).Scan(&sessionID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// Delete removes the pointer for a deck selection. Deleting a pointer that
// does not exist is not an error.
func (s *PointerStore) Delete(courseID string, deckIDs []string) error {
	_, err := s.db.Exec(`DELETE FROM session_pointers WHERE course_id = ? AND deck_key = ?`,
		courseID, DeckKey(deckIDs))
	return err
}

// Prune keeps only the most recently saved pointers and drops the rest.
func (s *PointerStore) Prune(keep int) error {
	_, err := s.db.Exec(`DELETE FROM session_pointers WHERE rowid NOT IN (
		SELECT rowid FROM session_pointers ORDER BY saved_at DESC LIMIT ?)`, keep)
	return err
}
