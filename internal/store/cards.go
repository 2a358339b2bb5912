package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lernbox/internal/card"
	"lernbox/internal/deck"
)

// LoadCollection reads the whole nested collection in stored order,
// history included.
func (s *Store) LoadCollection(ctx context.Context) (*deck.Collection, error) {
	col := &deck.Collection{}

	subjRows, err := s.db.QueryContext(ctx, `SELECT id, name FROM subjects ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer subjRows.Close()

	for subjRows.Next() {
		subj := &deck.Subject{}
		if err := subjRows.Scan(&subj.ID, &subj.Name); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		col.Subjects = append(col.Subjects, subj)
	}
	if err := subjRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}

	for _, subj := range col.Subjects {
		sets, err := s.loadSets(ctx, subj.ID)
		if err != nil {
			return nil, err
		}
		subj.Sets = sets
	}
	return col, nil
}

func (s *Store) loadSets(ctx context.Context, subjectID string) ([]*deck.Set, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM sets WHERE subject_id = ? ORDER BY position`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query sets: %w", err)
	}
	defer rows.Close()

	var sets []*deck.Set
	for rows.Next() {
		set := &deck.Set{}
		if err := rows.Scan(&set.ID, &set.Name); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sets: %w", err)
	}

	for _, set := range sets {
		cards, err := s.loadCards(ctx, set.ID)
		if err != nil {
			return nil, err
		}
		set.Cards = cards
	}
	return sets, nil
}

func (s *Store) loadCards(ctx context.Context, setID string) ([]*card.Card, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, question, answer, tags, status, next_review_at, consecutive_good
		 FROM cards WHERE set_id = ? ORDER BY position`, setID)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []*card.Card
	for rows.Next() {
		var (
			c        card.Card
			tagsJSON string
			status   sql.NullString
			nextAt   sql.NullInt64
			streak   int
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Question, &c.Answer, &tagsJSON, &status, &nextAt, &streak); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &c.Tags); err != nil {
			return nil, fmt.Errorf("card %s: decode tags: %w", c.ID, err)
		}
		// NULL status means the card has never been scheduled; the
		// scheduler lazily initializes it on first access.
		if status.Valid {
			c.State = &card.SchedulingState{
				Status:          card.Status(status.String),
				NextReviewAt:    time.Unix(nextAt.Int64, 0).UTC(),
				ConsecutiveGood: streak,
			}
		}
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	for _, c := range cards {
		history, err := s.loadHistory(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.History = history
	}
	return cards, nil
}

func (s *Store) loadHistory(ctx context.Context, cardID string) ([]card.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, quality FROM history WHERE card_id = ? ORDER BY timestamp, id`, cardID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []card.HistoryEntry
	for rows.Next() {
		var (
			ts int64
			q  string
		)
		if err := rows.Scan(&ts, &q); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, card.HistoryEntry{
			Timestamp: time.Unix(ts, 0).UTC(),
			Quality:   card.Quality(q),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// ImportCollection upserts a decoded deck into the database in one
// transaction. Existing rows keep their stored progress unless the incoming
// deck carries its own scheduling state.
func (s *Store) ImportCollection(ctx context.Context, col *deck.Collection) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for si, subj := range col.Subjects {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO subjects (id, name, position) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
			subj.ID, subj.Name, si); err != nil {
			return fmt.Errorf("upsert subject %s: %w", subj.ID, err)
		}

		for pi, set := range subj.Sets {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO sets (id, subject_id, name, position) VALUES (?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET name = excluded.name, subject_id = excluded.subject_id`,
				set.ID, subj.ID, set.Name, pi); err != nil {
				return fmt.Errorf("upsert set %s: %w", set.ID, err)
			}

			for ci, c := range set.Cards {
				if err := upsertCard(ctx, tx, set.ID, ci, c); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func upsertCard(ctx context.Context, tx *sql.Tx, setID string, position int, c *card.Card) error {
	tagsJSON, err := json.Marshal(c.Tags)
	if err != nil {
		return fmt.Errorf("card %s: encode tags: %w", c.ID, err)
	}
	if c.Tags == nil {
		tagsJSON = []byte("[]")
	}

	var (
		status sql.NullString
		nextAt sql.NullInt64
		streak int
	)
	if c.State != nil {
		status = sql.NullString{String: string(c.State.Status), Valid: true}
		nextAt = sql.NullInt64{Int64: c.State.NextReviewAt.Unix(), Valid: true}
		streak = c.State.ConsecutiveGood
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cards (id, set_id, position, name, question, answer, tags, status, next_review_at, consecutive_good)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			set_id = excluded.set_id, position = excluded.position,
			name = excluded.name, question = excluded.question,
			answer = excluded.answer, tags = excluded.tags,
			status = COALESCE(excluded.status, cards.status),
			next_review_at = COALESCE(excluded.next_review_at, cards.next_review_at),
			consecutive_good = CASE WHEN excluded.status IS NULL THEN cards.consecutive_good ELSE excluded.consecutive_good END`,
		c.ID, setID, position, c.Name, c.Question, c.Answer, string(tagsJSON), status, nextAt, streak); err != nil {
		return fmt.Errorf("upsert card %s: %w", c.ID, err)
	}

	// The file's history replaces the stored rows, mirroring how incoming
	// state wins above. Cards without history keep whatever is stored, and
	// re-importing the same file stays idempotent.
	if len(c.History) > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM history WHERE card_id = ?`, c.ID); err != nil {
			return fmt.Errorf("card %s: clear history: %w", c.ID, err)
		}
		for _, h := range c.History {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO history (card_id, timestamp, quality) VALUES (?, ?, ?)`,
				c.ID, h.Timestamp.Unix(), string(h.Quality)); err != nil {
				return fmt.Errorf("card %s: insert history: %w", c.ID, err)
			}
		}
	}
	return nil
}

// RecordAnswer write-throughs one answered presentation: the history entry
// and the card's new scheduling state land in the same transaction. Called
// after every answer so an abandoned session loses nothing.
func (s *Store) RecordAnswer(ctx context.Context, c *card.Card, entry card.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record answer: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (card_id, timestamp, quality) VALUES (?, ?, ?)`,
		c.ID, entry.Timestamp.Unix(), string(entry.Quality)); err != nil {
		return fmt.Errorf("card %s: insert history: %w", c.ID, err)
	}

	if c.State != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE cards SET status = ?, next_review_at = ?, consecutive_good = ? WHERE id = ?`,
			string(c.State.Status), c.State.NextReviewAt.Unix(), c.State.ConsecutiveGood, c.ID); err != nil {
			return fmt.Errorf("card %s: update state: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record answer: %w", err)
	}
	return nil
}

// ResetCards wipes the stored progress of the given cards: scheduling state
// back to new and due at now, history deleted.
func (s *Store) ResetCards(ctx context.Context, now time.Time, cardIDs ...string) error {
	if len(cardIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback()

	for _, id := range cardIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE cards SET status = ?, next_review_at = ?, consecutive_good = 0 WHERE id = ?`,
			string(card.StatusNew), now.Unix(), id); err != nil {
			return fmt.Errorf("card %s: reset state: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM history WHERE card_id = ?`, id); err != nil {
			return fmt.Errorf("card %s: clear history: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
