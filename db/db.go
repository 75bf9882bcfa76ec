package db

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"superai/models"
)

type DB struct {
	badgerDB *badger.DB
}

func New(dbPath string) (*DB, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{badgerDB: badgerDB}, nil
}

func (d *DB) Close() error {
	return d.badgerDB.Close()
}

func historyKey(userID, sessionID string) []byte {
	return []byte(fmt.Sprintf("history:%s:%s", userID, sessionID))
}

// StoreHistorySession persists an archived conversation. Archived sessions
// are never mutated afterwards.
func (d *DB) StoreHistorySession(userID string, sess *models.HistorySession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal history session: %w", err)
	}
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set(historyKey(userID, sess.ID), data)
	})
}

// ListHistorySessions returns the user's archived conversations, newest first.
func (d *DB) ListHistorySessions(userID string) ([]models.HistorySession, error) {
	var sessions []models.HistorySession

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(fmt.Sprintf("history:%s:", userID))
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var sess models.HistorySession
				if err := json.Unmarshal(val, &sess); err != nil {
					return err
				}
				sessions = append(sessions, sess)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Timestamp > sessions[j].Timestamp
	})
	return sessions, nil
}

// GetHistorySession loads one archived conversation, or nil when absent.
func (d *DB) GetHistorySession(userID, sessionID string) (*models.HistorySession, error) {
	var sess *models.HistorySession

	err := d.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(historyKey(userID, sessionID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var s models.HistorySession
			if err := json.Unmarshal(val, &s); err != nil {
				return err
			}
			sess = &s
			return nil
		})
	})
	return sess, err
}

// DeleteHistorySession removes one archived conversation.
func (d *DB) DeleteHistorySession(userID, sessionID string) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Delete(historyKey(userID, sessionID))
	})
}

// StoreDocumentText caches uploaded document text under its data identifier.
// Convenience only; correctness never depends on this entry existing.
func (d *DB) StoreDocumentText(dataID, text string) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("doc:"+dataID), []byte(text))
	})
}

// GetDocumentText returns the cached document text, or "" when absent.
func (d *DB) GetDocumentText(dataID string) (string, error) {
	var text string
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("doc:" + dataID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			text = string(val)
			return nil
		})
	})
	return text, err
}

// DeleteDocumentText drops a cached document.
func (d *DB) DeleteDocumentText(dataID string) error {
	return d.badgerDB.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte("doc:" + dataID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// ListDocumentIDs returns all cached document identifiers.
func (d *DB) ListDocumentIDs() ([]string, error) {
	var ids []string
	err := d.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("doc:")
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), "doc:"))
		}
		return nil
	})
	return ids, err
}
