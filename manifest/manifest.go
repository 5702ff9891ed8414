// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

const recordPrefix = "manifest:doc:"

var (
	// ErrNotFound is returned when no ingest record exists for a doc_id.
	ErrNotFound = errors.New("ingest record not found")

	// ErrDocIDRequired is returned when an operation is attempted with an
	// empty doc_id.
	ErrDocIDRequired = errors.New("doc_id required")
)

// Record describes one ingested document.
type Record struct {
	DocID      string    `json:"doc_id"`
	UID        string    `json:"uid"`
	Filename   string    `json:"filename"`
	Checksum   string    `json:"checksum"`
	NodeCount  int       `json:"node_count"`
	RootID     string    `json:"root_id"`
	IngestedAt time.Time `json:"ingested_at"`
}

// Ledger tracks which documents have been ingested, keyed by doc_id. It
// backs the status and remove commands and lets callers skip re-ingesting
// unchanged content by comparing checksums.
type Ledger struct {
	db     *badger.DB
	logger *slog.Logger
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens the ledger database at the given path, creating the directory
// if needed. Pass inMemory true for an ephemeral ledger (used in tests).
func Open(filePath string, inMemory bool) (*Ledger, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(filePath)
			if err != nil {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Ledger{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// withTx executes fn within a transaction, discarding it on error.
func (l *Ledger) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := l.db.NewTransaction(isWrite)
	defer tx.Discard()

	if err := fn(tx); err != nil {
		return err
	}
	if isWrite {
		return tx.Commit()
	}
	return nil
}

// Put stores or replaces the ingest record for the record's doc_id.
func (l *Ledger) Put(record *Record) error {
	if record == nil || record.DocID == "" {
		return ErrDocIDRequired
	}

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding ingest record %s: %w", record.DocID, err)
	}

	return l.withTx(func(tx *badger.Txn) error {
		return tx.Set(recordKey(record.DocID), value)
	}, true)
}

// Get returns the ingest record for a doc_id, or ErrNotFound.
func (l *Ledger) Get(docID string) (*Record, error) {
	if docID == "" {
		return nil, ErrDocIDRequired
	}

	var record Record
	err := l.withTx(func(tx *badger.Txn) error {
		item, err := tx.Get(recordKey(docID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, docID)
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &record)
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes the ingest record for a doc_id. Deleting an unknown doc_id
// is not an error.
func (l *Ledger) Delete(docID string) error {
	if docID == "" {
		return ErrDocIDRequired
	}
	return l.withTx(func(tx *badger.Txn) error {
		return tx.Delete(recordKey(docID))
	}, true)
}

// List returns all ingest records in key order.
func (l *Ledger) List() ([]*Record, error) {
	var records []*Record

	err := l.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record Record
			err := iter.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, &record)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func recordKey(docID string) []byte {
	return []byte(recordPrefix + docID)
}
