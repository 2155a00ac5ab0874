// Package labelstore persists serialized label streams in badger, keeping
// every saved revision.
package labelstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/phanxgames/databar"
)

// ErrNotFound is returned when a stream or revision has never been saved.
var ErrNotFound = errors.New("labelstore: not found")

const sep = 0

var (
	revPrefix  = []byte("rev")
	headPrefix = []byte("head")
)

// Revision is one saved snapshot of a stream's labels.
type Revision struct {
	ID      uuid.UUID       `json:"id"`
	Stream  string          `json:"stream"`
	SavedAt time.Time       `json:"saved_at"`
	Labels  json.RawMessage `json:"labels"`
}

// Decode parses the revision's labels.
func (r Revision) Decode() ([]databar.Label, error) {
	return databar.ParseLabels(r.Labels)
}

// Store is a badger-backed label store. It is safe for concurrent use.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a store that keeps everything in memory.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open label store: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close flushes and closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

func revKey(stream string, id uuid.UUID) []byte {
	k := revStreamPrefix(stream)
	return append(k, id[:]...)
}

func revStreamPrefix(stream string) []byte {
	k := make([]byte, 0, len(revPrefix)+len(stream)+2+16)
	k = append(k, revPrefix...)
	k = append(k, sep)
	k = append(k, stream...)
	return append(k, sep)
}

func headKey(stream string) []byte {
	k := append([]byte{}, headPrefix...)
	k = append(k, sep)
	return append(k, stream...)
}

// Save stores labels, the serialized form produced by
// LabelStream.MarshalJSON, as a new revision of stream and makes it the
// head. Revision ids are UUIDv7, so history sorts by save time.
func (s *Store) Save(stream string, labels []byte) (Revision, error) {
	if stream == "" {
		return Revision{}, errors.New("labelstore: empty stream name")
	}
	if _, err := databar.ParseLabels(labels); err != nil {
		return Revision{}, fmt.Errorf("save %s: %w", stream, err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Revision{}, fmt.Errorf("save %s: revision id: %w", stream, err)
	}
	rev := Revision{
		ID:      id,
		Stream:  stream,
		SavedAt: s.now().UTC(),
		Labels:  json.RawMessage(bytes.Clone(labels)),
	}
	data, err := json.Marshal(rev)
	if err != nil {
		return Revision{}, fmt.Errorf("save %s: marshal: %w", stream, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(revKey(stream, id), data); err != nil {
			return err
		}
		return txn.Set(headKey(stream), id[:])
	})
	if err != nil {
		return Revision{}, fmt.Errorf("save %s: %w", stream, err)
	}
	slog.Debug("labels saved", "stream", stream, "revision", id)
	return rev, nil
}

// SaveStream saves the stream under its name and marks it saved.
func (s *Store) SaveStream(ls *databar.LabelStream) (Revision, error) {
	data, err := ls.MarshalJSON()
	if err != nil {
		return Revision{}, fmt.Errorf("save %s: %w", ls.Name(), err)
	}
	rev, err := s.Save(ls.Name(), data)
	if err != nil {
		return Revision{}, err
	}
	ls.MarkSaved()
	return rev, nil
}

// Latest returns the head revision of stream.
func (s *Store) Latest(stream string) (Revision, error) {
	var rev Revision
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(headKey(stream))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := uuid.FromBytes(raw)
		if err != nil {
			return err
		}
		rev, err = getRevision(txn, stream, id)
		return err
	})
	if err != nil {
		return Revision{}, fmt.Errorf("latest %s: %w", stream, err)
	}
	return rev, nil
}

// Load returns the labels of the head revision of stream.
func (s *Store) Load(stream string) ([]databar.Label, error) {
	rev, err := s.Latest(stream)
	if err != nil {
		return nil, err
	}
	return rev.Decode()
}

// Revision returns one revision of stream by id.
func (s *Store) Revision(stream string, id uuid.UUID) (Revision, error) {
	var rev Revision
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rev, err = getRevision(txn, stream, id)
		return err
	})
	if err != nil {
		return Revision{}, fmt.Errorf("revision %s/%s: %w", stream, id, err)
	}
	return rev, nil
}

func getRevision(txn *badger.Txn, stream string, id uuid.UUID) (Revision, error) {
	item, err := txn.Get(revKey(stream, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Revision{}, ErrNotFound
	}
	if err != nil {
		return Revision{}, err
	}
	var rev Revision
	err = item.Value(func(v []byte) error {
		return json.Unmarshal(v, &rev)
	})
	return rev, err
}

// History returns every revision of stream, oldest first.
func (s *Store) History(stream string) ([]Revision, error) {
	var out []Revision
	prefix := revStreamPrefix(stream)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rev Revision
			if err := it.Item().Value(func(v []byte) error {
				return json.Unmarshal(v, &rev)
			}); err != nil {
				return err
			}
			out = append(out, rev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", stream, err)
	}
	return out, nil
}

// Streams returns the names of all saved streams in key order.
func (s *Store) Streams() ([]string, error) {
	var out []string
	prefix := append(append([]byte{}, headPrefix...), sep)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			out = append(out, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("streams: %w", err)
	}
	return out, nil
}
