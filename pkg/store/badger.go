package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/sixhops/sixhops/pkg/types"
)

// BadgerStore implements Store on an embedded Badger key-value database.
// Records live under node/<table>/<id>; credit edges under
// edge/<table>/<actor>/<job>.
type BadgerStore struct {
	db  *badger.DB
	txn *badger.Txn
	log *slog.Logger
}

type recordDoc struct {
	Metadata      *types.Metadata `json:"metadata"`
	ExploredDepth int             `json:"explored_depth"`
}

// NewBadger opens (or creates) the Badger database under dir. An empty dir
// opens an in-memory database.
func NewBadger(dir string, logger *slog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger database: %w", err)
	}
	logger.Debug("opened badger store", "dir", dir)
	return &BadgerStore{db: db, log: logger}, nil
}

func recordKey(table string, n int64) []byte {
	return []byte("node/" + table + "/" + strconv.FormatInt(n, 10))
}

func (s *BadgerStore) Begin(ctx context.Context) error {
	if s.txn != nil {
		return ErrTransactionActive
	}
	s.txn = s.db.NewTransaction(true)
	return nil
}

func (s *BadgerStore) Commit(ctx context.Context) error {
	if s.txn == nil {
		return ErrNoTransaction
	}
	err := s.txn.Commit()
	s.txn = nil
	if err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *BadgerStore) Rollback(ctx context.Context) error {
	if s.txn == nil {
		return ErrNoTransaction
	}
	s.txn.Discard()
	s.txn = nil
	return nil
}

// update runs fn inside the open transaction, or in a one-off write
// transaction when none is open.
func (s *BadgerStore) update(fn func(txn *badger.Txn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	return s.db.Update(fn)
}

func (s *BadgerStore) view(fn func(txn *badger.Txn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	return s.db.View(fn)
}

func getRecord(txn *badger.Txn, key []byte) (*recordDoc, error) {
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var doc recordDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func putRecord(txn *badger.Txn, key []byte, doc *recordDoc) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return txn.Set(key, raw)
}

func (s *BadgerStore) LoadRecord(ctx context.Context, id types.ID) (*types.Metadata, int, error) {
	table, err := tableFor(id.Kind)
	if err != nil {
		return nil, 0, err
	}

	var meta *types.Metadata
	var depth int
	err = s.update(func(txn *badger.Txn) error {
		doc, err := getRecord(txn, recordKey(table, id.N))
		if errors.Is(err, badger.ErrKeyNotFound) {
			s.log.Debug("creating record", "id", id.String())
			return putRecord(txn, recordKey(table, id.N), &recordDoc{})
		}
		if err != nil {
			return err
		}
		meta = doc.Metadata
		depth = doc.ExploredDepth
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("loading record for %v: %w", id, err)
	}
	return meta, depth, nil
}

func (s *BadgerStore) SaveRecord(ctx context.Context, id types.ID, meta *types.Metadata) error {
	table, err := tableFor(id.Kind)
	if err != nil {
		return err
	}
	err = s.update(func(txn *badger.Txn) error {
		doc, err := getRecord(txn, recordKey(table, id.N))
		if errors.Is(err, badger.ErrKeyNotFound) {
			doc = &recordDoc{}
		} else if err != nil {
			return err
		}
		doc.Metadata = meta
		return putRecord(txn, recordKey(table, id.N), doc)
	})
	if err != nil {
		return fmt.Errorf("saving record for %v: %w", id, err)
	}
	return nil
}

func (s *BadgerStore) UpdateDepth(ctx context.Context, id types.ID, depth int) error {
	table, err := tableFor(id.Kind)
	if err != nil {
		return err
	}
	err = s.update(func(txn *badger.Txn) error {
		doc, err := getRecord(txn, recordKey(table, id.N))
		if errors.Is(err, badger.ErrKeyNotFound) {
			doc = &recordDoc{}
		} else if err != nil {
			return err
		}
		doc.ExploredDepth = depth
		return putRecord(txn, recordKey(table, id.N), doc)
	})
	if err != nil {
		return fmt.Errorf("updating depth for %v: %w", id, err)
	}
	return nil
}

func (s *BadgerStore) ListIDs(ctx context.Context, kind types.Kind) ([]types.ID, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	prefix := []byte("node/" + table + "/")

	var ids []types.ID
	err = s.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			raw := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("malformed record key %q: %w", it.Item().Key(), err)
			}
			ids = append(ids, types.NewID(kind, n))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(ids, func(a, b types.ID) int { return int(a.N - b.N) })
	return ids, nil
}

func (s *BadgerStore) InsertCreditEdge(ctx context.Context, actor int64, credit types.ID) error {
	table, err := creditsTableFor(credit.Kind)
	if err != nil {
		return err
	}
	key := []byte(fmt.Sprintf("edge/%s/%d/%d", table, actor, credit.N))
	err = s.update(func(txn *badger.Txn) error {
		return txn.Set(key, nil)
	})
	if err != nil {
		return fmt.Errorf("inserting credit edge (%d, %v): %w", actor, credit, err)
	}
	return nil
}

// edges iterates every (actor, job) pair of one credit kind.
func (s *BadgerStore) edges(kind types.Kind, visit func(actor, job int64)) error {
	table, err := creditsTableFor(kind)
	if err != nil {
		return err
	}
	prefix := []byte("edge/" + table + "/")

	return s.view(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			raw := strings.TrimPrefix(string(it.Item().Key()), string(prefix))
			parts := strings.SplitN(raw, "/", 2)
			if len(parts) != 2 {
				continue
			}
			actor, err1 := strconv.ParseInt(parts[0], 10, 64)
			job, err2 := strconv.ParseInt(parts[1], 10, 64)
			if err1 != nil || err2 != nil {
				continue
			}
			visit(actor, job)
		}
		return nil
	})
}

func (s *BadgerStore) ActorsWithCredits(ctx context.Context, kind types.Kind) ([]int64, error) {
	seen := map[int64]bool{}
	if err := s.edges(kind, func(actor, _ int64) { seen[actor] = true }); err != nil {
		return nil, err
	}
	actors := make([]int64, 0, len(seen))
	for actor := range seen {
		actors = append(actors, actor)
	}
	slices.Sort(actors)
	return actors, nil
}

func (s *BadgerStore) ActorCredits(ctx context.Context, actor int64, kind types.Kind) ([]int64, error) {
	var jobs []int64
	err := s.edges(kind, func(a, job int64) {
		if a == actor {
			jobs = append(jobs, job)
		}
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(jobs)
	return jobs, nil
}

func (s *BadgerStore) CreditActors(ctx context.Context, credit types.ID) ([]int64, error) {
	var actors []int64
	err := s.edges(credit.Kind, func(actor, job int64) {
		if job == credit.N {
			actors = append(actors, actor)
		}
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(actors)
	return actors, nil
}

func (s *BadgerStore) Close(ctx context.Context) error {
	if s.txn != nil {
		s.txn.Discard()
		s.txn = nil
	}
	return s.db.Close()
}
