package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/sixhops/sixhops/pkg/types"
)

// Neo4jStore implements Store on a Neo4j server. Records become labeled
// nodes carrying the metadata document as a JSON string property; credit
// edges become CAST_IN relationships.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	session  neo4j.SessionWithContext
	tx       neo4j.ExplicitTransaction
	log      *slog.Logger
}

// NewNeo4j connects to the Neo4j server described by cfg and verifies
// connectivity.
func NewNeo4j(ctx context.Context, cfg Config, logger *slog.Logger) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("connecting to neo4j: %w", err)
	}
	database := cfg.Database
	if database == "" {
		database = "neo4j"
	}
	logger.Debug("opened neo4j store", "uri", cfg.URI, "database", database)
	return &Neo4jStore{driver: driver, database: database, log: logger}, nil
}

func labelFor(kind types.Kind) (string, error) {
	switch kind {
	case types.KindPerson:
		return "Person", nil
	case types.KindMovie:
		return "Movie", nil
	case types.KindSeries:
		return "Tv", nil
	default:
		return "", fmt.Errorf("%w: %v", types.ErrUnknownMediaType, kind)
	}
}

func relationshipFor(kind types.Kind) (string, error) {
	switch kind {
	case types.KindMovie:
		return "CAST_IN_MOVIE", nil
	case types.KindSeries:
		return "CAST_IN_TV", nil
	default:
		return "", fmt.Errorf("%w: %v is not a credit kind", types.ErrUnknownMediaType, kind)
	}
}

func (s *Neo4jStore) Begin(ctx context.Context) error {
	if s.tx != nil {
		return ErrTransactionActive
	}
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		_ = session.Close(ctx)
		return fmt.Errorf("beginning transaction: %w", err)
	}
	s.session = session
	s.tx = tx
	return nil
}

func (s *Neo4jStore) Commit(ctx context.Context) error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	err := s.tx.Commit(ctx)
	s.closeTx(ctx)
	if err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Neo4jStore) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	err := s.tx.Rollback(ctx)
	s.closeTx(ctx)
	if err != nil {
		return fmt.Errorf("rolling back transaction: %w", err)
	}
	return nil
}

func (s *Neo4jStore) closeTx(ctx context.Context) {
	_ = s.session.Close(ctx)
	s.session = nil
	s.tx = nil
}

// run executes a query inside the open transaction, or in a short-lived
// session when none is open.
func (s *Neo4jStore) run(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, error) {
	if s.tx != nil {
		result, err := s.tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)
	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	return result.Collect(ctx)
}

func (s *Neo4jStore) LoadRecord(ctx context.Context, id types.ID) (*types.Metadata, int, error) {
	label, err := labelFor(id.Kind)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		MERGE (n:%s {id: $id})
		ON CREATE SET n.explored_depth = 0
		RETURN n.metadata AS metadata, n.explored_depth AS depth
	`, label)
	records, err := s.run(ctx, query, map[string]any{"id": id.N})
	if err != nil {
		return nil, 0, fmt.Errorf("loading record for %v: %w", id, err)
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("loading record for %v: empty result", id)
	}

	depth := 0
	if raw, ok := records[0].Get("depth"); ok {
		if v, ok := raw.(int64); ok {
			depth = int(v)
		}
	}
	raw, _ := records[0].Get("metadata")
	blob, ok := raw.(string)
	if !ok || blob == "" {
		return nil, depth, nil
	}
	var meta types.Metadata
	if err := json.Unmarshal([]byte(blob), &meta); err != nil {
		return nil, 0, fmt.Errorf("decoding metadata for %v: %w", id, err)
	}
	return &meta, depth, nil
}

func (s *Neo4jStore) SaveRecord(ctx context.Context, id types.ID, meta *types.Metadata) error {
	label, err := labelFor(id.Kind)
	if err != nil {
		return err
	}
	blob, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata for %v: %w", id, err)
	}
	query := fmt.Sprintf(`MERGE (n:%s {id: $id})
		ON CREATE SET n.explored_depth = 0
		SET n.metadata = $metadata`, label)
	if _, err := s.run(ctx, query, map[string]any{"id": id.N, "metadata": string(blob)}); err != nil {
		return fmt.Errorf("saving record for %v: %w", id, err)
	}
	return nil
}

func (s *Neo4jStore) UpdateDepth(ctx context.Context, id types.ID, depth int) error {
	label, err := labelFor(id.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`MATCH (n:%s {id: $id}) SET n.explored_depth = $depth`, label)
	if _, err := s.run(ctx, query, map[string]any{"id": id.N, "depth": depth}); err != nil {
		return fmt.Errorf("updating depth for %v: %w", id, err)
	}
	return nil
}

func (s *Neo4jStore) ListIDs(ctx context.Context, kind types.Kind) ([]types.ID, error) {
	label, err := labelFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`MATCH (n:%s) RETURN n.id AS id ORDER BY n.id`, label)
	records, err := s.run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("listing %s nodes: %w", label, err)
	}

	ids := make([]types.ID, 0, len(records))
	for _, record := range records {
		if raw, ok := record.Get("id"); ok {
			if n, ok := raw.(int64); ok {
				ids = append(ids, types.NewID(kind, n))
			}
		}
	}
	return ids, nil
}

func (s *Neo4jStore) InsertCreditEdge(ctx context.Context, actor int64, credit types.ID) error {
	label, err := labelFor(credit.Kind)
	if err != nil {
		return err
	}
	relationship, err := relationshipFor(credit.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		MERGE (a:Person {id: $actor})
		ON CREATE SET a.explored_depth = 0
		MERGE (c:%s {id: $job})
		ON CREATE SET c.explored_depth = 0
		MERGE (a)-[:%s]->(c)
	`, label, relationship)
	if _, err := s.run(ctx, query, map[string]any{"actor": actor, "job": credit.N}); err != nil {
		return fmt.Errorf("inserting credit edge (%d, %v): %w", actor, credit, err)
	}
	return nil
}

func (s *Neo4jStore) ActorsWithCredits(ctx context.Context, kind types.Kind) ([]int64, error) {
	relationship, err := relationshipFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`MATCH (a:Person)-[:%s]->() RETURN DISTINCT a.id AS id ORDER BY a.id`, relationship)
	return s.queryInt64s(ctx, query, nil, "id")
}

func (s *Neo4jStore) ActorCredits(ctx context.Context, actor int64, kind types.Kind) ([]int64, error) {
	relationship, err := relationshipFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`MATCH (a:Person {id: $actor})-[:%s]->(c) RETURN c.id AS id ORDER BY c.id`, relationship)
	return s.queryInt64s(ctx, query, map[string]any{"actor": actor}, "id")
}

func (s *Neo4jStore) CreditActors(ctx context.Context, credit types.ID) ([]int64, error) {
	label, err := labelFor(credit.Kind)
	if err != nil {
		return nil, err
	}
	relationship, err := relationshipFor(credit.Kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`MATCH (a:Person)-[:%s]->(:%s {id: $job}) RETURN a.id AS id ORDER BY a.id`, relationship, label)
	return s.queryInt64s(ctx, query, map[string]any{"job": credit.N}, "id")
}

func (s *Neo4jStore) queryInt64s(ctx context.Context, query string, params map[string]any, key string) ([]int64, error) {
	records, err := s.run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	values := make([]int64, 0, len(records))
	for _, record := range records {
		if raw, ok := record.Get(key); ok {
			if v, ok := raw.(int64); ok {
				values = append(values, v)
			}
		}
	}
	return values, nil
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	if s.tx != nil {
		_ = s.tx.Rollback(ctx)
		s.closeTx(ctx)
	}
	return s.driver.Close(ctx)
}
