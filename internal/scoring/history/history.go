package history

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/tigertrust/tigerscore-backend/internal/scoring/types"
	"github.com/tigertrust/tigerscore-backend/pkg/logging"
)

const (
	keyspace = "tigertrust"
	table    = "score_history"
)

// Config holds the ScyllaDB/Cassandra connection settings
type Config struct {
	Hosts       []string
	Timeout     time.Duration
	ConnectWait time.Duration
	Retries     int
}

// Snapshot is one persisted scoring outcome
type Snapshot struct {
	WalletAddress string    `json:"wallet_address"`
	Score         int       `json:"score"`
	Tier          string    `json:"tier"`
	Success       bool      `json:"success"`
	Signature     string    `json:"signature,omitempty"`
	Error         string    `json:"error,omitempty"`
	ComputedAt    time.Time `json:"computed_at"`
}

// Store persists score snapshots. It is optional: the orchestrator treats a
// nil *Store as history-disabled.
type Store struct {
	session *gocql.Session
	logger  logging.Logger
}

func NewStore(cfg Config, logger logging.Logger) (*Store, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Timeout = cfg.Timeout
	cluster.ConnectTimeout = cfg.ConnectWait
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: cfg.Retries}
	cluster.Consistency = gocql.Quorum

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to score history database: %w", err)
	}

	store := &Store{session: session, logger: logger}
	if err := store.ensureSchema(); err != nil {
		session.Close()
		return nil, err
	}

	logger.Info("Score history store initialized", "hosts", cfg.Hosts)
	return store, nil
}

func (s *Store) ensureSchema() error {
	createKeyspace := fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`,
		keyspace,
	)
	if err := s.session.Query(createKeyspace).Exec(); err != nil {
		return fmt.Errorf("failed to create keyspace: %w", err)
	}

	createTable := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s.%s (
			wallet_address text,
			computed_at timestamp,
			score int,
			tier text,
			success boolean,
			signature text,
			error text,
			PRIMARY KEY (wallet_address, computed_at)
		) WITH CLUSTERING ORDER BY (computed_at DESC)`,
		keyspace, table,
	)
	if err := s.session.Query(createTable).Exec(); err != nil {
		return fmt.Errorf("failed to create score history table: %w", err)
	}
	return nil
}

// Record stores the outcome of one wallet's update cycle
func (s *Store) Record(ctx context.Context, outcome types.WalletUpdateOutcome) error {
	snapshot := Snapshot{
		WalletAddress: outcome.WalletAddress,
		Success:       outcome.Success,
		Error:         outcome.Error,
		ComputedAt:    time.Now().UTC(),
	}
	if outcome.ScoreResult != nil {
		snapshot.Score = outcome.ScoreResult.Score
		snapshot.Tier = outcome.ScoreResult.Tier.String()
		snapshot.ComputedAt = outcome.ScoreResult.ComputedAt
	}
	if outcome.ChainUpdate != nil {
		snapshot.Signature = outcome.ChainUpdate.Signature
	}

	query := fmt.Sprintf(
		`INSERT INTO %s.%s (wallet_address, computed_at, score, tier, success, signature, error) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		keyspace, table,
	)
	return s.session.Query(query,
		snapshot.WalletAddress,
		snapshot.ComputedAt,
		snapshot.Score,
		snapshot.Tier,
		snapshot.Success,
		snapshot.Signature,
		snapshot.Error,
	).WithContext(ctx).Exec()
}

// Recent returns the latest snapshots for a wallet, newest first
func (s *Store) Recent(ctx context.Context, wallet string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(
		`SELECT wallet_address, computed_at, score, tier, success, signature, error FROM %s.%s WHERE wallet_address = ? LIMIT ?`,
		keyspace, table,
	)

	iter := s.session.Query(query, wallet, limit).WithContext(ctx).Iter()
	var snapshots []Snapshot
	var snap Snapshot
	for iter.Scan(&snap.WalletAddress, &snap.ComputedAt, &snap.Score, &snap.Tier, &snap.Success, &snap.Signature, &snap.Error) {
		snapshots = append(snapshots, snap)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to read score history for %s: %w", wallet, err)
	}
	return snapshots, nil
}

func (s *Store) Close() {
	if s.session != nil {
		s.session.Close()
	}
}
