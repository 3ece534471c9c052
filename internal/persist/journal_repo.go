package persist

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RunInfo describes a run when it starts.
type RunInfo struct {
	ID       uuid.UUID
	Scenario string
	Units    int
	Seed     uint64
	TickRate time.Duration
}

// EngagementRow is one engagement start or clear.
type EngagementRow struct {
	Tick     uint64
	Attacker uint64
	Target   uint64
	Faction  int32
	Cleared  bool
}

// TickRow is a sampled tick summary.
type TickRow struct {
	Tick      uint64
	Units     int
	Active    int
	Blocked   int
	Attacking int
	Digest    [32]byte
}

// JournalRepo writes run journals.
type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

func (r *JournalRepo) CreateRun(ctx context.Context, run RunInfo) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO runs (id, scenario, units, seed, tick_rate) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.Scenario, run.Units, int64(run.Seed), run.TickRate,
	)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (r *JournalRepo) FinishRun(ctx context.Context, id uuid.UUID, ticks uint64, digest [32]byte) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE runs SET finished_at = now(), ticks = $2, digest = $3 WHERE id = $1`,
		id, int64(ticks), hex.EncodeToString(digest[:]),
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// WriteBatch stores engagements and tick rows of one run in a single
// transaction. Engagements go through COPY.
func (r *JournalRepo) WriteBatch(ctx context.Context, run uuid.UUID, eng []EngagementRow, ticks []TickRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if len(eng) > 0 {
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"engagements"},
			[]string{"run_id", "tick", "attacker", "target", "faction", "cleared"},
			pgx.CopyFromSlice(len(eng), func(i int) ([]any, error) {
				e := eng[i]
				return []any{run, int64(e.Tick), int64(e.Attacker), int64(e.Target), e.Faction, e.Cleared}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("journal copy engagements: %w", err)
		}
	}

	if len(ticks) > 0 {
		batch := &pgx.Batch{}
		for _, t := range ticks {
			batch.Queue(
				`INSERT INTO tick_stats (run_id, tick, units, active, blocked, attacking, digest)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				run, int64(t.Tick), t.Units, t.Active, t.Blocked, t.Attacking, hex.EncodeToString(t.Digest[:]),
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("journal insert ticks: %w", err)
		}
	}

	return tx.Commit(ctx)
}
