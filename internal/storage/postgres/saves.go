package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avalight/herobook/internal/storage"
)

// SaveRepository persists session snapshots in the saves table.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save upserts the snapshot keyed by its save id. Repeated calls with the
// same id are an idempotent overwrite.
//
// Precondition: snap.SaveID must be a valid UUID string.
// Postcondition: Load(snap.SaveID) returns the stored snapshot.
func (r *SaveRepository) Save(ctx context.Context, snap storage.Snapshot) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO saves
			(save_id, version, saved_at, page, max_strength,
			 stats, inventory, equipment, spellbook, taken)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (save_id) DO UPDATE SET
			version = EXCLUDED.version,
			saved_at = EXCLUDED.saved_at,
			page = EXCLUDED.page,
			max_strength = EXCLUDED.max_strength,
			stats = EXCLUDED.stats,
			inventory = EXCLUDED.inventory,
			equipment = EXCLUDED.equipment,
			spellbook = EXCLUDED.spellbook,
			taken = EXCLUDED.taken`,
		snap.SaveID, snap.Version, snap.SavedAt, snap.Page, snap.MaxStrength,
		snap.Stats, snap.Inventory, snap.Equipment, snap.Spellbook, snap.Taken,
	)
	if err != nil {
		return fmt.Errorf("upserting snapshot %s: %w", snap.SaveID, err)
	}
	return nil
}

// Load retrieves the snapshot for the given save id.
//
// Postcondition: Returns the Snapshot or storage.ErrSnapshotNotFound.
func (r *SaveRepository) Load(ctx context.Context, saveID string) (storage.Snapshot, error) {
	var snap storage.Snapshot
	err := r.db.QueryRow(ctx, `
		SELECT save_id, version, saved_at, page, max_strength,
		       stats, inventory, equipment, spellbook, taken
		FROM saves WHERE save_id = $1`,
		saveID,
	).Scan(
		&snap.SaveID, &snap.Version, &snap.SavedAt, &snap.Page, &snap.MaxStrength,
		&snap.Stats, &snap.Inventory, &snap.Equipment, &snap.Spellbook, &snap.Taken,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return storage.Snapshot{}, storage.ErrSnapshotNotFound
		}
		return storage.Snapshot{}, fmt.Errorf("loading snapshot %s: %w", saveID, err)
	}
	return snap, nil
}
