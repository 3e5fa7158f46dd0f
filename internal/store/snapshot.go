package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/recipe"
	"github.com/roach88/extremecraft/internal/serializer"
)

// ErrNoSnapshot is returned when the database holds no snapshot.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Reload describes one stored snapshot.
type Reload struct {
	ID           uuid.UUID
	Seq          int64
	RecipeCount  int
	SnapshotHash string
}

// Snapshot is a decoded stored snapshot.
type Snapshot struct {
	Reload
	Recipes []recipe.Recipe
}

// SaveSnapshot stores recipes as the snapshot for reloadID. Recipes are
// written in id order. The whole snapshot is one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, reloadID uuid.UUID, recipes []recipe.Recipe, serializers *serializer.Registry) (Reload, error) {
	if reloadID == uuid.Nil {
		return Reload{}, fmt.Errorf("save snapshot: nil reload id")
	}

	sorted := slices.Clone(recipes)
	slices.SortFunc(sorted, func(a, b recipe.Recipe) int { return a.ID().Compare(b.ID()) })

	type row struct {
		id, typ, ser string
		payload      []byte
		hash         string
	}
	rows := make([]row, len(sorted))
	hashes := make([]string, len(sorted))
	for i, r := range sorted {
		payload, err := serializers.EncodePayload(r)
		if err != nil {
			return Reload{}, fmt.Errorf("save snapshot: %w", err)
		}
		ser := r.SerializerID().String()
		rows[i] = row{
			id:      r.ID().String(),
			typ:     r.Type().String(),
			ser:     ser,
			payload: payload,
			hash:    RecipeHash(ser, r.ID().String(), payload),
		}
		hashes[i] = rows[i].hash
	}
	snapshotHash := SnapshotHash(hashes)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Reload{}, fmt.Errorf("save snapshot: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM reloads`).Scan(&seq); err != nil {
		return Reload{}, fmt.Errorf("save snapshot: next seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reloads (id, seq, recipe_count, snapshot_hash)
		VALUES (?, ?, ?, ?)
	`, reloadID.String(), seq, len(rows), snapshotHash); err != nil {
		return Reload{}, fmt.Errorf("save snapshot: insert reload: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipes (reload_id, seq, id, type, serializer, payload, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Reload{}, fmt.Errorf("save snapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for i, r := range rows {
		if _, err := stmt.ExecContext(ctx, reloadID.String(), i, r.id, r.typ, r.ser, r.payload, r.hash); err != nil {
			return Reload{}, fmt.Errorf("save snapshot: insert recipe %s: %w", r.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Reload{}, fmt.Errorf("save snapshot: commit: %w", err)
	}

	return Reload{ID: reloadID, Seq: seq, RecipeCount: len(rows), SnapshotHash: snapshotHash}, nil
}

// Reloads lists stored snapshots, newest first.
func (s *Store) Reloads(ctx context.Context) ([]Reload, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, recipe_count, snapshot_hash
		FROM reloads
		ORDER BY seq DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list reloads: %w", err)
	}
	defer rows.Close()

	var out []Reload
	for rows.Next() {
		r, err := scanReload(rows)
		if err != nil {
			return nil, fmt.Errorf("list reloads: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reloads: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReload(sc scanner) (Reload, error) {
	var (
		r  Reload
		id string
	)
	if err := sc.Scan(&id, &r.Seq, &r.RecipeCount, &r.SnapshotHash); err != nil {
		return Reload{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Reload{}, fmt.Errorf("reload id %q: %w", id, err)
	}
	r.ID = parsed
	return r, nil
}

// LoadSnapshot decodes the newest snapshot.
func (s *Store) LoadSnapshot(ctx context.Context, serializers *serializer.Registry) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, recipe_count, snapshot_hash
		FROM reloads
		ORDER BY seq DESC
		LIMIT 1
	`)
	r, err := scanReload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return s.loadRecipes(ctx, r, serializers)
}

// LoadReload decodes the snapshot saved for reloadID.
func (s *Store) LoadReload(ctx context.Context, reloadID uuid.UUID, serializers *serializer.Registry) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, recipe_count, snapshot_hash
		FROM reloads
		WHERE id = ?
	`, reloadID.String())
	r, err := scanReload(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("load reload %s: %w", reloadID, ErrNoSnapshot)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load reload %s: %w", reloadID, err)
	}
	return s.loadRecipes(ctx, r, serializers)
}

func (s *Store) loadRecipes(ctx context.Context, r Reload, serializers *serializer.Registry) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, serializer, payload, content_hash
		FROM recipes
		WHERE reload_id = ?
		ORDER BY seq ASC
	`, r.ID.String())
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot %s: %w", r.ID, err)
	}
	defer rows.Close()

	snap := Snapshot{Reload: r}
	var hashes []string
	for rows.Next() {
		var (
			idText, serText, hash string
			payload               []byte
		)
		if err := rows.Scan(&idText, &serText, &payload, &hash); err != nil {
			return Snapshot{}, fmt.Errorf("load snapshot %s: %w", r.ID, err)
		}
		if got := RecipeHash(serText, idText, payload); got != hash {
			return Snapshot{}, fmt.Errorf("load snapshot %s: recipe %s: content hash mismatch", r.ID, idText)
		}
		id, err := item.ParseID(idText)
		if err != nil {
			return Snapshot{}, fmt.Errorf("load snapshot %s: %w", r.ID, err)
		}
		kind, err := item.ParseID(serText)
		if err != nil {
			return Snapshot{}, fmt.Errorf("load snapshot %s: recipe %s: %w", r.ID, idText, err)
		}
		rec, err := serializers.DecodePayload(kind, id, payload)
		if err != nil {
			return Snapshot{}, fmt.Errorf("load snapshot %s: %w", r.ID, err)
		}
		snap.Recipes = append(snap.Recipes, rec)
		hashes = append(hashes, hash)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot %s: %w", r.ID, err)
	}

	if len(snap.Recipes) != r.RecipeCount {
		return Snapshot{}, fmt.Errorf("load snapshot %s: expected %d recipes, found %d", r.ID, r.RecipeCount, len(snap.Recipes))
	}
	if SnapshotHash(hashes) != r.SnapshotHash {
		return Snapshot{}, fmt.Errorf("load snapshot %s: snapshot hash mismatch", r.ID)
	}
	return snap, nil
}

// Prune deletes all but the newest keep snapshots and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("prune: negative keep %d", keep)
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM reloads
		WHERE seq NOT IN (SELECT seq FROM reloads ORDER BY seq DESC LIMIT ?)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune: %w", err)
	}
	return int(n), nil
}
