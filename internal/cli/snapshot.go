package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/extremecraft/internal/registry"
	"github.com/roach88/extremecraft/internal/serializer"
	"github.com/roach88/extremecraft/internal/store"
)

// SnapshotOptions holds flags for the snapshot command.
type SnapshotOptions struct {
	*RootOptions
	Database string
	Keep     int
}

// SnapshotResult describes a saved or restored snapshot.
type SnapshotResult struct {
	ReloadID     string          `json:"reload_id"`
	Seq          int64           `json:"seq"`
	RecipeCount  int             `json:"recipe_count"`
	SnapshotHash string          `json:"snapshot_hash"`
	Pruned       int             `json:"pruned,omitempty"`
	Recipes      []RecipeSummary `json:"recipes,omitempty"`
}

func snapshotResult(r store.Reload) SnapshotResult {
	return SnapshotResult{
		ReloadID:     r.ID.String(),
		Seq:          r.Seq,
		RecipeCount:  r.RecipeCount,
		SnapshotHash: r.SnapshotHash,
	}
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshot <pack-dir>",
		Short: "Persist a datapack's recipes to SQLite",
		Long: `Load a datapack into a fresh registry and save it as a new snapshot.

Each snapshot is stored under the registry's reload id. Older snapshots
are kept unless --keep limits them.

Example:
  extremecraft snapshot ./pack --db recipes.db
  extremecraft snapshot ./pack --db recipes.db --keep 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().IntVar(&opts.Keep, "keep", 0, "prune to the newest N snapshots (0 keeps all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSnapshot(opts *SnapshotOptions, packDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	if opts.Keep < 0 {
		return NewExitError(ExitCommandError, "--keep must not be negative")
	}

	result, err := requirePack(ctx, packDir, formatter)
	if err != nil {
		return err
	}

	m := registry.New()
	reloadID, err := m.Replace(result.Recipes)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to install recipes", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	saved, err := st.SaveSnapshot(ctx, reloadID, m.Recipes(), result.Serializers)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to save snapshot", err)
	}
	out := snapshotResult(saved)

	if opts.Keep > 0 {
		n, err := st.Prune(ctx, opts.Keep)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to prune snapshots", err)
		}
		out.Pruned = n
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	fmt.Fprintf(formatter.Writer, "✓ Saved %d recipe(s) as snapshot %d (%s)\n", out.RecipeCount, out.Seq, out.ReloadID)
	if out.Pruned > 0 {
		fmt.Fprintf(formatter.Writer, "  pruned %d older snapshot(s)\n", out.Pruned)
	}
	return nil
}

// RestoreOptions holds flags for the restore command.
type RestoreOptions struct {
	*RootOptions
	Database string
	Reload   string
	History  bool
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RestoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Read recipes back from a SQLite snapshot",
		Long: `Decode the newest snapshot (or the one given by --reload), verify its
content hashes and install it in a registry.

Example:
  extremecraft restore --db recipes.db
  extremecraft restore --db recipes.db --history`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Reload, "reload", "", "reload id to restore (default newest)")
	cmd.Flags().BoolVar(&opts.History, "history", false, "list stored snapshots instead of restoring")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRestore(opts *RestoreOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()

	// store.Open would create a missing database
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database), err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if opts.History {
		return outputHistory(formatter, st, cmd)
	}

	serializers := serializer.Default(nil)
	var snap store.Snapshot
	if opts.Reload != "" {
		id, perr := uuid.Parse(opts.Reload)
		if perr != nil {
			return WrapExitError(ExitCommandError, "invalid reload id", perr)
		}
		snap, err = st.LoadReload(ctx, id, serializers)
	} else {
		snap, err = st.LoadSnapshot(ctx, serializers)
	}
	if errors.Is(err, store.ErrNoSnapshot) {
		_ = formatter.Error(ErrCodeNoSnapshot, "no snapshot stored", nil)
		return WrapExitError(ExitFailure, "no snapshot stored", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load snapshot", err)
	}

	m := registry.New()
	if _, err := m.Replace(snap.Recipes); err != nil {
		return WrapExitError(ExitCommandError, "failed to install recipes", err)
	}

	out := snapshotResult(snap.Reload)
	out.Recipes = summarize(m.Recipes())
	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	fmt.Fprintf(formatter.Writer, "✓ Restored snapshot %d (%s)\n", out.Seq, out.ReloadID)
	writeSummaries(formatter, out.Recipes)
	return nil
}

// ErrCodeNoSnapshot reports an empty snapshot database.
const ErrCodeNoSnapshot = "E501"

func outputHistory(formatter *OutputFormatter, st *store.Store, cmd *cobra.Command) error {
	reloads, err := st.Reloads(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list snapshots", err)
	}

	history := make([]SnapshotResult, 0, len(reloads))
	for _, r := range reloads {
		history = append(history, snapshotResult(r))
	}
	if formatter.Format == "json" {
		return formatter.Success(history)
	}
	if len(history) == 0 {
		fmt.Fprintln(formatter.Writer, "No snapshots.")
		return nil
	}
	for _, h := range history {
		fmt.Fprintf(formatter.Writer, "%d  %s  recipes=%d  %s\n", h.Seq, h.ReloadID, h.RecipeCount, h.SnapshotHash[:16])
	}
	return nil
}
