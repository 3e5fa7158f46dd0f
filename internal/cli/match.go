package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/extremecraft/internal/harness"
	"github.com/roach88/extremecraft/internal/inventory"
	"github.com/roach88/extremecraft/internal/registry"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	Grid         string
	Transformers string
}

// MatchResult describes the outcome of a grid lookup.
type MatchResult struct {
	Match     bool           `json:"match"`
	Recipe    string         `json:"recipe,omitempty"`
	Output    string         `json:"output,omitempty"`
	Remaining map[int]string `json:"remaining,omitempty"`
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match <pack-dir>",
		Short: "Find the recipe matching a crafting grid",
		Long: `Load a datapack, read a grid from YAML and print the matching recipe,
its output and the items left in the grid.

Grid file format:
  width: 9
  height: 9
  slots:
    0: minecraft:iron_ingot
    40: minecraft:nether_star*2

Transformer file format (recipe id → slot → transformer):
  "extremecraft:tools/neutron_hammer":
    2: keep

Exit codes:
  0 - A recipe matched
  1 - No recipe matched
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Grid, "grid", "", "grid YAML file (required)")
	_ = cmd.MarkFlagRequired("grid")
	cmd.Flags().StringVar(&opts.Transformers, "transformers", "", "YAML transformer table applied before matching")

	return cmd
}

func runMatch(opts *MatchOptions, packDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	spec, err := inventory.LoadGridSpec(opts.Grid)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load grid", err)
	}
	grid, err := spec.Build()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid grid", err)
	}

	result, err := requirePack(cmd.Context(), packDir, formatter)
	if err != nil {
		return err
	}

	if opts.Transformers != "" {
		table, err := loadTransformers(opts.Transformers)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load transformers", err)
		}
		if err := harness.AttachTransformers(result.Recipes, table); err != nil {
			return WrapExitError(ExitCommandError, "invalid transformers", err)
		}
	}

	m := registry.New()
	reloadID, err := m.Replace(result.Recipes)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to install recipes", err)
	}

	res, ok := m.Craft(grid)
	out := describeCraft(res, ok)

	if formatter.Format == "json" {
		status := "ok"
		var cliErr *CLIError
		if !ok {
			status = "error"
			cliErr = &CLIError{Code: ErrCodeNoMatch, Message: "no recipe matches the grid"}
		}
		if err := formatter.encode(CLIResponse{Status: status, Data: out, Error: cliErr, ReloadID: reloadID.String()}); err != nil {
			return err
		}
	} else {
		writeCraft(formatter, out)
	}

	if !ok {
		return NewExitError(ExitFailure, "no recipe matches the grid")
	}
	return nil
}

// ErrCodeNoMatch reports a grid that no recipe matches.
const ErrCodeNoMatch = "E401"

func describeCraft(res registry.CraftResult, ok bool) MatchResult {
	if !ok {
		return MatchResult{}
	}
	out := MatchResult{
		Match:  true,
		Recipe: res.Recipe.ID().String(),
		Output: res.Output.String(),
	}
	for slot, s := range res.Remaining {
		if s.IsEmpty() {
			continue
		}
		if out.Remaining == nil {
			out.Remaining = make(map[int]string)
		}
		out.Remaining[slot] = s.String()
	}
	return out
}

func writeCraft(formatter *OutputFormatter, out MatchResult) {
	w := formatter.Writer
	if !out.Match {
		fmt.Fprintln(w, "✗ No recipe matches")
		return
	}
	fmt.Fprintf(w, "✓ %s -> %s\n", out.Recipe, out.Output)

	slots := make([]int, 0, len(out.Remaining))
	for slot := range out.Remaining {
		slots = append(slots, slot)
	}
	slices.Sort(slots)
	for _, slot := range slots {
		fmt.Fprintf(w, "  slot %d: %s\n", slot, out.Remaining[slot])
	}
}

// loadTransformers reads a recipe id → slot → transformer name table.
func loadTransformers(path string) (map[string]map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table map[string]map[int]string
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&table); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return table, nil
}
