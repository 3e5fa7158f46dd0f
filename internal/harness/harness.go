package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/loader"
	"github.com/roach88/extremecraft/internal/recipe"
	"github.com/roach88/extremecraft/internal/registry"
	"github.com/roach88/extremecraft/internal/testutil"
)

// transformable is implemented by recipes that accept a transformer table.
type transformable interface {
	SetTransformers(map[int]recipe.Transformer)
}

// Harness runs craft steps against one loaded registry.
type Harness struct {
	registry *registry.Manager
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load the scenario's pack; any load error aborts the run
//  2. Attach configured transformers to their recipes
//  3. Install the recipes in a fresh registry with deterministic reload ids
//  4. Craft each grid and compare against its expectation
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	pack, errs := loader.Load(ctx, scenario.Pack, loader.Options{Mode: loader.CollectAll})
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load pack %s: %w", scenario.Pack, errors.Join(errs...))
	}

	if err := AttachTransformers(pack.Recipes, scenario.Transformers); err != nil {
		return nil, err
	}

	m := registry.New(registry.WithReloadIDs(testutil.NewSequentialReloadIDs()))
	reloadID, err := m.Replace(pack.Recipes)
	if err != nil {
		return nil, fmt.Errorf("failed to install recipes: %w", err)
	}

	h := &Harness{
		registry: m,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	result.ReloadID = reloadID.String()
	for i, step := range scenario.Crafts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := h.executeCraft(i, step, result); err != nil {
			return nil, fmt.Errorf("crafts[%d]: %w", i, err)
		}
	}
	return result, nil
}

// AttachTransformers resolves a recipe id → slot → transformer name table
// and sets it on the matching recipes. Every named recipe must exist and
// accept transformers.
func AttachTransformers(recipes []recipe.Recipe, table map[string]map[int]string) error {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, idText := range ids {
		id, err := item.ParseID(idText)
		if err != nil {
			return fmt.Errorf("transformers[%s]: %w", idText, err)
		}
		i := slices.IndexFunc(recipes, func(r recipe.Recipe) bool { return r.ID() == id })
		if i < 0 {
			return fmt.Errorf("transformers[%s]: recipe not found in pack", idText)
		}
		t, ok := recipes[i].(transformable)
		if !ok {
			return fmt.Errorf("transformers[%s]: recipe type %s does not accept transformers", idText, recipes[i].SerializerID())
		}
		fns, err := recipe.ParseTransformers(table[idText])
		if err != nil {
			return fmt.Errorf("transformers[%s]: %w", idText, err)
		}
		t.SetTransformers(fns)
	}
	return nil
}

func (h *Harness) executeCraft(index int, step CraftStep, result *Result) error {
	grid, err := step.Grid.Build()
	if err != nil {
		return err
	}

	trace := CraftTrace{Step: index}
	res, ok := h.registry.Craft(grid)
	if ok {
		trace.Match = true
		trace.Recipe = res.Recipe.ID().String()
		trace.Output = res.Output.String()
		for slot, s := range res.Remaining {
			if s.IsEmpty() {
				continue
			}
			if trace.Remaining == nil {
				trace.Remaining = make(map[int]string)
			}
			trace.Remaining[slot] = s.String()
		}
	}
	result.Trace = append(result.Trace, trace)

	h.logger.Debug("craft executed",
		"step", index,
		"match", trace.Match,
		"recipe", trace.Recipe)

	for _, msg := range compareCraft(index, step.Expect, res, ok) {
		result.AddError(msg)
	}
	return nil
}

// compareCraft returns one message per unmet expectation.
func compareCraft(index int, want CraftExpect, got registry.CraftResult, matched bool) []string {
	var errs []string
	if want.Match != matched {
		if want.Match {
			return []string{fmt.Sprintf("crafts[%d]: expected a match, got none", index)}
		}
		return []string{fmt.Sprintf("crafts[%d]: expected no match, got %s", index, got.Recipe.ID())}
	}
	if !matched {
		return nil
	}

	if want.Recipe != "" {
		id := item.MustParseID(want.Recipe)
		if got.Recipe.ID() != id {
			errs = append(errs, fmt.Sprintf("crafts[%d]: expected recipe %s, got %s", index, id, got.Recipe.ID()))
		}
	}
	if want.Output != "" {
		out := item.MustParseStack(want.Output)
		if !out.Equal(got.Output) {
			errs = append(errs, fmt.Sprintf("crafts[%d]: expected output %s, got %s", index, out, got.Output))
		}
	}
	if want.Remaining != nil {
		for slot, actual := range got.Remaining {
			expected := item.Empty
			if s, ok := want.Remaining[slot]; ok {
				expected = item.MustParseStack(s)
			}
			if !expected.Equal(actual) {
				errs = append(errs, fmt.Sprintf("crafts[%d]: slot %d: expected %s, got %s", index, slot, expected, actual))
			}
		}
		for slot := range want.Remaining {
			if slot < 0 || slot >= len(got.Remaining) {
				errs = append(errs, fmt.Sprintf("crafts[%d]: remaining slot %d out of range", index, slot))
			}
		}
	}
	slices.Sort(errs)
	return errs
}
