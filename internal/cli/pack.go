package cli

import (
	"context"
	"fmt"

	"github.com/roach88/extremecraft/internal/loader"
)

// loadPack loads a datapack and converts load errors into issues. A nil
// result means the pack could not be read at all.
func loadPack(ctx context.Context, dir string, mode loader.Mode, f *OutputFormatter) (*loader.Result, []Issue) {
	result, errs := loader.Load(ctx, dir, loader.Options{Mode: mode})

	issues := make([]Issue, 0, len(errs))
	for _, err := range errs {
		issues = append(issues, issueFromError(err))
	}
	if result != nil {
		f.VerboseLog("Loaded %d recipe(s) from %d file(s) in %s", len(result.Recipes), result.FileCount, dir)
		for _, s := range result.Skipped {
			f.VerboseLog("Skipped %s: unregistered type %s", s.ID, s.Type)
		}
	}
	return result, issues
}

// requirePack loads a pack that must be free of errors.
func requirePack(ctx context.Context, dir string, f *OutputFormatter) (*loader.Result, error) {
	result, issues := loadPack(ctx, dir, loader.FailFast, f)
	if len(issues) > 0 {
		first := issues[0]
		_ = f.Error(first.Code, first.String(), nil)
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("failed to load pack %s: %s", dir, first))
	}
	return result, nil
}
