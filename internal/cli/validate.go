package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/extremecraft/internal/loader"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool    `json:"valid"`
	Recipes int     `json:"recipes"`
	Skipped int     `json:"skipped"`
	Errors  []Issue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pack-dir>",
		Short: "Validate a recipe datapack",
		Long: `Load every recipe and item tag in a datapack and report all errors.

Recipes whose type has no registered serializer are skipped, not
reported as errors.

Exit codes:
  0 - Pack is valid
  1 - One or more recipes failed to load
  2 - Command error (pack directory not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, packDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	result, issues := loadPack(cmd.Context(), packDir, loader.CollectAll, formatter)

	// The pack could not be read at all
	if result == nil {
		if len(issues) == 0 {
			issues = []Issue{{Code: loader.ErrCodeGeneric, Message: "pack could not be loaded"}}
		}
		_ = formatter.Error(issues[0].Code, issues[0].String(), nil)
		return NewExitError(ExitCommandError, issues[0].String())
	}

	summary := ValidationResult{
		Valid:   len(issues) == 0,
		Recipes: len(result.Recipes),
		Skipped: len(result.Skipped),
		Errors:  issues,
	}
	if len(issues) > 0 {
		return outputValidationErrors(formatter, summary)
	}
	return outputValidateSuccess(formatter, summary)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Pack valid: %d recipe(s), %d skipped\n", result.Recipes, result.Skipped)
	return nil
}

// outputValidationErrors outputs every load error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    result.Errors[0].Code,
				Message: result.Errors[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  %s\n", issue)
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "%d recipe(s) loaded, %d error(s)\n", result.Recipes, len(result.Errors))

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
}
