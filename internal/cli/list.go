package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/extremecraft/internal/recipe"
)

// RecipeSummary describes one recipe in list output.
type RecipeSummary struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Ingredients int    `json:"ingredients"`
	Tier        int    `json:"tier,omitempty"`
	Output      string `json:"output"`
}

// summarize describes recipes in the order given.
func summarize(recipes []recipe.Recipe) []RecipeSummary {
	out := make([]RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		s := RecipeSummary{
			ID:          r.ID().String(),
			Type:        r.SerializerID().String(),
			Ingredients: len(r.Ingredients()),
			Output:      r.ResultItem().String(),
		}
		if t, ok := r.(interface{ Tier() int }); ok {
			s.Tier = t.Tier()
		}
		out = append(out, s)
	}
	return out
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <pack-dir>",
		Short: "List the recipes in a datapack",
		Long: `List every loaded recipe in id order with its ingredient count,
table tier and output.

Example:
  extremecraft list ./pack
  extremecraft list ./pack --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runList(opts *RootOptions, packDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	result, err := requirePack(cmd.Context(), packDir, formatter)
	if err != nil {
		return err
	}

	summaries := summarize(result.Recipes)
	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}
	writeSummaries(formatter, summaries)
	return nil
}

// writeSummaries prints one recipe per line.
func writeSummaries(formatter *OutputFormatter, summaries []RecipeSummary) {
	w := formatter.Writer
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No recipes.")
		return
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%s  ingredients=%d tier=%d -> %s\n", s.ID, s.Ingredients, s.Tier, s.Output)
	}
	fmt.Fprintf(w, "%d recipe(s)\n", len(summaries))
}
