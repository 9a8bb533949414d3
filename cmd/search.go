package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Rank emojis against a search string",
	Long: `Rank the catalog against a search string using the locale keyword
tables, best match first. The locale falls back to English per emoji id.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	searchText := strings.Join(args, " ")
	ids, err := rt.engine.Filter(searchText, rt.translator.Language(), nil)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	if len(ids) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), rt.translator.Translate("emojipicker.search.empty"))
		return nil
	}

	for _, id := range ids {
		e, ok := rt.session.EmojiByID(id)
		if !ok {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (%s)\n", e.Value, e.Name, e.ID)
	}
	return nil
}
