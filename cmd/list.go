package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chitchat/emojikit/internal/emoji"
	"github.com/chitchat/emojikit/internal/rows"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List the catalog by category",
	RunE:    runList,
}

func init() {
	listCmd.Flags().Bool("rows", false, "show the packed row layout instead of the flat catalog")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	showRows, _ := cmd.Flags().GetBool("rows")
	out := cmd.OutOrStdout()

	if showRows {
		for i, row := range rt.session.Rows() {
			switch row.Kind {
			case rows.KindCategory:
				fmt.Fprintf(out, "%3d  == %s ==\n", i, rt.translator.Translate(row.Label))
			case rows.KindEmoji:
				fmt.Fprintf(out, "%3d  ", i)
				for _, e := range row.Emojis {
					fmt.Fprintf(out, "%s ", e.Value)
				}
				fmt.Fprintln(out)
			}
		}
		return nil
	}

	for _, cat := range emoji.Categories {
		group := rt.catalog.Fetch([]emoji.Category{cat})
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s (%d)\n", rt.translator.Translate(rows.CategoryLabelKey(cat)), len(group))
		for _, e := range group {
			fmt.Fprintf(out, "  %s  %s\n", e.Value, e.ID)
		}
	}
	return nil
}
