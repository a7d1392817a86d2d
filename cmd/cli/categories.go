package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := api.Categories(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput() {
			return printJSON(categories)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tNAME")
		for _, category := range categories {
			name := category.Name
			if category.Emoji != "" {
				name = category.Emoji + " " + name
			}
			fmt.Fprintf(w, "%d\t%s\t%s\n", category.ID, category.Slug, name)
		}
		w.Flush()
		return nil
	},
}

var categoryFeedCmd = &cobra.Command{
	Use:   "category <slug>",
	Short: "Browse a category's annoyances",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := api.CategoryFeed(context.Background(), args[0], viper.GetInt("page-size"), 0)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(page)
		}
		printPosts(toCachePosts(page.Annoyances))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(categoryFeedCmd)
}
