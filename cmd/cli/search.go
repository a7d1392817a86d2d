package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var searchOffset int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search annoyances by title or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := api.Search(context.Background(), args[0], viper.GetInt("page-size"), searchOffset)
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
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "Result offset")
	rootCmd.AddCommand(searchCmd)
}
