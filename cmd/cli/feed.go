package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gotcha-app/backend/internal/apiclient"
	"github.com/gotcha-app/backend/internal/feedcache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var feedPages int

var feedCmd = &cobra.Command{
	Use:   "feed [default|recent|liked]",
	Short: "Browse a feed",
	Long: `Browse a feed page by page. --pages controls how many pages to pull;
pulling stops early when the server runs out of posts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := "default"
		if len(args) == 1 {
			kind = args[0]
		}
		return browseFeed(feedcache.Kind(kind), feedPages)
	},
}

func init() {
	feedCmd.Flags().IntVar(&feedPages, "pages", 1, "Number of pages to fetch")
	rootCmd.AddCommand(feedCmd)
}

func browseFeed(kind feedcache.Kind, pages int) error {
	pageSize := viper.GetInt("page-size")
	cache := feedcache.New(pageSize)
	ctx := context.Background()

	for i := 0; i < pages && cache.HasMore(kind); i++ {
		page, err := api.Feed(ctx, string(kind), pageSize, cache.NextOffset(kind))
		if err != nil {
			return err
		}
		cache.AppendPage(kind, toCachePosts(page.Annoyances), page.HasMore)
	}

	posts := cache.Posts(kind)
	if jsonOutput() {
		return printJSON(posts)
	}

	if len(posts) == 0 {
		fmt.Println("Nothing here yet.")
		return nil
	}

	printPosts(posts)
	if cache.HasMore(kind) {
		fmt.Printf("\n(more available: rerun with --pages %d)\n", pages+1)
	}
	return nil
}

func toCachePosts(annoyances []apiclient.Annoyance) []feedcache.Post {
	posts := make([]feedcache.Post, 0, len(annoyances))
	for _, a := range annoyances {
		posts = append(posts, feedcache.Post{
			ID:             a.ID,
			Title:          a.Title,
			Description:    a.Description,
			AuthorUsername: a.User.Username,
			ImageURL:       a.ImageURL,
			LikeCount:      a.LikeCount,
			CommentCount:   a.CommentCount,
			IsLiked:        a.IsLiked,
			CreatedAt:      a.CreatedAt,
		})
	}
	return posts
}

func printPosts(posts []feedcache.Post) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tLIKES\tCOMMENTS\tLIKED")
	for _, post := range posts {
		likedMark := ""
		if post.IsLiked {
			likedMark = "♥"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%s\n",
			post.ID,
			truncate(post.Title, 48),
			post.AuthorUsername,
			post.LikeCount,
			post.CommentCount,
			likedMark)
	}
	w.Flush()
}
