package main

import (
	"context"
	"fmt"

	"github.com/gotcha-app/backend/internal/apiclient"
	"github.com/gotcha-app/backend/internal/feedcache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var likeCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Like or unlike an annoyance",
	Long: `Toggle your like on an annoyance. The change is applied to the local
view immediately and rolled back if the server rejects it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return toggleLike(id)
	},
}

func init() {
	rootCmd.AddCommand(likeCmd)
}

func toggleLike(id uint) error {
	ctx := context.Background()
	cache := feedcache.New(viper.GetInt("page-size"))

	annoyance, err := api.GetAnnoyance(ctx, id)
	if err != nil {
		return err
	}
	cache.AppendPage(feedcache.KindDefault, toCachePosts([]apiclient.Annoyance{*annoyance}), false)

	// Optimistic flip, rolled back if the request fails
	snap := cache.Snapshot()
	liked, _ := cache.ToggleLike(id)
	if liked {
		fmt.Printf("♥ Liking #%d...\n", id)
	} else {
		fmt.Printf("♡ Unliking #%d...\n", id)
	}

	result, err := api.ToggleLike(ctx, id)
	if err != nil {
		cache.Restore(snap)
		post, _ := cache.Get(id)
		fmt.Printf("✗ Reverted: #%d stays at %d likes\n", id, post.LikeCount)
		return err
	}

	cache.SetLikeState(id, result.IsLiked, int(result.LikeCount))
	post, _ := cache.Get(id)
	if post.IsLiked {
		fmt.Printf("✓ Liked #%d (%d likes)\n", id, post.LikeCount)
	} else {
		fmt.Printf("✓ Unliked #%d (%d likes)\n", id, post.LikeCount)
	}
	return nil
}
