package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gotcha-app/backend/internal/apiclient"
	"github.com/spf13/cobra"
)

var (
	postCategoryIDs []uint
	postImageURL    string
)

var postCmd = &cobra.Command{
	Use:   "post <title> <description>",
	Short: "Post a new annoyance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}

		annoyance, err := api.CreateAnnoyance(context.Background(), apiclient.CreateAnnoyanceRequest{
			Title:       args[0],
			Description: args[1],
			ImageURL:    postImageURL,
			CategoryIDs: postCategoryIDs,
		})
		if err != nil {
			return err
		}

		if jsonOutput() {
			return printJSON(annoyance)
		}
		fmt.Printf("✓ Posted annoyance #%d: %s\n", annoyance.ID, annoyance.Title)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one annoyance with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		annoyance, err := api.GetAnnoyance(ctx, id)
		if err != nil {
			return err
		}
		comments, err := api.Comments(ctx, id, 20, 0)
		if err != nil {
			return err
		}

		if jsonOutput() {
			return printJSON(map[string]interface{}{
				"annoyance": annoyance,
				"comments":  comments.Comments,
			})
		}

		fmt.Printf("#%d  %s\n", annoyance.ID, annoyance.Title)
		fmt.Printf("by @%s · %d likes · %d comments\n\n", annoyance.User.Username, annoyance.LikeCount, annoyance.CommentCount)
		fmt.Println(annoyance.Description)
		for _, link := range annoyance.ExternalLinks {
			fmt.Printf("  ↗ %s (%s)\n", link.Title, link.URL)
		}
		if len(comments.Comments) > 0 {
			fmt.Println("\nComments:")
			for _, comment := range comments.Comments {
				fmt.Printf("  @%s: %s\n", comment.User.Username, comment.Content)
			}
			if comments.HasMore {
				fmt.Println("  ...")
			}
		}
		return nil
	},
}

var (
	editCategoryIDs []uint
	editImageURL    string
)

var editCmd = &cobra.Command{
	Use:   "edit <id> <title> <description>",
	Short: "Replace the content of one of your annoyances",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		annoyance, err := api.UpdateAnnoyance(context.Background(), id, apiclient.CreateAnnoyanceRequest{
			Title:       args[1],
			Description: args[2],
			ImageURL:    editImageURL,
			CategoryIDs: editCategoryIDs,
		})
		if err != nil {
			return err
		}

		if jsonOutput() {
			return printJSON(annoyance)
		}
		fmt.Printf("✓ Updated annoyance #%d: %s\n", annoyance.ID, annoyance.Title)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your annoyances",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := api.DeleteAnnoyance(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted annoyance #%d\n", id)
		return nil
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <id> <content>",
	Short: "Comment on an annoyance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		comment, err := api.CreateComment(context.Background(), id, args[1])
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(comment)
		}
		fmt.Printf("✓ Commented on #%d\n", id)
		return nil
	},
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func init() {
	postCmd.Flags().UintSliceVar(&postCategoryIDs, "category", nil, "Category IDs to file under (repeatable)")
	postCmd.Flags().StringVar(&postImageURL, "image-url", "", "Previously uploaded image URL")

	editCmd.Flags().UintSliceVar(&editCategoryIDs, "category", nil, "Category IDs to file under (repeatable)")
	editCmd.Flags().StringVar(&editImageURL, "image-url", "", "Previously uploaded image URL")

	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(commentCmd)
}
