package main

import (
	"context"
	"fmt"

	"github.com/gotcha-app/backend/internal/apiclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your Gotcha profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show [username]",
	Short: "Show your profile, or another user's public profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if len(args) == 1 {
			user, stats, err := api.GetUser(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return printJSON(map[string]interface{}{"user": user, "stats": stats})
			}
			fmt.Printf("@%s", user.Username)
			if user.DisplayName != "" {
				fmt.Printf(" (%s)", user.DisplayName)
			}
			fmt.Printf("\n%d annoyances · %d likes · %d comments received\n",
				stats.TotalPosts, stats.TotalLikes, stats.TotalComments)
			if user.Bio != "" {
				fmt.Printf("\n%s\n", user.Bio)
			}
			return nil
		}

		if err := requireToken(); err != nil {
			return err
		}
		profile, err := api.MyProfile(ctx)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(profile)
		}
		fmt.Printf("@%s (%s)\n", profile.Username, profile.DisplayName)
		fmt.Printf("%d annoyances · notifications %s\n", profile.AnnoyanceCount, onOff(profile.NotificationsEnabled))
		if profile.Bio != "" {
			fmt.Printf("\n%s\n", profile.Bio)
		}
		return nil
	},
}

var profileSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Create or refresh your profile from your identity token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}

		username, _ := cmd.Flags().GetString("username")
		displayName, _ := cmd.Flags().GetString("display-name")

		profile, err := api.SyncProfile(context.Background(), username, displayName)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(profile)
		}
		fmt.Printf("✓ Profile synced: @%s\n", profile.Username)
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireToken(); err != nil {
			return err
		}

		var req apiclient.UpdateProfileRequest
		if cmd.Flags().Changed("username") {
			v, _ := cmd.Flags().GetString("username")
			req.Username = &v
		}
		if cmd.Flags().Changed("display-name") {
			v, _ := cmd.Flags().GetString("display-name")
			req.DisplayName = &v
		}
		if cmd.Flags().Changed("bio") {
			v, _ := cmd.Flags().GetString("bio")
			req.Bio = &v
		}
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			req.NotificationEmail = &v
		}
		if cmd.Flags().Changed("notifications") {
			v, _ := cmd.Flags().GetBool("notifications")
			req.NotificationsEnabled = &v
		}

		profile, err := api.UpdateProfile(context.Background(), req)
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(profile)
		}
		fmt.Printf("✓ Profile updated: @%s\n", profile.Username)
		return nil
	},
}

var profilePostsCmd = &cobra.Command{
	Use:   "posts <username>",
	Short: "List a user's annoyances",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := api.UserAnnoyances(context.Background(), args[0], viper.GetInt("page-size"), 0)
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

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func init() {
	profileSyncCmd.Flags().String("username", "", "Override the username from the identity token")
	profileSyncCmd.Flags().String("display-name", "", "Override the display name from the identity token")

	profileUpdateCmd.Flags().String("username", "", "New username")
	profileUpdateCmd.Flags().String("display-name", "", "New display name")
	profileUpdateCmd.Flags().String("bio", "", "New bio")
	profileUpdateCmd.Flags().String("email", "", "Notification email address")
	profileUpdateCmd.Flags().Bool("notifications", true, "Enable or disable email notifications")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSyncCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profilePostsCmd)
	rootCmd.AddCommand(profileCmd)
}
