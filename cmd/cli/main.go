package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gotcha-app/backend/internal/apiclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var api *apiclient.Client

var rootCmd = &cobra.Command{
	Use:   "gotcha",
	Short: "Gotcha CLI - browse and post annoyances from the terminal",
	Long: `Gotcha CLI provides command-line access to a Gotcha server.
Browse feeds, post annoyances, like and comment, and manage your profile.

Configuration comes from flags or GOTCHA_* environment variables:
  GOTCHA_API     server URL (default http://localhost:8787)
  GOTCHA_TOKEN   bearer token for authenticated commands`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		api = apiclient.New(viper.GetString("api"), viper.GetString("token"))
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("api", "http://localhost:8787", "API server URL")
	rootCmd.PersistentFlags().String("token", "", "Bearer token (defaults to GOTCHA_TOKEN)")
	rootCmd.PersistentFlags().String("output", "text", "Output format: text or json")
	rootCmd.PersistentFlags().Int("page-size", 10, "Feed page size")

	viper.SetEnvPrefix("GOTCHA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("api", rootCmd.PersistentFlags().Lookup("api"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("page-size", rootCmd.PersistentFlags().Lookup("page-size"))
}

// requireToken guards commands that need authentication
func requireToken() error {
	if viper.GetString("token") == "" {
		return fmt.Errorf("this command needs authentication: set GOTCHA_TOKEN or pass --token")
	}
	return nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
