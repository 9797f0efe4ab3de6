package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/dogeorg/winwifi/pkg/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Get winwifi version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		out := cmd.OutOrStdout()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			b, err := json.Marshal(info)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}

		fmt.Fprintf(out, "Release: %s\n", info.Release)
		fmt.Fprintf(out, "Go: %s\n", info.Go)
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Backend: %s\n", info.Backend)
		fmt.Fprintf(out, "Git: %s\n", info.Git.Commit)
		fmt.Fprintf(out, "Dirty: %t\n", info.Git.Dirty)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
