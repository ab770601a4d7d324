// Command rsyncwatch watches a directory tree and mirrors its changes to
// one or more destinations with rsync.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "rsyncwatch: fatal: %v\n", r)
			os.Exit(3)
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rsyncwatch",
	Short: "Live one-way filesystem replication over rsync",
	Long: `rsyncwatch watches a directory tree via inotify and replicates
changes to one or more rsync destinations as they happen.`,
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
