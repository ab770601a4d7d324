package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lsyncd-go/rsyncwatch/internal/config"
	"github.com/lsyncd-go/rsyncwatch/internal/configdiff"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate or compare configuration files",
}

var configCheckCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Parse and validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigCheck,
}

var configDiffCmd = &cobra.Command{
	Use:   "diff <a.yml> <b.yml>",
	Short: "Show a structural diff between two configuration files",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigDiff,
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	configCmd.AddCommand(configDiffCmd)
}

func runConfigCheck(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s: OK\n", args[0])
	return nil
}

func runConfigDiff(cmd *cobra.Command, args []string) error {
	a, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	b, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[1], err)
	}

	out, err := configdiff.Diff(a, b)
	if err != nil {
		return err
	}
	if out == "" {
		fmt.Fprintln(os.Stdout, "no differences")
		return nil
	}
	fmt.Fprintln(os.Stdout, out)
	return nil
}
