package main

import (
	"fmt"
	"os"

	monitoringplugin "github.com/dsh2dsh/go-monitoringplugin/v2"
	"github.com/spf13/cobra"

	"github.com/lsyncd-go/rsyncwatch/internal/control"
	"github.com/lsyncd-go/rsyncwatch/internal/envconst"
	"github.com/lsyncd-go/rsyncwatch/internal/healthcheck"
)

var (
	checkSockPath string
	checkDest     string
	checkWarn     int
	checkCrit     int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Nagios/Icinga-style health check plugin",
	Long:  `Query a running daemon's control socket and exit with a Nagios-style status code.`,
	RunE:  runCheck,
}

func init() {
	defaultSockPath := envconst.String("RSYNCWATCH_SOCKPATH", "/var/run/rsyncwatch/control.sock")
	checkCmd.Flags().StringVar(&checkSockPath, "sockpath", defaultSockPath, "Path to the control socket")
	checkCmd.Flags().StringVar(&checkDest, "dest", "", "Restrict the check to one destination's shortname")
	checkCmd.Flags().IntVar(&checkWarn, "warn", 2, "Fail-count threshold for WARNING")
	checkCmd.Flags().IntVar(&checkCrit, "crit", 4, "Fail-count threshold for CRITICAL")
}

func runCheck(cmd *cobra.Command, args []string) error {
	client := control.NewClient(checkSockPath)
	reports, err := client.Status()
	if err != nil {
		fmt.Fprintf(os.Stdout, "UNKNOWN: %v\n", err)
		os.Exit(int(monitoringplugin.UNKNOWN))
	}

	resp := healthcheck.Run(reports, healthcheck.Options{
		Dest: checkDest,
		Warn: checkWarn,
		Crit: checkCrit,
	})
	resp.OutputAndExit()
	return nil
}
