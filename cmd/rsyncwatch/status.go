package main

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/lsyncd-go/rsyncwatch/internal/control"
	"github.com/lsyncd-go/rsyncwatch/internal/envconst"
	"github.com/lsyncd-go/rsyncwatch/internal/tui"
)

var (
	statusSockPath string
	statusFollow   bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Browse destination status interactively",
	Long:  `Connect to a running daemon's control socket and browse destination status.`,
	RunE:  runStatus,
}

func init() {
	defaultSockPath := envconst.String("RSYNCWATCH_SOCKPATH", "/var/run/rsyncwatch/control.sock")
	statusCmd.Flags().StringVar(&statusSockPath, "sockpath", defaultSockPath, "Path to the control socket")
	statusCmd.Flags().BoolVar(&statusFollow, "follow", false, "Keep polling for updates")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := control.NewClient(statusSockPath)
	model := tui.NewModel(client.Status, statusFollow)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
