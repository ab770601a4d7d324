package control

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/lsyncd-go/rsyncwatch/internal/status"
)

// Client queries a running daemon's control socket. Used by the status
// TUI and the health check plugin; both are short-lived processes that
// dial, ask once (or repeatedly, for --follow), and exit.
type Client struct {
	sockPath string
	timeout  time.Duration
}

// NewClient returns a Client dialing sockPath with a default 5s timeout.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath, timeout: 5 * time.Second}
}

// Status queries the daemon for its current per-destination status.
func (c *Client) Status() ([]status.Report, error) {
	conn, err := net.DialTimeout("unix", c.sockPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("control: dial %s: %w", c.sockPath, err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := json.NewEncoder(conn).Encode(Request{Verb: "status"}); err != nil {
		return nil, fmt.Errorf("control: send request: %w", err)
	}

	var resp Response
	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("control: read response: %w", err)
		}
		return nil, fmt.Errorf("control: no response from daemon")
	}
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("control: decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("control: %s", resp.Error)
	}
	return resp.Destinations, nil
}
