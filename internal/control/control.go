// Package control implements the Unix-domain status socket: a
// newline-delimited JSON request/response protocol with a single verb,
// "status", that returns every destination's latest status.Report.
package control

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/lsyncd-go/rsyncwatch/internal/logging"
	"github.com/lsyncd-go/rsyncwatch/internal/status"
)

// Request is the sole message shape clients send.
type Request struct {
	Verb string `json:"verb"`
}

// Response carries either a status list or an error string.
type Response struct {
	Destinations []status.Report `json:"destinations,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// StatusFunc returns the current status of every destination, in the
// order the supervisor constructed them.
type StatusFunc func() []status.Report

// Server accepts connections on a Unix-domain socket and answers "status"
// requests from statusFn.
type Server struct {
	sockPath string
	statusFn StatusFunc
	ln       net.Listener
}

// NewServer removes any stale socket file at sockPath and listens on it.
func NewServer(sockPath string, statusFn StatusFunc) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(sockPath), 0o755); err != nil {
		return nil, fmt.Errorf("control: create socket dir: %w", err)
	}
	if err := os.Remove(sockPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("control: remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("control: listen on %s: %w", sockPath, err)
	}
	return &Server{sockPath: sockPath, statusFn: statusFn, ln: ln}, nil
}

// Run accepts connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log := logging.GetLogger(ctx)
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("control: accept: %w", err)
		}
		go s.handle(conn, log)
	}
}

func (s *Server) handle(conn net.Conn, log *slog.Logger) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var req Request
		resp := Response{}
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			resp.Error = err.Error()
		} else if req.Verb != "status" {
			resp.Error = fmt.Sprintf("unknown verb %q", req.Verb)
		} else {
			resp.Destinations = s.statusFn()
		}
		enc := json.NewEncoder(conn)
		if err := enc.Encode(resp); err != nil {
			logging.WithError(log, err, "control: write response failed")
			return
		}
	}
}
