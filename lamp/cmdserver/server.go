// Package cmdserver is the lamp's network command channel.
//
// A client sends an HTTP-like request whose first line names a command,
// for example "GET /State?R=0.75" or "GET /Night", and gets back an HTML
// page showing the lamp state. Only the first line of a request is looked
// at; the rest is read up to the blank line and discarded.
package cmdserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"touchlamp/lamp"
)

const (
	// MaxRequest bounds how much of a request is read.
	MaxRequest = 1024
	// MaxLine is the longest line kept; the rest of a line is dropped.
	MaxLine = 64

	// InvalidCommandMessage is shown on the status page for a rejected
	// command.
	InvalidCommandMessage = "Invalid command."

	DefaultReadTimeout = 5 * time.Second
)

type Config struct {
	// Title heads the status page.
	Title string
	// ReadTimeout bounds each request. Zero selects DefaultReadTimeout.
	ReadTimeout time.Duration
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type Server struct {
	state   *lamp.State
	title   string
	timeout time.Duration
	log     *slog.Logger
}

func New(state *lamp.State, cfg Config) *Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{state: state, title: cfg.Title, timeout: cfg.ReadTimeout, log: cfg.Logger}
}

// Serve accepts connections until ctx is done or ln fails, answering each
// on its own goroutine. It closes ln and waits for open connections before
// returning. A cancelled ctx is not an error.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Info("command channel listening", "addr", ln.Addr().String())
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("cmdserver: accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.serveConn(conn)
		}()
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	if err := conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		s.log.Warn("set deadline", "remote", remote, "err", err)
	}

	page := s.Handle(conn)
	if _, err := io.WriteString(conn, page); err != nil {
		s.log.Warn("write status page", "remote", remote, "err", err)
	}
}

// Handle reads one request from r, applies its command and returns the
// full response.
func (s *Server) Handle(r io.Reader) string {
	br := bufio.NewReader(io.LimitReader(r, MaxRequest))
	msg := ""
	first := true
	for {
		line, err := br.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if len(line) > MaxLine {
			line = line[:MaxLine]
		}
		if line == "" && err == nil {
			break
		}
		if first && line != "" {
			first = false
			msg = s.interpret(line)
		}
		if err != nil {
			break
		}
	}
	return Response(s.title, s.state.Snapshot(), msg)
}

// interpret runs the command on a request line and returns the status page
// error message, empty on success.
func (s *Server) interpret(line string) string {
	path, ok := RequestPath(line)
	if !ok {
		return ""
	}
	cmd, err := Parse(path)
	if err != nil {
		s.log.Info("rejected command", "command", path, "err", err)
		return InvalidCommandMessage
	}
	cmd.Apply(s.state)
	s.log.Info("command", "command", cmd.String())
	return ""
}

// Response is the status reply: headers, then a page with the title, the
// power state, every channel with two decimals and msg when it is not empty.
func Response(title string, snap lamp.Snapshot, msg string) string {
	on := "Yes"
	if snap.Off {
		on = "No"
	}
	b := snap.Brightness
	var sb strings.Builder
	sb.WriteString("HTTP/1.1 200 OK\r\nContent-type:text/html\r\n\r\n")
	fmt.Fprintf(&sb, "<html><body>%s<br>On: %s<br>Natural brightness: %0.2f<br>Warm brightness: %0.2f"+
		"<br>Red brightness: %0.2f<br>Green brightness: %0.2f<br>Blue brightness: %0.2f",
		title, on, b[lamp.NaturalWhite], b[lamp.WarmWhite], b[lamp.Red], b[lamp.Green], b[lamp.Blue])
	if msg != "" {
		fmt.Fprintf(&sb, "<BR>Command error message: %s", msg)
	}
	sb.WriteString("</body></html>\r\n")
	return sb.String()
}
