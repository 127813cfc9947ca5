package cmdserver

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// Send issues one command to the lamp at addr and returns the status page
// body. An empty path only fetches the status.
func Send(ctx context.Context, addr, path string) (string, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", fmt.Errorf("cmdserver: dial %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else {
		conn.SetDeadline(time.Now().Add(DefaultReadTimeout))
	}

	req := fmt.Sprintf("GET /%s HTTP/1.1\r\nHost: %s\r\n\r\n", strings.TrimPrefix(path, "/"), addr)
	if _, err := io.WriteString(conn, req); err != nil {
		return "", fmt.Errorf("cmdserver: send: %w", err)
	}
	resp, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("cmdserver: read: %w", err)
	}
	_, body, ok := strings.Cut(string(resp), "\r\n\r\n")
	if !ok {
		return "", fmt.Errorf("cmdserver: malformed response %q", resp)
	}
	return body, nil
}
