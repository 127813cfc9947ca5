package hal

import "net"

type nullNetwork struct{}

func (nullNetwork) Listen() (net.Listener, error) {
	return nil, ErrNotImplemented
}
