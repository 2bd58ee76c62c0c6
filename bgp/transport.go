/*
 * VC5 load balancer. Copyright (C) 2021-present David Coles
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package bgp

import (
	"errors"
	"sync"
)

// Conn is the neighbor-facing transport handle the Dispatcher reads and
// writes: an ordered, message-preserving duplex connection where each Recv
// returns exactly one frame written by a single corresponding Send on the
// peer end. The Router depends only on the interface below. This package
// provides two implementations: the in-memory localConn used in tests, and
// the length-prefixed Unix-socket netConn (transport_unix.go) used by
// cmd/asrouter. Neither retries a failed send or receive.
type Conn interface {
	Send(frame []byte) error
	Recv() ([]byte, error)
	Close()
}

// ErrConnClosed is returned by Send once this end has been closed, and by
// Recv once the peer end has been closed.
var ErrConnClosed = errors.New("connection closed")

// localConn is one end of an in-memory, message-preserving duplex pipe:
// the harness stand-in for the real local socket transport.
type localConn struct {
	out chan []byte
	in  chan []byte

	mu     sync.Mutex
	closed bool
}

// NewLocalConnPair returns two connected ends of an in-memory transport.
func NewLocalConnPair() (Conn, Conn) {
	a := make(chan []byte, 64)
	b := make(chan []byte, 64)
	return &localConn{out: a, in: b}, &localConn{out: b, in: a}
}

func (c *localConn) Send(frame []byte) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return ErrConnClosed
	}

	cp := make([]byte, len(frame))
	copy(cp, frame)
	c.out <- cp
	return nil
}

func (c *localConn) Recv() ([]byte, error) {
	frame, ok := <-c.in
	if !ok {
		return nil, ErrConnClosed
	}
	return frame, nil
}

func (c *localConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.out)
}
