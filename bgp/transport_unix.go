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
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
)

// netConn frames messages over a net.Conn with a 4-byte big-endian length
// prefix, the JSON-era equivalent of the 19-byte marker-and-length header
// the teacher's connection.go puts in front of each BGP PDU.
type netConn struct {
	conn net.Conn
}

func (c *netConn) Send(frame []byte) error {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(frame)))
	if _, err := c.conn.Write(hdr[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if _, err := c.conn.Write(frame); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

func (c *netConn) Recv() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(c.conn, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	length := binary.BigEndian.Uint32(hdr[:])
	body := make([]byte, length)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return body, nil
}

func (c *netConn) Close() { c.conn.Close() }

// socketPath maps a neighbor's dotted-quad address to the well-known Unix
// domain socket a locally-running collaborator process listens on; this is
// the "message-preserving local connection" spec.md leaves unspecified as
// an external collaborator (see DESIGN.md).
func socketPath(dir, address string) string {
	return filepath.Join(dir, address+".sock")
}

// DialUnixNeighbor connects to the local collaborator socket for address
// under dir. It is the dial func passed to NewNeighborTable by cmd/asrouter.
func DialUnixNeighbor(dir string) func(address string) (Conn, error) {
	return func(address string) (Conn, error) {
		conn, err := net.Dial("unix", socketPath(dir, address))
		if err != nil {
			return nil, err
		}
		return &netConn{conn: conn}, nil
	}
}

// DefaultSocketDir is where DialUnixNeighbor looks for neighbor sockets
// when the caller has no more specific preference.
func DefaultSocketDir() string {
	if dir := os.Getenv("ASROUTER_SOCKET_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}
