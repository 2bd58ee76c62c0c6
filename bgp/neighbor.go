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

import "fmt"

// Neighbor is one configured peer: its commercial relationship and the
// transport handle used to reach it.
type Neighbor struct {
	Address  string
	Relation Relation
	Conn     Conn
}

// NeighborTable is populated once at startup from a list of address/relation
// pairs and never mutated afterward.
type NeighborTable struct {
	entries map[string]*Neighbor
	order   []string
}

// NewNeighborTable builds the table and dials (via dial) a connection to
// each address. dial stands in for opening the real external socket
// transport; tests pass a constructor backed by NewLocalConnPair.
func NewNeighborTable(pairs []struct {
	Address  string
	Relation Relation
}, dial func(address string) (Conn, error)) (*NeighborTable, error) {
	t := &NeighborTable{entries: map[string]*Neighbor{}}

	// Every address is checked before any neighbor is dialed.
	for _, p := range pairs {
		if !validIPv4(p.Address) {
			return nil, fmt.Errorf("neighbor %q: not a valid IPv4 address", p.Address)
		}
	}

	for _, p := range pairs {
		if _, dup := t.entries[p.Address]; dup {
			return nil, fmt.Errorf("neighbor %q: duplicate entry", p.Address)
		}

		conn, err := dial(p.Address)
		if err != nil {
			return nil, fmt.Errorf("neighbor %q: %w", p.Address, err)
		}

		t.entries[p.Address] = &Neighbor{Address: p.Address, Relation: p.Relation, Conn: conn}
		t.order = append(t.order, p.Address)
	}

	return t, nil
}

// Lookup returns the neighbor at address, if configured.
func (t *NeighborTable) Lookup(address string) (*Neighbor, bool) {
	n, ok := t.entries[address]
	return n, ok
}

// Each calls fn once per neighbor, in the order neighbors were configured.
func (t *NeighborTable) Each(fn func(*Neighbor)) {
	for _, addr := range t.order {
		fn(t.entries[addr])
	}
}

// Send writes a frame to the named neighbor's connection.
func (t *NeighborTable) Send(address string, frame []byte) error {
	n, ok := t.entries[address]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNeighbor, address)
	}
	return n.Conn.Send(frame)
}

// Addresses returns the configured neighbor addresses in startup order.
func (t *NeighborTable) Addresses() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *NeighborTable) len() int { return len(t.entries) }
