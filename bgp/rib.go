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
	"github.com/netrelay/asrouter/internal/ribindex"
)

// RouteEntry pairs a learned Route with the neighbor it was learned from.
type RouteEntry struct {
	Neighbor string
	Route    Route
}

// RIB is the Routing Information Base: a per-neighbor list of learned
// routes, owned exclusively by the Dispatcher's single event-loop task.
// No locking is required (spec.md §5) since nothing else ever touches it.
type RIB struct {
	routes map[string][]Route // neighbor -> routes, insertion order retained
	index  *ribindex.Index

	updateLog     []RouteEntry
	revocationLog []RouteEntry
}

func NewRIB() *RIB {
	return &RIB{
		routes: map[string][]Route{},
		index:  ribindex.New(),
	}
}

// Insert appends route under neighbor. No de-duplication: a duplicate
// announcement appends a second entry, and the Aggregator is what coalesces
// equivalent routes at dump time.
func (r *RIB) Insert(neighbor string, route Route) error {
	pfx, err := route.prefix()
	if err != nil {
		return err
	}

	r.routes[neighbor] = append(r.routes[neighbor], route)
	r.updateLog = append(r.updateLog, RouteEntry{Neighbor: neighbor, Route: route})
	r.index.Insert(pfx, ribindex.Entry{Neighbor: neighbor, Network: route.Network, Netmask: route.Netmask})
	return nil
}

// Withdraw removes every route under neighbor whose (network, netmask) pair
// exactly matches one of prefixes (text comparison on both fields).
func (r *RIB) Withdraw(neighbor string, prefixes []Prefix) {
	if len(prefixes) == 0 {
		return
	}

	match := make(map[Prefix]bool, len(prefixes))
	for _, p := range prefixes {
		match[p] = true
	}

	kept := r.routes[neighbor][:0]
	for _, route := range r.routes[neighbor] {
		key := Prefix{Network: route.Network, Netmask: route.Netmask}
		if match[key] {
			r.revocationLog = append(r.revocationLog, RouteEntry{Neighbor: neighbor, Route: route})
			if pfx, err := route.prefix(); err == nil {
				r.index.Withdraw(pfx, neighbor)
			}
			continue
		}
		kept = append(kept, route)
	}
	r.routes[neighbor] = kept
}

// RoutesOf returns the routes stored under neighbor, in insertion order.
// Neighbors with no routes yield an empty (not nil-panicking) slice.
func (r *RIB) RoutesOf(neighbor string) []Route {
	return r.routes[neighbor]
}

// Iter yields every (neighbor, route) pair in the table.
func (r *RIB) Iter(fn func(neighbor string, route Route)) {
	for neighbor, routes := range r.routes {
		for _, route := range routes {
			fn(neighbor, route)
		}
	}
}

// Neighbors returns the set of neighbor addresses that currently have at
// least one route (used by the Aggregator to iterate per-neighbor).
func (r *RIB) Neighbors() []string {
	out := make([]string, 0, len(r.routes))
	for neighbor, routes := range r.routes {
		if len(routes) > 0 {
			out = append(out, neighbor)
		}
	}
	return out
}

// UpdateLog returns the append-only sequence of every announcement applied
// so far, retained for revocation interpretation and possible future replay.
func (r *RIB) UpdateLog() []RouteEntry { return r.updateLog }

// RevocationLog returns the append-only sequence of every applied revocation.
func (r *RIB) RevocationLog() []RouteEntry { return r.revocationLog }
