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
	"net/netip"
	"sort"
)

// Selector is a pure function of the RIB and neighbor table: same inputs,
// same output, every time (spec.md §8 invariant 2). It holds no state of
// its own and never mutates the RIB.
type Selector struct {
	rib       *RIB
	neighbors *NeighborTable
}

func NewSelector(rib *RIB, neighbors *NeighborTable) *Selector {
	return &Selector{rib: rib, neighbors: neighbors}
}

type candidate struct {
	neighbor    string
	route       Route
	ip          uint32 // neighbor address as a 32-bit value, for the IP tie-break
	relation    Relation
	hasRelation bool
}

// Select runs the full pipeline (spec.md §4.3) for a data packet arriving on
// srcif bound for daddr, returning the chosen next-hop's connection.
func (s *Selector) Select(srcif string, daddr string) (Conn, error) {
	addr, err := netip.ParseAddr(daddr)
	if err != nil || !addr.Is4() {
		return nil, ErrNoRoute
	}

	candidates := s.candidateSet(addr)
	if len(candidates) == 0 {
		return nil, ErrNoRoute
	}

	candidates = filterHighestLocalpref(candidates)
	candidates = filterSelfOrigin(candidates)
	candidates = filterShortestASPath(candidates)
	candidates = filterLowestOriginRank(candidates)

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ip < candidates[j].ip })

	srcRelation, _ := relationOf(s.neighbors, srcif)
	candidates = filterRelationship(candidates, srcRelation)
	if len(candidates) == 0 {
		return nil, ErrNoRoute
	}

	best := longestPrefixMatch(candidates, addr)

	n, ok := s.neighbors.Lookup(best.neighbor)
	if !ok {
		return nil, ErrNoRoute
	}
	return n.Conn, nil
}

func relationOf(neighbors *NeighborTable, addr string) (Relation, bool) {
	n, ok := neighbors.Lookup(addr)
	if !ok {
		return 0, false
	}
	return n.Relation, true
}

// candidateSet is stage 1: every (neighbor, route) pair whose network/mask
// covers daddr, drawn from the prefix index rather than a full RIB scan.
func (s *Selector) candidateSet(daddr netip.Addr) []candidate {
	var out []candidate
	for _, e := range s.rib.index.Candidates(daddr) {
		for _, route := range s.rib.routes[e.Neighbor] {
			if route.Network == e.Network && route.Netmask == e.Netmask {
				ip, err := ipToUint32(e.Neighbor)
				if err != nil {
					continue
				}
				relation, hasRelation := relationOf(s.neighbors, e.Neighbor)
				out = append(out, candidate{
					neighbor: e.Neighbor, route: route, ip: ip,
					relation: relation, hasRelation: hasRelation,
				})
			}
		}
	}
	return out
}

// filterHighestLocalpref is stage 2.
func filterHighestLocalpref(in []candidate) []candidate {
	max := in[0].route.Localpref
	for _, c := range in[1:] {
		if c.route.Localpref > max {
			max = c.route.Localpref
		}
	}

	var out []candidate
	for _, c := range in {
		if c.route.Localpref == max {
			out = append(out, c)
		}
	}
	return out
}

// filterSelfOrigin is stage 3: if any candidate self-originated the route,
// keep only those; otherwise keep everything.
func filterSelfOrigin(in []candidate) []candidate {
	var self []candidate
	for _, c := range in {
		if c.route.SelfOrigin {
			self = append(self, c)
		}
	}
	if len(self) > 0 {
		return self
	}
	return in
}

// filterShortestASPath is stage 4.
func filterShortestASPath(in []candidate) []candidate {
	min := len(in[0].route.ASPath)
	for _, c := range in[1:] {
		if l := len(c.route.ASPath); l < min {
			min = l
		}
	}

	var out []candidate
	for _, c := range in {
		if len(c.route.ASPath) == min {
			out = append(out, c)
		}
	}
	return out
}

// filterLowestOriginRank is stage 5: IGP < EGP < UNK.
func filterLowestOriginRank(in []candidate) []candidate {
	min := in[0].route.Origin.rank()
	for _, c := range in[1:] {
		if r := c.route.Origin.rank(); r < min {
			min = r
		}
	}

	var out []candidate
	for _, c := range in {
		if c.route.Origin.rank() == min {
			out = append(out, c)
		}
	}
	return out
}

// filterRelationship is stage 7, applied after the lowest-IP ordering
// established by the caller's sort (stage 6) and before the final
// longest-prefix-match pick (stage 8) — this ordering is deliberate
// (spec.md §9.2): a single surviving candidate can still be filtered away
// here, yielding no route.
func filterRelationship(in []candidate, src Relation) []candidate {
	if src == Customer {
		return in
	}

	var out []candidate
	for _, c := range in {
		if c.hasRelation && c.relation == Customer {
			out = append(out, c)
		}
	}
	return out
}

// longestPrefixMatch is stage 8: among the survivors, the one whose
// network/netmask shares the longest leading-bit run with daddr, as fixed
// by spec.md §9.1's correctness option — the score is the route's mask
// length when daddr truly falls within it (it always does, having survived
// stage 1), so this reduces to picking the longest mask. Ties are broken by
// the stage-6 ordering, which the caller has already sorted candidates
// into (ascending neighbor IP), so the first tied entry wins.
func longestPrefixMatch(in []candidate, daddr netip.Addr) candidate {
	best := in[0]
	bestLen := prefixLen(best.route)

	for _, c := range in[1:] {
		l := prefixLen(c.route)
		if l > bestLen {
			best, bestLen = c, l
		}
	}
	return best
}

func prefixLen(r Route) int {
	_, _, preflen, err := r.networkBits()
	if err != nil {
		return 0
	}
	return preflen
}
