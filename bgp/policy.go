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

// Distributor decides which neighbors hear a given announcement or
// withdrawal, per spec.md §4.5: customers fan out to everyone else; peers
// and providers fan out only to customers.
type Distributor struct {
	neighbors *NeighborTable
	asn       int
}

func NewDistributor(neighbors *NeighborTable, asn int) *Distributor {
	return &Distributor{neighbors: neighbors, asn: asn}
}

// targets lists every neighbor that should receive traffic sourced at src,
// given src's relationship.
func (d *Distributor) targets(src string) []string {
	srcN, ok := d.neighbors.Lookup(src)
	if !ok {
		return nil
	}

	var out []string
	d.neighbors.Each(func(n *Neighbor) {
		if n.Address == src {
			return
		}
		if srcN.Relation == Customer || n.Relation == Customer {
			out = append(out, n.Address)
		}
	})
	return out
}

// DistributeUpdate forwards route, learned from src, to every eligible
// neighbor, with the router's ASN appended to ASPath and src/dst rewritten
// for each outgoing link.
func (d *Distributor) DistributeUpdate(src string, route Route) []Envelope {
	var out []Envelope

	forwarded := route
	forwarded.ASPath = append(route.asPath(), d.asn)

	for _, dst := range d.targets(src) {
		out = append(out, newEnvelope(routerSide(dst), dst, TypeUpdate, forwarded))
	}
	return out
}

// DistributeRevoke forwards a withdrawal, learned from src, to every
// eligible neighbor. The (network, netmask) list is carried verbatim.
func (d *Distributor) DistributeRevoke(src string, prefixes []Prefix) []Envelope {
	var out []Envelope
	for _, dst := range d.targets(src) {
		out = append(out, newEnvelope(routerSide(dst), dst, TypeRevoke, prefixes))
	}
	return out
}
