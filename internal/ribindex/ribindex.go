// Package ribindex maintains a longest-prefix-match index over the RIB's
// routes so the Selector's "all routes covering daddr" query (spec.md
// §4.3 stage 1) doesn't require a linear scan of every neighbor's route
// list. It is kept in lockstep with the RIB by the caller: every Insert/
// Withdraw on the RIB is mirrored here under the same network/netmask.
package ribindex

import (
	"net/netip"

	"github.com/gaissmai/bart"
)

// Entry identifies a single RIB row for the purposes of candidate lookup:
// enough to re-fetch the full route and know which neighbor it came from.
type Entry struct {
	Neighbor string
	Network  string
	Netmask  string
}

// Index wraps a bart.Table keyed by exact network/netmask prefix. Several
// RIB rows (from different neighbors, or duplicate announcements) can share
// one key, so each trie slot holds a slice.
type Index struct {
	t bart.Table[[]Entry]
}

// New returns a ready-to-use, empty index.
func New() *Index {
	return &Index{}
}

// Insert records that neighbor advertised network/netmask. pfx is the
// network masked to its prefix length, as produced by the caller from the
// route's text network/netmask fields.
func (x *Index) Insert(pfx netip.Prefix, e Entry) {
	existing, _ := x.t.Get(pfx)
	x.t.Insert(pfx, append(existing, e))
}

// Withdraw removes every entry under pfx whose neighbor matches. When no
// entry is left, the prefix is deleted from the trie entirely.
func (x *Index) Withdraw(pfx netip.Prefix, neighbor string) {
	existing, ok := x.t.Get(pfx)
	if !ok {
		return
	}

	kept := existing[:0]
	for _, e := range existing {
		if e.Neighbor != neighbor {
			kept = append(kept, e)
		}
	}

	if len(kept) == 0 {
		x.t.Delete(pfx)
		return
	}

	x.t.Insert(pfx, kept)
}

// Candidates returns every RIB entry whose network/netmask covers addr,
// using the trie's reverse-CIDR-order supernet walk (longest match first).
// Order among equal-length matches, and among entries sharing one prefix,
// is not significant: the Selector's own tie-break cascade is total.
func (x *Index) Candidates(addr netip.Addr) []Entry {
	host := netip.PrefixFrom(addr, addr.BitLen())

	var out []Entry
	for _, entries := range x.t.Supernets(host) {
		out = append(out, entries...)
	}
	return out
}
