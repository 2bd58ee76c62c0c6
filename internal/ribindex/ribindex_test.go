package ribindex

import (
	"net/netip"
	"testing"
)

func TestCandidatesCoversNestedPrefixes(t *testing.T) {
	idx := New()

	wide := netip.MustParsePrefix("10.0.0.0/8")
	narrow := netip.MustParsePrefix("10.0.0.0/24")

	idx.Insert(wide, Entry{Neighbor: "172.16.0.2", Network: "10.0.0.0", Netmask: "255.0.0.0"})
	idx.Insert(narrow, Entry{Neighbor: "172.16.0.2", Network: "10.0.0.0", Netmask: "255.255.255.0"})

	got := idx.Candidates(netip.MustParseAddr("10.0.0.5"))
	if len(got) != 2 {
		t.Fatalf("Candidates: want 2 covering entries, got %d: %+v", len(got), got)
	}

	outside := idx.Candidates(netip.MustParseAddr("192.168.1.1"))
	if len(outside) != 0 {
		t.Fatalf("Candidates: want 0 entries for an address outside both prefixes, got %d", len(outside))
	}
}

func TestWithdrawRemovesOnlyMatchingNeighbor(t *testing.T) {
	idx := New()
	pfx := netip.MustParsePrefix("10.0.0.0/24")

	idx.Insert(pfx, Entry{Neighbor: "A", Network: "10.0.0.0", Netmask: "255.255.255.0"})
	idx.Insert(pfx, Entry{Neighbor: "B", Network: "10.0.0.0", Netmask: "255.255.255.0"})

	idx.Withdraw(pfx, "A")

	got := idx.Candidates(netip.MustParseAddr("10.0.0.1"))
	if len(got) != 1 || got[0].Neighbor != "B" {
		t.Fatalf("Withdraw: want only B's entry left, got %+v", got)
	}
}

func TestWithdrawLastEntryDeletesNode(t *testing.T) {
	idx := New()
	pfx := netip.MustParsePrefix("10.0.0.0/24")

	idx.Insert(pfx, Entry{Neighbor: "A", Network: "10.0.0.0", Netmask: "255.255.255.0"})
	idx.Withdraw(pfx, "A")

	got := idx.Candidates(netip.MustParseAddr("10.0.0.1"))
	if len(got) != 0 {
		t.Fatalf("Withdraw: want no entries once the only neighbor is withdrawn, got %+v", got)
	}
}
