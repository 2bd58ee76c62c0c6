package bgp

import "testing"

func TestRIBInsertAndWithdraw(t *testing.T) {
	rib := NewRIB()
	route := mustRoute("10.0.0.0", "255.0.0.0", 100, false, nil, IGP)

	if err := rib.Insert("172.16.0.2", route); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := rib.RoutesOf("172.16.0.2"); len(got) != 1 {
		t.Fatalf("RoutesOf: want 1 route, got %d", len(got))
	}

	rib.Withdraw("172.16.0.2", []Prefix{{Network: "10.0.0.0", Netmask: "255.0.0.0"}})
	if got := rib.RoutesOf("172.16.0.2"); len(got) != 0 {
		t.Fatalf("RoutesOf after withdraw: want 0 routes, got %d", len(got))
	}
	if len(rib.RevocationLog()) != 1 {
		t.Fatalf("RevocationLog: want 1 entry, got %d", len(rib.RevocationLog()))
	}
}

func TestRIBWithdrawLeavesOtherPrefixesAlone(t *testing.T) {
	rib := NewRIB()
	a := mustRoute("10.0.0.0", "255.0.0.0", 100, false, nil, IGP)
	b := mustRoute("192.168.0.0", "255.255.255.0", 100, false, nil, IGP)

	if err := rib.Insert("172.16.0.2", a); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := rib.Insert("172.16.0.2", b); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rib.Withdraw("172.16.0.2", []Prefix{{Network: "10.0.0.0", Netmask: "255.0.0.0"}})

	got := rib.RoutesOf("172.16.0.2")
	if len(got) != 1 || got[0].Network != "192.168.0.0" {
		t.Fatalf("Withdraw removed the wrong route: %+v", got)
	}
}

func TestRIBInsertRejectsBadPrefix(t *testing.T) {
	rib := NewRIB()
	bad := mustRoute("10.0.0.0", "255.255.0.255", 100, false, nil, IGP) // non-contiguous mask
	if err := rib.Insert("172.16.0.2", bad); err == nil {
		t.Fatalf("Insert: expected an error for a non-contiguous netmask")
	}
}

func TestRIBNeighborsOnlyListsNeighborsWithRoutes(t *testing.T) {
	rib := NewRIB()
	if err := rib.Insert("172.16.0.2", mustRoute("10.0.0.0", "255.0.0.0", 100, false, nil, IGP)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	neighbors := rib.Neighbors()
	if len(neighbors) != 1 || neighbors[0] != "172.16.0.2" {
		t.Fatalf("Neighbors: want [172.16.0.2], got %v", neighbors)
	}
}
