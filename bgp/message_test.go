package bgp

import (
	"reflect"
	"testing"
)

func TestDecodeEnvelopeRejectsMissingFields(t *testing.T) {
	if _, err := decodeEnvelope([]byte(`{"type":"dump","msg":{}}`)); err == nil {
		t.Fatalf("decodeEnvelope: expected an error for a missing src/dst")
	}
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	if _, err := decodeEnvelope([]byte(`not json`)); err == nil {
		t.Fatalf("decodeEnvelope: expected an error for malformed JSON")
	}
}

func TestEnvelopeRoundTripUpdate(t *testing.T) {
	route := mustRoute("10.0.0.0", "255.0.0.0", 100, true, []int{1, 2}, EGP)
	env := newEnvelope("172.16.0.1", "172.16.0.2", TypeUpdate, route)

	frame := encodeEnvelope(env)
	decoded, err := decodeEnvelope(frame)
	if err != nil {
		t.Fatalf("decodeEnvelope: %v", err)
	}

	got, err := decoded.decodeUpdate()
	if err != nil {
		t.Fatalf("decodeUpdate: %v", err)
	}
	if !reflect.DeepEqual(got, route) {
		t.Fatalf("round trip mismatch: want %+v, got %+v", route, got)
	}
}

func TestDecodeUpdateRejectsUnknownOrigin(t *testing.T) {
	env := Envelope{
		Src: "172.16.0.1", Dst: "172.16.0.2", Type: TypeUpdate,
		Msg: rawMsg(map[string]any{
			"network": "10.0.0.0", "netmask": "255.0.0.0",
			"localpref": 100, "selfOrigin": false, "ASPath": []int{}, "origin": "BOGUS",
		}),
	}
	if _, err := env.decodeUpdate(); err == nil {
		t.Fatalf("decodeUpdate: expected an error for an unknown origin")
	}
}

func TestRouterSideAddressRewrite(t *testing.T) {
	cases := map[string]string{
		"192.168.0.2": "192.168.0.1",
		"10.0.0.2":    "10.0.0.1",
		"10.0.0.5":    "10.0.0.5", // no .2 suffix: unchanged
	}
	for in, want := range cases {
		if got := routerSide(in); got != want {
			t.Fatalf("routerSide(%q) = %q, want %q", in, got, want)
		}
	}
}
