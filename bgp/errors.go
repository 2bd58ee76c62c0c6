package bgp

import "errors"

var (
	// ErrNoRoute is returned by the Selector when no candidate survives the
	// pipeline. It is the only per-packet error the Dispatcher surfaces back
	// to the source neighbor, as a `no route` message; it never mutates the RIB.
	ErrNoRoute = errors.New("no route")

	// ErrUnknownType is fatal: the protocol is closed over a fixed set of
	// message types, per spec.
	ErrUnknownType = errors.New("unknown message type")

	// ErrMalformed wraps any decode failure; treated as fatal by the Dispatcher.
	ErrMalformed = errors.New("malformed message")

	// ErrTransport wraps a neighbor connection failure (empty read or error);
	// it terminates the event loop.
	ErrTransport = errors.New("transport failure")

	// ErrUnknownNeighbor is returned by NeighborTable.Send when the
	// destination address is not a configured neighbor.
	ErrUnknownNeighbor = errors.New("unknown neighbor")
)
