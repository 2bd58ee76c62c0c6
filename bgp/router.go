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
	"fmt"
	"sync"

	"github.com/netrelay/asrouter/log"
)

// Router ties the six components together: a neighbor table, a RIB, the
// Selector and Distributor built on top of it, and the single event-loop
// task that owns all of it (spec.md §5 — the RIB itself is never locked;
// the mutex below only guards the externally-readable Status snapshot).
type Router struct {
	asn       int
	neighbors *NeighborTable
	rib       *RIB
	selector  *Selector
	policy    *Distributor
	logs      log.Logger

	mutex  sync.Mutex
	status Status
}

// Status is a point-in-time snapshot of router activity, read by an
// operator via a future inspection surface; it is never consulted by the
// dispatch logic itself.
type Status struct {
	Updates  int
	Revokes  int
	Dumps    int
	NoRoutes int
}

// NewRouter builds a router for asn over an already-dialed neighbor table.
func NewRouter(asn int, neighbors *NeighborTable, logs log.Logger) *Router {
	if logs == nil {
		logs = log.Nil{}
	}

	rib := NewRIB()

	r := &Router{
		asn:       asn,
		neighbors: neighbors,
		rib:       rib,
		selector:  NewSelector(rib, neighbors),
		policy:    NewDistributor(neighbors, asn),
		logs:      logs,
	}

	neighbors.Each(func(n *Neighbor) {
		logs.Neighbor(n.Address, n.Relation.String(), "configured")
	})

	return r
}

// Status returns a copy of the router's current counters.
func (r *Router) Status() Status {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.status
}

func (r *Router) bump(fn func(*Status)) {
	r.mutex.Lock()
	fn(&r.status)
	r.mutex.Unlock()
}

type inbound struct {
	neighbor string
	frame    []byte
	err      error
}

// Run is the Dispatcher: a single-threaded cooperative loop multiplexing
// every neighbor connection. Per-connection reader goroutines do the
// blocking I/O and fan frames into one channel — the Go analogue of
// spec.md §4.6's "wait up to 100ms for readability on any connection";
// a blocking multi-way receive needs no polling interval to notice a ready
// or closed connection. Only this goroutine ever touches the RIB, the
// logs, or the Selector/Distributor; Status is the sole field read
// concurrently, and it's guarded by r.mutex.
//
// Run returns when any neighbor read fails or returns empty (spec.md §5,
// "Cancellation"), or when a message is malformed or carries an unknown
// type (spec.md §7 — both fatal).
func (r *Router) Run() error {
	in := make(chan inbound)

	var wg sync.WaitGroup
	r.neighbors.Each(func(n *Neighbor) {
		wg.Add(1)
		go func(n *Neighbor) {
			defer wg.Done()
			readLoop(n.Address, n.Conn, in)
		}(n)
	})

	go func() {
		wg.Wait()
		close(in)
	}()

	for item := range in {
		if item.err != nil {
			r.logs.Fatal(item.err)
			return item.err
		}

		if err := r.dispatch(item.neighbor, item.frame); err != nil {
			r.logs.Fatal(err)
			return err
		}
	}

	return nil
}

func readLoop(addr string, conn Conn, out chan<- inbound) {
	for {
		frame, err := conn.Recv()
		if err != nil {
			out <- inbound{neighbor: addr, err: fmt.Errorf("%w: %s: %v", ErrTransport, addr, err)}
			return
		}
		if len(frame) == 0 {
			out <- inbound{neighbor: addr, err: fmt.Errorf("%w: %s: empty read", ErrTransport, addr)}
			return
		}
		out <- inbound{neighbor: addr, frame: frame}
	}
}

// dispatch decodes one frame received from neighbor and routes it to a
// handler, per spec.md §4.6.
func (r *Router) dispatch(neighbor string, frame []byte) error {
	env, err := decodeEnvelope(frame)
	if err != nil {
		return err
	}
	if !env.Type.valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	r.logs.Dispatch(neighbor, string(env.Type))

	switch env.Type {
	case TypeData:
		return r.handleData(neighbor, env, frame)
	case TypeUpdate:
		return r.handleUpdate(neighbor, env)
	case TypeRevoke:
		return r.handleRevoke(neighbor, env)
	case TypeDump:
		return r.handleDump(neighbor)
	default:
		// TypeTable and TypeNoRoute are only ever emitted by this router,
		// never legally received from a neighbor.
		return fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func (r *Router) handleData(neighbor string, env Envelope, frame []byte) error {
	conn, err := r.selector.Select(neighbor, env.Dst)
	if err != nil {
		r.logs.NoRoute(neighbor, env.Dst)
		r.bump(func(s *Status) { s.NoRoutes++ })
		noRoute := newEnvelope(routerSide(neighbor), neighbor, TypeNoRoute, struct{}{})
		return r.neighbors.Send(neighbor, encodeEnvelope(noRoute))
	}

	return conn.Send(frame)
}

func (r *Router) handleUpdate(neighbor string, env Envelope) error {
	route, err := env.decodeUpdate()
	if err != nil {
		return err
	}

	if err := r.rib.Insert(neighbor, route); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	r.bump(func(s *Status) { s.Updates++ })

	forwards := r.policy.DistributeUpdate(neighbor, route)
	r.logs.Update(neighbor, len(forwards), 0)
	for _, out := range forwards {
		if err := r.neighbors.Send(out.Dst, encodeEnvelope(out)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) handleRevoke(neighbor string, env Envelope) error {
	prefixes, err := env.decodeRevoke()
	if err != nil {
		return err
	}

	r.rib.Withdraw(neighbor, prefixes)
	r.bump(func(s *Status) { s.Revokes++ })

	forwards := r.policy.DistributeRevoke(neighbor, prefixes)
	r.logs.Update(neighbor, 0, len(forwards))
	for _, out := range forwards {
		if err := r.neighbors.Send(out.Dst, encodeEnvelope(out)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) handleDump(neighbor string) error {
	table := Aggregate(r.rib)
	r.bump(func(s *Status) { s.Dumps++ })

	out := newEnvelope(routerSide(neighbor), neighbor, TypeTable, table)
	return r.neighbors.Send(neighbor, encodeEnvelope(out))
}
