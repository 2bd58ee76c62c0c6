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
	"encoding/json"
	"fmt"
)

// Envelope is the wire format for every message exchanged with a neighbor:
// a textual structured object carrying src/dst/type and a per-type payload.
type Envelope struct {
	Src  string          `json:"src"`
	Dst  string          `json:"dst"`
	Type MsgType         `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

// TableEntry is one row of a `table` dump response.
type TableEntry struct {
	Network string `json:"network"`
	Netmask string `json:"netmask"`
	Peer    string `json:"peer"`
}

// Prefix identifies a route for withdrawal purposes: network/netmask only.
type Prefix struct {
	Network string `json:"network"`
	Netmask string `json:"netmask"`
}

func decodeEnvelope(frame []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(frame, &e); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if e.Src == "" || e.Dst == "" {
		return Envelope{}, fmt.Errorf("%w: missing src/dst", ErrMalformed)
	}
	return e, nil
}

func encodeEnvelope(e Envelope) []byte {
	b, err := json.Marshal(e)
	if err != nil {
		// Msg is always produced internally from json.Marshal-able values;
		// a failure here means a programming error, not a runtime condition.
		panic(fmt.Sprintf("bgp: encoding outgoing message: %v", err))
	}
	return b
}

func rawMsg(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("bgp: encoding payload: %v", err))
	}
	return b
}

func newEnvelope(src, dst string, t MsgType, payload any) Envelope {
	return Envelope{Src: src, Dst: dst, Type: t, Msg: rawMsg(payload)}
}

func (e Envelope) decodeUpdate() (Route, error) {
	var r Route
	if err := json.Unmarshal(e.Msg, &r); err != nil {
		return Route{}, fmt.Errorf("%w: update: %v", ErrMalformed, err)
	}
	if !r.Origin.valid() {
		return Route{}, fmt.Errorf("%w: unknown origin %q", ErrMalformed, r.Origin)
	}
	if _, _, _, err := r.networkBits(); err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return r, nil
}

func (e Envelope) decodeRevoke() ([]Prefix, error) {
	var p []Prefix
	if err := json.Unmarshal(e.Msg, &p); err != nil {
		return nil, fmt.Errorf("%w: revoke: %v", ErrMalformed, err)
	}
	return p, nil
}
