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

// Package log defines the small logging seam the router is injected with,
// so the core engine never imports a logging library directly.
package log

import "github.com/sirupsen/logrus"

// Logger is the event surface the router logs through.
type Logger interface {
	Neighbor(address, relation, event string)
	Dispatch(neighbor string, msgType string)
	NoRoute(neighbor, dest string)
	Update(neighbor string, advertised, withdrawn int)
	Fatal(err error)
}

// Nil discards everything; the router falls back to it when no logger is
// supplied.
type Nil struct{}

func (Nil) Neighbor(string, string, string)  {}
func (Nil) Dispatch(string, string)          {}
func (Nil) NoRoute(string, string)           {}
func (Nil) Update(string, int, int)          {}
func (Nil) Fatal(error)                      {}

// Logrus is the default Logger, backed by github.com/sirupsen/logrus.
type Logrus struct {
	l *logrus.Logger
}

// New returns a Logrus logger writing structured, leveled output.
func New() *Logrus {
	return &Logrus{l: logrus.New()}
}

func (g *Logrus) Neighbor(address, relation, event string) {
	g.l.WithFields(logrus.Fields{
		"component": "neighbor",
		"address":   address,
		"relation":  relation,
	}).Info(event)
}

func (g *Logrus) Dispatch(neighbor, msgType string) {
	g.l.WithFields(logrus.Fields{
		"component": "dispatch",
		"neighbor":  neighbor,
		"type":      msgType,
	}).Debug("message received")
}

func (g *Logrus) NoRoute(neighbor, dest string) {
	g.l.WithFields(logrus.Fields{
		"component": "selector",
		"neighbor":  neighbor,
		"dest":      dest,
	}).Warn("no route")
}

func (g *Logrus) Update(neighbor string, advertised, withdrawn int) {
	g.l.WithFields(logrus.Fields{
		"component":  "policy",
		"neighbor":   neighbor,
		"advertised": advertised,
		"withdrawn":  withdrawn,
	}).Info("forwarded")
}

func (g *Logrus) Fatal(err error) {
	g.l.WithField("component", "dispatcher").Error(err)
}

// SetLevel raises the logger to debug level (used by -v).
func (g *Logrus) SetLevel(debug bool) {
	if debug {
		g.l.SetLevel(logrus.DebugLevel)
	} else {
		g.l.SetLevel(logrus.InfoLevel)
	}
}
