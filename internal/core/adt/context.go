// Copyright 2026 The Steensgaard Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package adt implements the type-equivalence engine at the heart of
// the points-to solver: a disjoint-set–backed arena of type records,
// each carrying a points-to field (tau) and a function-signature field
// (lambda), unified online as constraints are processed.
package adt

import (
	"io"
	"os"

	"steensgaard.dev/go/internal/core/uf"
)

// ID identifies a type record, either directly or by way of the
// disjoint-set store's representative for it. NoID marks a bottom
// field: "no information yet".
type ID = uf.ID

// NoID is the sentinel for a bottom tau or lambda field.
const NoID ID = -1

// Record is the structural state associated with an equivalence class
// representative. Only the representative's record is authoritative;
// once two classes merge, the loser's record is no longer consulted.
type Record struct {
	// Tau is the points-to field: NoID, or the ECR this value may
	// reference.
	Tau ID

	// Lam is the function-signature field: NoID, or the ECR carrying
	// this value's parameter and return slots.
	Lam ID

	// LamArgs and LamRets are the ordered parameter and return slot
	// ECRs. Both are empty while Lam == NoID.
	LamArgs []ID
	LamRets []ID

	// Pending holds IDs whose join against this record's owner was
	// deferred by cjoin while the record was bottom. It is only
	// meaningful while the record is bottom, and must be empty
	// immediately after the record becomes non-bottom.
	Pending map[ID]bool
}

// IsBottom reports whether r carries no structural information on
// either axis.
func (r *Record) IsBottom() bool {
	return r.Tau == NoID && r.Lam == NoID
}

func newBottomRecord() *Record {
	return &Record{Tau: NoID, Lam: NoID}
}

func (r *Record) addPending(id ID) {
	if r.Pending == nil {
		r.Pending = make(map[ID]bool)
	}
	r.Pending[id] = true
}

// Context owns every piece of mutable solver state: the disjoint-set
// store, the type arena, and the name table built up during
// registration. There are no package-level globals; a fresh Context is
// created per analysis run.
type Context struct {
	uf      uf.Store
	records []*Record

	// names maps an externally visible variable name to its originally
	// minted ID, as registered by the frontend before dispatch (§ORIGINAL
	// §4.5 "pre-registration"). Synthesised cells created during solving
	// (allocation targets, parameter/return slots, get_tau/get_lam
	// pointees) have no entry here.
	names map[string]ID

	// Verbose gates trace output written to Trace. See log.go.
	Verbose bool
	Trace   io.Writer
}

// NewContext returns an empty Context ready to register variables and
// accept constraints.
func NewContext() *Context {
	return &Context{
		names: make(map[string]ID),
		Trace: os.Stderr,
	}
}

// Fresh mints a new ID, registers it with the disjoint-set store, and
// installs a bottom record for it.
func (c *Context) Fresh() ID {
	id := ID(len(c.records))
	c.uf.Add(id)
	c.records = append(c.records, newBottomRecord())
	return id
}

// FreshFor mints a fresh ID for name if one has not already been
// registered, and records the name→ID association. It returns the ID
// either way, matching the frontend's fresh_for contract (§6).
func (c *Context) FreshFor(name string) ID {
	if id, ok := c.names[name]; ok {
		return id
	}
	id := c.Fresh()
	c.names[name] = id
	return id
}

// Lookup returns the ID registered for name, if any.
func (c *Context) Lookup(name string) (ID, bool) {
	id, ok := c.names[name]
	return id, ok
}

// Find returns the representative of id's class, or an *UnknownIDError
// if id was never minted by Fresh/FreshFor.
func (c *Context) Find(id ID) (ID, error) {
	return c.uf.FindErr(id)
}

// RecordOf returns the authoritative record for id's class.
func (c *Context) RecordOf(id ID) (*Record, error) {
	r, err := c.Find(id)
	if err != nil {
		return nil, err
	}
	return c.records[r], nil
}

// NumIDs reports how many IDs have been minted so far.
func (c *Context) NumIDs() int {
	return len(c.records)
}

// Names returns every registered variable name. Order is unspecified;
// callers that need determinism should sort it.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.names))
	for n := range c.names {
		names = append(names, n)
	}
	return names
}
