package gosolve

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

// ============================================================
// Scalars
// ============================================================

// ScalarsEqual reports whether two scalar values are the same value.
// Unlike ==, two NaNs compare equal: both are "undefined".
func ScalarsEqual(a, b float64) bool {
	return (math.IsNaN(a) && math.IsNaN(b)) || a == b
}

// ============================================================
// Variables
// ============================================================

// VarID identifies a variable for the life of the process.
type VarID uint64

var lastVarID atomic.Uint64

func nextVarID() VarID { return VarID(lastVarID.Add(1) - 1) }

// Variable is the record stored in an arena slot.
type Variable struct {
	ID    VarID
	Name  string
	Value float64
}

func (v Variable) Equal(o Variable) bool {
	return v.ID == o.ID && ScalarsEqual(v.Value, o.Value)
}

// An Arena owns variable records. Expression leaves refer to a slot
// and read it at use time, so every holder observes a Set.
//
// An Arena must not be mutated from more than one goroutine.
type Arena struct {
	slots     []Variable
	names     map[string]int
	// defaulted holds slots created by FromJSON without an explicit value.
	defaulted map[int]bool
}

func NewArena() *Arena {
	return &Arena{names: map[string]int{}, defaulted: map[int]bool{}}
}

// NewVar allocates a variable with a fresh identity. The name may be
// empty; named variables can be found again with Lookup.
func (a *Arena) NewVar(name string, value float64) *Var {
	a.slots = append(a.slots, Variable{ID: nextVarID(), Name: name, Value: value})
	slot := len(a.slots) - 1
	if name != "" {
		a.names[name] = slot
	}
	return &Var{arena: a, slot: slot}
}

// Lookup returns the most recently allocated variable with the name.
func (a *Arena) Lookup(name string) (*Var, bool) {
	slot, ok := a.names[name]
	if !ok {
		return nil, false
	}
	return &Var{arena: a, slot: slot}, true
}

func (a *Arena) Len() int { return len(a.slots) }

// Var is a handle to an arena slot and the expression leaf for it.
// Vars are obtained from Arena.NewVar or Arena.Lookup; the zero Var is
// not usable.
type Var struct {
	arena *Arena
	slot  int
}

func (v *Var) record() *Variable {
	if v == nil || v.arena == nil {
		panic("gosolve: Var not allocated by an Arena")
	}
	return &v.arena.slots[v.slot]
}

func (v *Var) Get() Variable     { return *v.record() }
func (v *Var) ID() VarID         { return v.Get().ID }
func (v *Var) Name() string      { return v.Get().Name }
func (v *Var) Value() float64    { return v.Get().Value }
func (v *Var) Arena() *Arena     { return v.arena }
func (v *Var) Kind() Kind        { return VarKind }
func (v *Var) Evaluate() float64 { return v.Value() }

// Set replaces the value held in the slot. The identity is kept.
func (v *Var) Set(value float64) { v.record().Value = value }

func (v *Var) DependsOn(id VarID) bool { return v.ID() == id }

func (v *Var) Equal(other Expr) bool {
	o, ok := other.(*Var)
	return ok && v.Get().Equal(o.Get())
}

func (v *Var) Substitute(id VarID, value Expr) Expr {
	if v.ID() == id {
		return Clone(value)
	}
	return v
}

func (v *Var) String() string {
	rec := v.Get()
	if rec.Name != "" {
		return rec.Name
	}
	return "v" + strconv.FormatUint(uint64(rec.ID), 10)
}

func (v *Var) LaTeX() string { return v.String() }

func (v *Var) GoString() string {
	rec := v.Get()
	return fmt.Sprintf("Var(%s#%d=%g)", rec.Name, rec.ID, rec.Value)
}

func (v *Var) toJSON() map[string]interface{} {
	rec := v.Get()
	return map[string]interface{}{"type": "var", "name": v.String(), "value": JSONValue(rec.Value)}
}
