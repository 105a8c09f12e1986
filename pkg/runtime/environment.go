package runtime

import (
	"errors"
	"fmt"
)

var ErrSlotAlreadySet = errors.New("binding slot already set")

// UnboundError is returned by Lookup when no frame binds the name.
type UnboundError struct {
	Name string
	// Pending is set when the name was reserved by a recursive binding that
	// has not been filled yet.
	Pending bool
}

func (e *UnboundError) Error() string {
	if e.Pending {
		return fmt.Sprintf("Variable '%s' used before its definition completed", e.Name)
	}
	return fmt.Sprintf("Undefined variable '%s'", e.Name)
}

// Slot holds the value of a single binding. Slots created by Bind are filled
// on construction; slots created by Reserve are filled exactly once by Set.
type Slot struct {
	value Value
	set   bool
}

// Set fills a reserved slot.
func (s *Slot) Set(value Value) error {
	if s.set {
		return ErrSlotAlreadySet
	}
	s.value = value
	s.set = true
	return nil
}

// Environment is a persistent chain of single-binding frames. Extending an
// environment never changes it, so closures can hold on to any frame.
type Environment struct {
	name   string
	slot   *Slot
	parent *Environment
}

// EmptyEnvironment returns the root frame with no bindings.
func EmptyEnvironment() *Environment {
	return &Environment{}
}

// Bind returns a child frame binding name to value.
func (e *Environment) Bind(name string, value Value) *Environment {
	return &Environment{name: name, slot: &Slot{value: value, set: true}, parent: e}
}

// Reserve returns a child frame binding name to an empty slot. The caller must
// fill the slot before anything can observe the binding.
func (e *Environment) Reserve(name string) (*Environment, *Slot) {
	slot := &Slot{}
	return &Environment{name: name, slot: slot, parent: e}, slot
}

// Lookup walks the chain from the innermost frame outward.
func (e *Environment) Lookup(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if env.slot == nil || env.name != name {
			continue
		}
		if !env.slot.set {
			return nil, &UnboundError{Name: name, Pending: true}
		}
		return env.slot.value, nil
	}
	return nil, &UnboundError{Name: name}
}

// Names lists visible bindings innermost first, each name once.
func (e *Environment) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for env := e; env != nil; env = env.parent {
		if env.slot == nil {
			continue
		}
		if _, ok := seen[env.name]; ok {
			continue
		}
		seen[env.name] = struct{}{}
		names = append(names, env.name)
	}
	return names
}
