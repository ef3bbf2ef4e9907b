package keymap

import (
	"fmt"
	"slices"
)

// Resolver maps key strings to actions.
type Resolver struct {
	bindings map[string]Action   // key -> action
	byAction map[Action][]string // action -> keys, in binding order
}

// NewResolver creates a resolver from bindings. When a key appears in
// more than one binding, the first one wins.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			if _, taken := r.bindings[key]; !taken {
				r.bindings[key] = b.Action
			}
			if !slices.Contains(r.byAction[b.Action], key) {
				r.byAction[b.Action] = append(r.byAction[b.Action], key)
			}
		}
	}
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(key string) Action {
	return r.bindings[key]
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// Apply returns a copy of bindings with the keys of each action named in
// overrides replaced. Overridden keys are removed from every other
// binding so they resolve to the new action.
func Apply(bindings []Binding, overrides map[string][]string) ([]Binding, error) {
	out := slices.Clone(bindings)
	if len(overrides) == 0 {
		return out, nil
	}

	known := make(map[Action]bool, len(out))
	for _, b := range out {
		known[b.Action] = true
	}
	claimed := make(map[string]bool)
	for name, keys := range overrides {
		if !known[Action(name)] {
			return nil, fmt.Errorf("unknown action %q in key bindings", name)
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("no keys for action %q", name)
		}
		for _, k := range keys {
			claimed[k] = true
		}
	}

	for i, b := range out {
		if keys, ok := overrides[string(b.Action)]; ok {
			out[i].Keys = slices.Clone(keys)
			continue
		}
		out[i].Keys = slices.DeleteFunc(slices.Clone(b.Keys), func(k string) bool {
			return claimed[k]
		})
	}
	return out, nil
}
