// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package command

import (
	"sort"
	"strings"
	"sync"

	"github.com/samber/oops"
)

// Registry resolves command names, including unique prefixes, against
// the registered set. "k" finds "kill" as long as no other command
// starts with "k"; an exact name always wins over prefix expansion.
// It is safe for concurrent access.
type Registry struct {
	mu   sync.RWMutex
	root *trieNode
}

type trieNode struct {
	children map[byte]*trieNode
	entry    *Entry // set when a full name ends here
	count    int    // entries at or below this node
	only     *Entry // the single entry below, valid when count == 1
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{root: &trieNode{}}
}

// Register adds a command under its name and all of its aliases.
// Registering a name twice is a programming error.
func (r *Registry) Register(entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{entry.Name}, entry.Aliases...)
	for _, name := range names {
		if err := r.insert(strings.ToLower(name), &entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) insert(name string, entry *Entry) error {
	if name == "" {
		return oops.Code("EMPTY_NAME").Errorf("command name must not be empty")
	}
	node := r.root
	node.count++
	for i := 0; i < len(name); i++ {
		if node.children == nil {
			node.children = make(map[byte]*trieNode)
		}
		next, ok := node.children[name[i]]
		if !ok {
			next = &trieNode{}
			node.children[name[i]] = next
		}
		next.count++
		next.only = entry
		node = next
	}
	if node.entry != nil {
		return oops.Code("DUPLICATE_COMMAND").
			With("command", name).
			Errorf("command %q registered twice", name)
	}
	node.entry = entry
	return nil
}

// Resolve finds the entry for a typed name. An exact match wins; a
// prefix matching exactly one command resolves to it; a prefix shared
// by several commands is ambiguous.
func (r *Registry) Resolve(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(name)
	node := r.root
	for i := 0; i < len(name); i++ {
		next, ok := node.children[name[i]]
		if !ok {
			return nil, ErrUnknownCommand(name)
		}
		node = next
	}
	switch {
	case node.entry != nil:
		return node.entry, nil
	case node.count == 1:
		return node.only, nil
	default:
		return nil, ErrAmbiguousCommand(name)
	}
}

// Names returns every registered canonical name, for help output.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	seen := make(map[*Entry]struct{})
	var walk func(n *trieNode, prefix []byte)
	walk = func(n *trieNode, prefix []byte) {
		if n.entry != nil {
			if _, ok := seen[n.entry]; !ok && n.entry.Name == string(prefix) {
				seen[n.entry] = struct{}{}
				names = append(names, n.entry.Name)
			}
		}
		for c, child := range n.children {
			walk(child, append(prefix, c))
		}
	}
	walk(r.root, nil)
	sort.Strings(names)
	return names
}
