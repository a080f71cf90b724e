package code

import (
	"fmt"
	"sort"

	"gopkg.microglot.org/tsproto.go/internal/exc"
)

// Fragment is a realised helper.
type Fragment struct {
	Name string
	Body string
}

// Registry holds the helpers available to one generated module. A helper is
// declared with a body generator and realised the first time it is used.
// Realised helpers are returned in first-use order. A Registry belongs to a
// single generation run and is not safe for concurrent use.
type Registry struct {
	declared map[string]func() string
	realized map[string]string
	order    []string
	active   map[string]bool
	stack    []string
}

func NewRegistry() *Registry {
	return &Registry{
		declared: make(map[string]func() string),
		realized: make(map[string]string),
		active:   make(map[string]bool),
	}
}

// Declare registers a helper. Declaring a name twice is a programming error
// and panics.
func (r *Registry) Declare(name string, body func() string) {
	if _, ok := r.declared[name]; ok {
		panic(exc.Newf(exc.Location{}, exc.CodeHelperRedeclared, "helper %q declared twice", name))
	}
	r.declared[name] = body
}

// Use realises the named helper if needed and returns its name for use in
// generated code. Helpers may use other helpers from their body. A helper
// that uses itself, directly or through others, panics.
func (r *Registry) Use(name string) string {
	if _, ok := r.realized[name]; ok {
		return name
	}
	if r.active[name] {
		panic(exc.Newf(exc.Location{}, exc.CodeHelperCycle, "helper cycle: %v -> %s", r.stack, name))
	}
	body, ok := r.declared[name]
	if !ok {
		panic(exc.Newf(exc.Location{}, exc.CodeHelperUndeclared, "helper %q is not declared", name))
	}
	r.order = append(r.order, name)
	r.active[name] = true
	r.stack = append(r.stack, name)
	r.realized[name] = body()
	r.stack = r.stack[:len(r.stack)-1]
	delete(r.active, name)
	return name
}

// Used reports whether a helper has been realised.
func (r *Registry) Used(name string) bool {
	_, ok := r.realized[name]
	return ok
}

// Realized returns every used helper in first-use order. Helpers whose body
// is empty are markers and are omitted.
func (r *Registry) Realized() []Fragment {
	out := make([]Fragment, 0, len(r.order))
	for _, name := range r.order {
		if r.realized[name] == "" {
			continue
		}
		out = append(out, Fragment{Name: name, Body: r.realized[name]})
	}
	return out
}

// Names returns every declared helper name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.declared))
	for name := range r.declared {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) String() string {
	return fmt.Sprintf("Registry(%d declared, %d used)", len(r.declared), len(r.order))
}
