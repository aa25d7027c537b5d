package sheetlive

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// Surface is the set of display elements an operation writes to.
// Implementations return ErrElementNotFound for ids they do not know.
type Surface interface {
	SetText(id, text string) error
	SetImage(id, src string) error
	SetVisible(id string, visible bool) error
}

// Call carries everything an operation needs for one settings entry.
type Call struct {
	Surface    Surface
	Log        logrus.FieldLogger
	Descriptor any    // the settings value: an id, a list of ids, or a kind-specific structure
	Value      string // current cell value, "" when empty or missing
}

// Operation updates the overlay from one cell value.
type Operation func(c Call) error

// Preset is a bundled operation ready to be imported into a Registry.
type Preset struct {
	Name      string
	Operation Operation
	Simple    bool
}

type registration struct {
	op     Operation
	simple bool
}

// Registry maps operation kinds to their implementations.
// Each Updater owns its own Registry.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]registration
}

// NewRegistry creates a registry with the built-in kinds: string, image, counter, switch.
func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]registration)}
	r.mustAdd(KindString, opString, true)
	r.mustAdd(KindImage, opImage, true)
	r.mustAdd(KindCounter, opCounter, false)
	r.mustAdd(KindSwitch, opSwitch, false)
	return r
}

func (r *Registry) mustAdd(name string, op Operation, simple bool) {
	if err := r.Add(name, op, simple); err != nil {
		panic(err)
	}
}

// Add registers a new kind. A simple operation is invoked once per id when its
// descriptor is a list. Existing kinds are never overwritten.
func (r *Registry) Add(name string, op Operation, simple bool) error {
	if name == "" || op == nil {
		return fmt.Errorf("register operation %q: name and operation are required", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ops[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateOperation, name)
	}
	r.ops[name] = registration{op: op, simple: simple}
	return nil
}

// Import registers a bundled preset.
func (r *Registry) Import(p Preset) error {
	return r.Add(p.Name, p.Operation, p.Simple)
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ops[kind]
	return ok
}

// Names returns the registered kinds, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the operation registered for kind.
func (r *Registry) Dispatch(kind string, c Call) error {
	r.mu.RLock()
	reg, ok := r.ops[kind]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, kind)
	}

	if !reg.simple {
		return reg.op(c)
	}
	items, isList := asList(c.Descriptor)
	if !isList {
		return reg.op(c)
	}
	var result *multierror.Error
	for _, item := range items {
		each := c
		each.Descriptor = item
		if err := reg.op(each); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
