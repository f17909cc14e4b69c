package macro

import (
	"slices"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tim-hardcastle/dsh/source/digraph"
	"github.com/tim-hardcastle/dsh/source/lexer"
	"github.com/tim-hardcastle/dsh/source/settings"
)

// Somewhere to keep macros between sessions.
type Store interface {
	Save(name string, lines []string) error
	Delete(name string) error
	LoadAll() (map[string][]string, error)
}

type Registry struct {
	macros map[string]*Macro
	store  Store // May be nil, in which case macros last as long as the session.
}

func NewRegistry(store Store) *Registry {
	return &Registry{macros: make(map[string]*Macro), store: store}
}

// Adds a macro, replacing any of the same name, and saves it if there's a store.
func (r *Registry) Add(m *Macro) error {
	r.macros[m.Name] = m
	if settings.SHOW_MACROS {
		settings.Logger().WithFields(logrus.Fields{"macro": m.Name, "lines": m.Len()}).Debug("macro added")
	}
	if r.store == nil {
		return nil
	}
	return errors.Wrapf(r.store.Save(m.Name, m.RawLines), "saving macro '%v'", m.Name)
}

func (r *Registry) Delete(name string) error {
	if _, ok := r.macros[name]; !ok {
		return errors.Errorf("macro not found: %v", name)
	}
	delete(r.macros, name)
	if r.store == nil {
		return nil
	}
	return errors.Wrapf(r.store.Delete(name), "deleting macro '%v'", name)
}

func (r *Registry) Get(name string) (*Macro, bool) {
	m, ok := r.macros[name]
	return m, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.macros[name]
	return ok
}

func (r *Registry) Names() []string {
	result := make([]string, 0, len(r.macros))
	for k := range r.macros {
		result = append(result, k)
	}
	slices.Sort(result)
	return result
}

func (r *Registry) Len() int {
	return len(r.macros)
}

// Fills the registry from the store, tokenizing as it goes. Lines which don't tokenize are
// logged and kept as empty lines, which are skipped when the macro is run.
func (r *Registry) Load(tz *lexer.Tokenizer) error {
	if r.store == nil {
		return nil
	}
	saved, err := r.store.LoadAll()
	if err != nil {
		return errors.Wrap(err, "loading macros")
	}
	for name, lines := range saved {
		m := New(name)
		for _, line := range lines {
			m.AddRawLine(line)
		}
		for _, lineErr := range m.TokenizeAll(tz) {
			settings.Logger().WithFields(logrus.Fields{"macro": name, "line": lineErr.Line}).Warn(lineErr.Error())
		}
		r.macros[name] = m
	}
	return nil
}

// Which macros invoke which.
func (r *Registry) Dependencies() digraph.Digraph[string] {
	D := digraph.Digraph[string]{}
	for name, m := range r.macros {
		D.Add(name, m.Invokes())
	}
	return D
}

// Finds a set of macros which invoke one another in a loop, and which therefore can only end by
// exceeding the depth limit. The cycle is rotated to start at its alphabetically first member, and
// is empty if there is no loop.
func (r *Registry) Cycle() []string {
	_, cycle := digraph.Ordering(r.Dependencies())
	if len(cycle) == 0 {
		return cycle
	}
	first := slices.Index(cycle, slices.Min(cycle))
	return slices.Concat(cycle[first:], cycle[:first])
}

// The macros which are invoked by some macro but don't exist, in alphabetical order.
func (r *Registry) Missing() []string {
	missing := r.Dependencies().Missing()
	slices.Sort(missing)
	return missing
}
