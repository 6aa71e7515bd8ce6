package pagetrack

import (
	"fmt"

	"github.com/dmitrymomot/pagetrack/pkg/config"
)

// Binding pairs a human readable label with a CSS selector.
type Binding struct {
	Label    string `yaml:"label" json:"label"`
	Selector string `yaml:"selector" json:"selector"`
}

// Validate reports ErrInvalidInteractionBinding when label or selector is empty.
func (b Binding) Validate() error {
	if b.Label == "" || b.Selector == "" {
		return fmt.Errorf("%w: label=%q selector=%q", ErrInvalidInteractionBinding, b.Label, b.Selector)
	}
	return nil
}

func validateBindings(bindings []Binding) error {
	for i, b := range bindings {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("binding %d: %w", i, err)
		}
	}
	return nil
}

// bindingSet keeps bindings in insertion order without duplicates.
type bindingSet struct {
	items []Binding
	seen  map[Binding]struct{}
}

func (s *bindingSet) add(b Binding) {
	if s.seen == nil {
		s.seen = make(map[Binding]struct{})
	}
	if _, ok := s.seen[b]; ok {
		return
	}
	s.seen[b] = struct{}{}
	s.items = append(s.items, b)
}

func (s *bindingSet) retain(keep func(Binding) bool) {
	kept := s.items[:0]
	for _, b := range s.items {
		if keep(b) {
			kept = append(kept, b)
		} else {
			delete(s.seen, b)
		}
	}
	clear(s.items[len(kept):])
	s.items = kept
}

func (s *bindingSet) list() []Binding {
	return append([]Binding(nil), s.items...)
}

// BindingsFile is the on-disk layout of interaction bindings.
type BindingsFile struct {
	Clicks  []Binding `yaml:"clicks"`
	Scrolls []Binding `yaml:"scrolls"`
}

// LoadBindings reads and validates a YAML bindings file.
func LoadBindings(path string) (BindingsFile, error) {
	var f BindingsFile
	if err := config.LoadYAML(path, &f); err != nil {
		return BindingsFile{}, err
	}
	if err := validateBindings(f.Clicks); err != nil {
		return BindingsFile{}, fmt.Errorf("clicks: %w", err)
	}
	if err := validateBindings(f.Scrolls); err != nil {
		return BindingsFile{}, fmt.Errorf("scrolls: %w", err)
	}
	return f, nil
}
