// Package objectset indexes the objects of one load pass by record type and
// fingerprint. Objects built by the unknown variant live in their own
// partition but keep their on-file record type.
package objectset

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/dlisgraph/internal/object"
	"github.com/leapstack-labs/dlisgraph/pkg/core"
)

// ErrNotFound is returned by Find when no object matches.
var ErrNotFound = errors.New("object not found")

// AmbiguousError is returned by Find when more than one object matches and
// the caller did not narrow the search by origin or copy number.
type AmbiguousError struct {
	Type    string
	Name    string
	Matches []core.Fingerprint
}

func (e *AmbiguousError) Error() string {
	fps := make([]string, len(e.Matches))
	for i, fp := range e.Matches {
		fps[i] = fp.String()
	}
	return fmt.Sprintf("%d objects match %s %s\nCandidates: %s\nHint: Narrow the search with an origin or copy number",
		len(e.Matches), e.Type, e.Name, strings.Join(fps, ", "))
}

type partition map[string]map[core.Fingerprint]*object.Object

func (p partition) insert(o *object.Object) (replaced bool) {
	objs, ok := p[o.Type()]
	if !ok {
		objs = make(map[core.Fingerprint]*object.Object)
		p[o.Type()] = objs
	}
	_, replaced = objs[o.Fingerprint()]
	objs[o.Fingerprint()] = o
	return replaced
}

func (p partition) remove(fp core.Fingerprint) bool {
	objs, ok := p[fp.Type]
	if !ok {
		return false
	}
	if _, ok := objs[fp]; !ok {
		return false
	}
	delete(objs, fp)
	if len(objs) == 0 {
		delete(p, fp.Type)
	}
	return true
}

// Set is the object index of one load pass. It is safe for concurrent use.
type Set struct {
	mu      sync.RWMutex
	typed   partition
	unknown partition
	count   int
}

// New creates an empty set.
func New() *Set {
	return &Set{
		typed:   make(partition),
		unknown: make(partition),
	}
}

// Insert adds o, replacing any object with the same fingerprint. It reports
// whether an object was replaced.
func (s *Set) Insert(o *object.Object) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp := o.Fingerprint()
	// A replacement may move an object between partitions.
	replaced := s.typed.remove(fp) || s.unknown.remove(fp)
	if o.Variant().IsUnknown() {
		s.unknown.insert(o)
	} else {
		s.typed.insert(o)
	}
	if !replaced {
		s.count++
	}
	return replaced
}

// Lookup returns the object with fingerprint fp under recordType.
func (s *Set) Lookup(recordType string, fp core.Fingerprint) (*object.Object, bool) {
	if fp.Type != recordType {
		return nil, false
	}
	return s.Get(fp)
}

// Get returns the object with fingerprint fp from either partition.
func (s *Set) Get(fp core.Fingerprint) (*object.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o, ok := s.typed[fp.Type][fp]; ok {
		return o, true
	}
	o, ok := s.unknown[fp.Type][fp]
	return o, ok
}

// AllOfType returns every object of recordType, typed or unknown, sorted
// by fingerprint.
func (s *Set) AllOfType(recordType string) []*object.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*object.Object, 0, len(s.typed[recordType])+len(s.unknown[recordType]))
	for _, o := range s.typed[recordType] {
		out = append(out, o)
	}
	for _, o := range s.unknown[recordType] {
		out = append(out, o)
	}
	sortObjects(out)
	return out
}

// UnknownTypes returns the record types present with no bound variant,
// sorted.
func (s *Set) UnknownTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.unknown)
}

// Unknowns returns every object built by the unknown variant, grouped by
// record type.
func (s *Set) Unknowns() map[string][]*object.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]*object.Object, len(s.unknown))
	for recordType, objs := range s.unknown {
		list := make([]*object.Object, 0, len(objs))
		for _, o := range objs {
			list = append(list, o)
		}
		sortObjects(list)
		out[recordType] = list
	}
	return out
}

// Types returns the record types with at least one typed object, sorted.
func (s *Set) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.typed)
}

// All returns every object, sorted by fingerprint.
func (s *Set) All() []*object.Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*object.Object, 0, s.count)
	for _, p := range []partition{s.typed, s.unknown} {
		for _, objs := range p {
			for _, o := range objs {
				out = append(out, o)
			}
		}
	}
	sortObjects(out)
	return out
}

// Len returns the number of objects.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Counts returns the number of objects per record type.
func (s *Set) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int)
	for _, p := range []partition{s.typed, s.unknown} {
		for recordType, objs := range p {
			out[recordType] += len(objs)
		}
	}
	return out
}

// FindOption narrows a Find.
type FindOption func(*findOptions)

type findOptions struct {
	origin *uint32
	copy   *uint8
}

// WithOrigin restricts Find to objects defined under origin.
func WithOrigin(origin uint32) FindOption {
	return func(o *findOptions) { o.origin = &origin }
}

// WithCopy restricts Find to objects with copy number copy.
func WithCopy(copy uint8) FindOption {
	return func(o *findOptions) { o.copy = &copy }
}

// Find returns the single object of recordType called name. It fails with
// ErrNotFound when nothing matches and with *AmbiguousError when several
// objects match after applying opts.
func (s *Set) Find(recordType, name string, opts ...FindOption) (*object.Object, error) {
	var fo findOptions
	for _, opt := range opts {
		opt(&fo)
	}

	var matches []*object.Object
	for _, o := range s.AllOfType(recordType) {
		if o.Name() != name {
			continue
		}
		if fo.origin != nil && o.Origin() != *fo.origin {
			continue
		}
		if fo.copy != nil && o.Copy() != *fo.copy {
			continue
		}
		matches = append(matches, o)
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%s %s: %w", recordType, name, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		fps := make([]core.Fingerprint, len(matches))
		for i, o := range matches {
			fps[i] = o.Fingerprint()
		}
		return nil, &AmbiguousError{Type: recordType, Name: name, Matches: fps}
	}
}

// Match returns the objects whose record type and name fully match the
// given regular expressions, sorted by fingerprint.
func (s *Set) Match(typePattern, namePattern string) ([]*object.Object, error) {
	typeRe, err := regexp.Compile("^(?:" + typePattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid type pattern: %w", err)
	}
	nameRe, err := regexp.Compile("^(?:" + namePattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid name pattern: %w", err)
	}

	var out []*object.Object
	for _, o := range s.All() {
		if typeRe.MatchString(o.Type()) && nameRe.MatchString(o.Name()) {
			out = append(out, o)
		}
	}
	return out, nil
}

func sortObjects(objs []*object.Object) {
	sort.Slice(objs, func(i, j int) bool {
		return objs[i].Fingerprint().Less(objs[j].Fingerprint())
	})
}

func sortedKeys(p partition) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
