package lint

import (
	"cmp"
	"slices"
	"strings"
	"sync"
)

// Registry holds all registered lint rules. Lookups are case-insensitive:
// IDs are stored upper case, names, aliases and tags lower case.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]Rule
	byName  map[string]Rule
	aliases map[string]string // alias -> canonical ID
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Rule),
		byName:  make(map[string]Rule),
		aliases: make(map[string]string),
	}
}

// Register adds a rule to the registry, replacing any rule with the same ID.
func (r *Registry) Register(rule Rule, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[strings.ToUpper(rule.ID())] = rule
	r.byName[strings.ToLower(rule.Name())] = rule
	for _, alias := range aliases {
		r.aliases[strings.ToLower(alias)] = rule.ID()
	}
}

// RegisterAlias maps an alias to a canonical rule ID.
func (r *Registry) RegisterAlias(alias, ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[strings.ToLower(alias)] = ruleID
}

// Get retrieves a rule by ID, name or alias.
func (r *Registry) Get(key string) (Rule, bool) {
	_, rule, ok := r.Resolve(key)
	return rule, ok
}

// Resolve returns the canonical ID and rule for a rule ID, name or alias.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.byID[strings.ToUpper(key)]; ok {
		return rule.ID(), rule, true
	}
	lower := strings.ToLower(key)
	if rule, ok := r.byName[lower]; ok {
		return rule.ID(), rule, true
	}
	if id, ok := r.aliases[lower]; ok {
		if rule, ok := r.byID[strings.ToUpper(id)]; ok {
			return rule.ID(), rule, true
		}
	}
	return "", nil, false
}

// ResolveTag returns the IDs of every rule carrying tag, sorted.
func (r *Registry) ResolveTag(tag string) []string {
	var ids []string
	for _, rule := range r.Rules() {
		for _, t := range rule.Tags() {
			if strings.EqualFold(t, tag) {
				ids = append(ids, rule.ID())
				break
			}
		}
	}
	return ids
}

// Aliases returns the aliases registered for ruleID, sorted.
func (r *Registry) Aliases(ruleID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for alias, id := range r.aliases {
		if strings.EqualFold(id, ruleID) {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return out
}

// Rules returns all registered rules sorted by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.byID))
	for _, rule := range r.byID {
		result = append(result, rule)
	}

	slices.SortFunc(result, func(a, b Rule) int {
		return cmp.Compare(a.ID(), b.ID())
	})

	return result
}

// DefaultRegistry is the global registry for built-in rules.
// Rules register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for rule registration
var DefaultRegistry = NewRegistry()
