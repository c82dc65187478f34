// Package domain defines the core business types shared across the service.
package domain

// Plan describes one service tier offered to customers.
type Plan struct {
	Key      string   `json:"key" yaml:"key"`
	Name     string   `json:"name" yaml:"name"`
	Monthly  string   `json:"monthly" yaml:"monthly"`
	Setup    string   `json:"setup" yaml:"setup"`
	Features []string `json:"features" yaml:"features"`
	Notes    string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Catalog is the ordered set of plans offered. It is loaded once at startup
// and never mutated afterwards.
type Catalog struct {
	Plans []Plan `json:"plans" yaml:"plans"`
}

// Get returns the plan with the given key.
func (c Catalog) Get(key string) (Plan, bool) {
	for _, p := range c.Plans {
		if p.Key == key {
			return p, true
		}
	}
	return Plan{}, false
}

// Keys returns the plan keys in declaration order.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c.Plans))
	for _, p := range c.Plans {
		keys = append(keys, p.Key)
	}
	return keys
}
