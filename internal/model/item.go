package model

import (
	"fmt"
	"sort"
	"strings"
)

// Category classifies an item. The zero value is Work.
type Category int

const (
	Work Category = iota
	Travel
)

// Categories lists every category in display order.
var Categories = []Category{Work, Travel}

func (c Category) Valid() bool { return c == Work || c == Travel }

func (c Category) String() string {
	switch c {
	case Work:
		return "work"
	case Travel:
		return "travel"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Label is the capitalized name shown in headers.
func (c Category) Label() string {
	switch c {
	case Work:
		return "Work"
	case Travel:
		return "Travel"
	}
	return c.String()
}

// ParseCategory accepts "work" or "travel" in any case.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work":
		return Work, nil
	case "travel":
		return Travel, nil
	}
	return Work, fmt.Errorf("unknown category %q", s)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Item is the domain model for a todo entry.
type Item struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Entry is an item together with its key.
type Entry struct {
	Key string
	Item
}

// Collection maps item keys to items.
type Collection map[string]Item

// Keys returns the keys in ascending order, which is also display order.
func (c Collection) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Count returns how many items belong to cat.
func (c Collection) Count(cat Category) int {
	n := 0
	for _, it := range c {
		if it.Category == cat {
			n++
		}
	}
	return n
}
