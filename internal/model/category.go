package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// Category classifies a product. The set of members is closed; ordinals are
// stable and exposed through the list endpoint's category filter.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCloths
	CategoryFood
	CategoryHousewares
	CategoryAutomotive
	CategoryTools
)

var categoryNames = [...]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryCloths:     "CLOTHS",
	CategoryFood:       "FOOD",
	CategoryHousewares: "HOUSEWARES",
	CategoryAutomotive: "AUTOMOTIVE",
	CategoryTools:      "TOOLS",
}

// Categories returns every defined category in ordinal order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

// ParseCategory looks a category up by its exact, case-sensitive member name.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return CategoryUnknown, false
}

// CategoryFromOrdinal looks a category up by its integer value.
func CategoryFromOrdinal(n int) (Category, bool) {
	c := Category(n)
	if !c.Valid() {
		return CategoryUnknown, false
	}
	return c, true
}

// Valid reports whether c is a defined member.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

func (c Category) String() string {
	if !c.Valid() {
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
	return categoryNames[c]
}

// MarshalJSON renders the member name.
func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a member name only.
func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("category must be a string: %w", err)
	}
	parsed, ok := ParseCategory(name)
	if !ok {
		return fmt.Errorf("unknown category %q", name)
	}
	*c = parsed
	return nil
}

// Value stores the category by member name.
func (c Category) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return c.String(), nil
}

// Scan reads a category stored by member name.
func (c *Category) Scan(src interface{}) error {
	var name string
	switch v := src.(type) {
	case string:
		name = v
	case []byte:
		name = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Category", src)
	}
	parsed, ok := ParseCategory(name)
	if !ok {
		return fmt.Errorf("unknown category %q in store", name)
	}
	*c = parsed
	return nil
}
