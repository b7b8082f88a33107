package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

type Category string

const (
	CategoryMains    Category = "mains"
	CategoryDrinks   Category = "drinks"
	CategoryDesserts Category = "desserts"

	categorySeparator = ","
)

// AllCategories is the display order used by the filter bar.
var AllCategories = []Category{CategoryMains, CategoryDrinks, CategoryDesserts}

var ErrInvalidCategory = errors.New("invalid category")

func (c Category) Valid() bool {
	switch c {
	case CategoryMains, CategoryDrinks, CategoryDesserts:
		return true
	}
	return false
}

func (c Category) bit() CategorySet {
	switch c {
	case CategoryMains:
		return 1
	case CategoryDrinks:
		return 2
	case CategoryDesserts:
		return 4
	}
	return 0
}

// CategorySet is a set of food tags. The zero value is the empty set.
type CategorySet uint8

func NewCategorySet(cats ...Category) CategorySet {
	var s CategorySet
	for _, c := range cats {
		s |= c.bit()
	}
	return s
}

// ParseCategories reads the comma-joined storage form. Unknown tags are rejected.
func ParseCategories(raw string) (CategorySet, error) {
	var s CategorySet
	for _, part := range strings.Split(raw, categorySeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		c := Category(strings.ToLower(part))
		if !c.Valid() {
			return 0, ErrInvalidCategory
		}
		s |= c.bit()
	}
	return s, nil
}

// ParseCategoryList is ParseCategories for an already split list.
func ParseCategoryList(list []string) (CategorySet, error) {
	return ParseCategories(strings.Join(list, categorySeparator))
}

func (s CategorySet) Has(c Category) bool { return s&c.bit() != 0 }

func (s CategorySet) Empty() bool { return s == 0 }

func (s CategorySet) Intersects(other CategorySet) bool { return s&other != 0 }

func (s CategorySet) Add(c Category) CategorySet { return s | c.bit() }

func (s CategorySet) Remove(c Category) CategorySet { return s &^ c.bit() }

// Toggle adds c when absent and removes it when present.
func (s CategorySet) Toggle(c Category) CategorySet { return s ^ c.bit() }

// Slice returns the members in AllCategories order.
func (s CategorySet) Slice() []Category {
	out := make([]Category, 0, 3)
	for _, c := range AllCategories {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s CategorySet) Strings() []string {
	cats := s.Slice()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}

// Join returns the comma-joined storage form.
func (s CategorySet) Join() string {
	return strings.Join(s.Strings(), categorySeparator)
}

func (s CategorySet) String() string { return s.Join() }

func (s CategorySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *CategorySet) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		var raw string
		if err2 := json.Unmarshal(data, &raw); err2 != nil {
			return err
		}
		parsed, err := ParseCategories(raw)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	parsed, err := ParseCategoryList(list)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
