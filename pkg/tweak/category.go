package tweak

import (
	"errors"
	"fmt"
)

// Category groups modules in the navigation pane.
type Category string

// The fixed set of categories. No other tag is ever accepted.
const (
	CategoryBroken      Category = "broken"
	CategoryApplication Category = "application"
	CategoryStartup     Category = "startup"
	CategoryDesktop     Category = "desktop"
	CategoryPersonal    Category = "personal"
	CategorySystem      Category = "system"
)

// ErrUnknownCategory is returned for a tag outside the fixed category list.
var ErrUnknownCategory = errors.New("unknown category")

// CategoryInfo pairs a category tag with its human-readable label.
type CategoryInfo struct {
	Tag   Category
	Label string
}

var categories = [...]CategoryInfo{
	{Tag: CategoryBroken, Label: "Broken Modules"},
	{Tag: CategoryApplication, Label: "Applications"},
	{Tag: CategoryStartup, Label: "Startup"},
	{Tag: CategoryDesktop, Label: "Desktop"},
	{Tag: CategoryPersonal, Label: "Personal"},
	{Tag: CategorySystem, Label: "System"},
}

// Categories returns the ordered category list. The returned slice is a copy.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories[:])
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, ci := range categories {
		if ci.Tag == c {
			return true
		}
	}
	return false
}

// Label returns the human-readable name of c, or the raw tag if unknown.
func (c Category) Label() string {
	for _, ci := range categories {
		if ci.Tag == c {
			return ci.Label
		}
	}
	return string(c)
}

// ParseCategory converts a tag into a Category, rejecting unknown tags.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("tweak: %w %q", ErrUnknownCategory, s)
	}
	return c, nil
}
