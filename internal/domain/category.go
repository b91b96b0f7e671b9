package domain

import (
	"fmt"
	"regexp"
	"strings"
)

type CategoryKind string

const (
	CategoryPreset CategoryKind = "preset"
	CategoryCustom CategoryKind = "custom"
)

type PresetCategory string

const (
	PresetWork     PresetCategory = "Work"
	PresetSport    PresetCategory = "Sport"
	PresetReading  PresetCategory = "Reading"
	PresetLearning PresetCategory = "Learning"
	PresetWorship  PresetCategory = "Worship"
)

// ValidPresets is the canonical set of preset category names.
var ValidPresets = map[PresetCategory]bool{
	PresetWork: true, PresetSport: true, PresetReading: true,
	PresetLearning: true, PresetWorship: true,
}

var colorHexPattern = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)

// Category is either a preset (Name holds the preset) or a custom
// name with its own color.
type Category struct {
	Kind  CategoryKind
	Name  string
	Color string
}

// NamedCategory returns a preset category.
func NamedCategory(p PresetCategory) Category {
	return Category{Kind: CategoryPreset, Name: string(p)}
}

// CustomCategory returns a validated custom category.
func CustomCategory(name, color string) (Category, error) {
	c := Category{Kind: CategoryCustom, Name: strings.TrimSpace(name), Color: strings.ToLower(color)}
	if err := c.Validate(); err != nil {
		return Category{}, err
	}
	return c, nil
}

func (c Category) Validate() error {
	switch c.Kind {
	case CategoryPreset:
		if !ValidPresets[PresetCategory(c.Name)] {
			return invalid("category", fmt.Sprintf("unknown preset %q", c.Name))
		}
		if c.Color != "" {
			return invalid("category", "preset categories carry no color")
		}
	case CategoryCustom:
		if strings.TrimSpace(c.Name) == "" {
			return invalid("category", "custom category name is required")
		}
		if !colorHexPattern.MatchString(c.Color) {
			return invalid("category", fmt.Sprintf("color %q must look like #RRGGBB", c.Color))
		}
	default:
		return invalid("category", "category is required")
	}
	return nil
}

// Label is the display name of the category.
func (c Category) Label() string {
	return c.Name
}
