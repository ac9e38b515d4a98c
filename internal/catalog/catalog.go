package catalog

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBasePriceCents applies to categories the catalog does not price.
const DefaultBasePriceCents = 9900

// Catalog lists everything a customer can pick in the booking wizard.
type Catalog struct {
	Categories    []Category `yaml:"categories" json:"categories"`
	PropertyTypes []string   `yaml:"property_types" json:"propertyTypes"`
	TimeSlots     []string   `yaml:"time_slots" json:"timeSlots"`
	Frequencies   []string   `yaml:"frequencies" json:"frequencies"`
}

// Category is a top-level service group, e.g. "Residential Services".
type Category struct {
	ID        string    `yaml:"id" json:"id"`
	Name      string    `yaml:"name" json:"name"`
	BasePrice float64   `yaml:"base_price" json:"basePrice"`
	Services  []Service `yaml:"services" json:"services"`
}

// Service is a specific offering within a category.
type Service struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Default returns the built-in Grass & Axe catalog.
func Default() Catalog {
	return Catalog{
		Categories: []Category{
			{
				ID:        "residential",
				Name:      "Residential Services",
				BasePrice: 99,
				Services: []Service{
					{Name: "Lawn Mowing & Edging", Description: "Mow, edge and blow for a clean finish"},
					{Name: "Hedge & Shrub Trimming"},
					{Name: "Leaf Removal"},
					{Name: "Garden Bed Maintenance"},
				},
			},
			{
				ID:        "commercial",
				Name:      "Commercial Services",
				BasePrice: 199,
				Services: []Service{
					{Name: "Grounds Maintenance Contract"},
					{Name: "Parking Lot Landscaping"},
					{Name: "Seasonal Cleanup"},
				},
			},
			{
				ID:        "specialized",
				Name:      "Specialized Services",
				BasePrice: 149,
				Services: []Service{
					{Name: "Tree Felling", Description: "Controlled removal of hazardous or unwanted trees"},
					{Name: "Stump Grinding"},
					{Name: "Firewood Splitting"},
					{Name: "Storm Damage Cleanup"},
				},
			},
		},
		PropertyTypes: []string{"Single Family Home", "Townhouse", "Multi-Family", "Office / Retail", "Industrial", "Vacant Lot"},
		TimeSlots:     []string{"8:00 AM", "10:00 AM", "12:00 PM", "2:00 PM", "4:00 PM"},
		Frequencies:   []string{"One-time", "Weekly", "Bi-weekly", "Monthly"},
	}
}

// Load reads a YAML catalog. A missing file yields the default catalog.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(content)
}

// Parse decodes a YAML catalog, filling unset sections from the defaults.
func Parse(content []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, fmt.Errorf("catalog: parse: %w", err)
	}

	def := Default()
	if len(cat.Categories) == 0 {
		cat.Categories = def.Categories
	}
	if len(cat.PropertyTypes) == 0 {
		cat.PropertyTypes = def.PropertyTypes
	}
	if len(cat.TimeSlots) == 0 {
		cat.TimeSlots = def.TimeSlots
	}
	if len(cat.Frequencies) == 0 {
		cat.Frequencies = def.Frequencies
	}
	if err := cat.validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func (c Catalog) validate() error {
	seen := make(map[string]struct{}, len(c.Categories))
	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("catalog: category %d is missing a name", i)
		}
		if _, dup := seen[cat.Name]; dup {
			return fmt.Errorf("catalog: duplicate category %q", cat.Name)
		}
		seen[cat.Name] = struct{}{}
		if cat.BasePrice < 0 {
			return fmt.Errorf("catalog: category %q has a negative base price", cat.Name)
		}
		if len(cat.Services) == 0 {
			return fmt.Errorf("catalog: category %q lists no services", cat.Name)
		}
	}
	return nil
}

// Category looks up a category by display name.
func (c Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// HasService reports whether service is offered under the named category.
func (c Catalog) HasService(category, service string) bool {
	cat, ok := c.Category(category)
	if !ok {
		return false
	}
	for _, s := range cat.Services {
		if s.Name == service {
			return true
		}
	}
	return false
}

// HasPropertyType reports whether name is a known property type.
func (c Catalog) HasPropertyType(name string) bool { return contains(c.PropertyTypes, name) }

// HasTimeSlot reports whether label is a bookable time slot.
func (c Catalog) HasTimeSlot(label string) bool { return contains(c.TimeSlots, label) }

// HasFrequency reports whether name is a service frequency option.
func (c Catalog) HasFrequency(name string) bool { return contains(c.Frequencies, name) }

// BasePriceCents returns the category's base price, or DefaultBasePriceCents
// for an unknown or unpriced category.
func (c Catalog) BasePriceCents(category string) int64 {
	cat, ok := c.Category(category)
	if !ok || cat.BasePrice <= 0 {
		return DefaultBasePriceCents
	}
	return int64(math.Round(cat.BasePrice * 100))
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
