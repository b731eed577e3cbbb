package enums

import "fmt"

// ItemCategory classifies a pricing row and the measurements quoted under it.
type ItemCategory string

const (
	ItemCategoryWindow    ItemCategory = "Window"
	ItemCategoryDoor      ItemCategory = "Door"
	ItemCategoryMesh      ItemCategory = "Mesh"
	ItemCategoryElevation ItemCategory = "Elevation"
	ItemCategoryPartition ItemCategory = "Partition"
	ItemCategoryGlass     ItemCategory = "Glass"
)

var validItemCategories = []ItemCategory{
	ItemCategoryWindow,
	ItemCategoryDoor,
	ItemCategoryMesh,
	ItemCategoryElevation,
	ItemCategoryPartition,
	ItemCategoryGlass,
}

// String implements fmt.Stringer.
func (i ItemCategory) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemCategory.
func (i ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == i {
			return true
		}
	}
	return false
}

// ItemCategories returns every known category.
func ItemCategories() []ItemCategory {
	out := make([]ItemCategory, len(validItemCategories))
	copy(out, validItemCategories)
	return out
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}
