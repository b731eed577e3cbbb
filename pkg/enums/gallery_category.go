package enums

import "fmt"

// GalleryCategory groups finished-work photos on the marketing site.
type GalleryCategory string

const (
	GalleryCategoryWindows      GalleryCategory = "Windows"
	GalleryCategoryDoors        GalleryCategory = "Doors"
	GalleryCategoryElevation    GalleryCategory = "Elevation"
	GalleryCategoryMesh         GalleryCategory = "Mesh"
	GalleryCategoryGlassFitting GalleryCategory = "Glass Fitting"
)

var validGalleryCategories = []GalleryCategory{
	GalleryCategoryWindows,
	GalleryCategoryDoors,
	GalleryCategoryElevation,
	GalleryCategoryMesh,
	GalleryCategoryGlassFitting,
}

// String implements fmt.Stringer.
func (g GalleryCategory) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GalleryCategory.
func (g GalleryCategory) IsValid() bool {
	for _, candidate := range validGalleryCategories {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGalleryCategory converts raw input into a GalleryCategory.
func ParseGalleryCategory(value string) (GalleryCategory, error) {
	for _, candidate := range validGalleryCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gallery category %q", value)
}
