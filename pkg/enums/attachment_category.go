package enums

import "fmt"

// AttachmentCategory classifies uploaded project documents.
type AttachmentCategory string

const (
	AttachmentCategoryFloorPlan    AttachmentCategory = "floor_plan"
	AttachmentCategoryConstruction AttachmentCategory = "construction_drawing"
	AttachmentCategorySitePhoto    AttachmentCategory = "site_photo"
	AttachmentCategoryDesign       AttachmentCategory = "design_drawing"
	AttachmentCategoryOther        AttachmentCategory = "other"
)

var validAttachmentCategories = []AttachmentCategory{
	AttachmentCategoryFloorPlan,
	AttachmentCategoryConstruction,
	AttachmentCategorySitePhoto,
	AttachmentCategoryDesign,
	AttachmentCategoryOther,
}

// String returns the literal string for the category.
func (c AttachmentCategory) String() string {
	return string(c)
}

// IsValid reports whether the category is known.
func (c AttachmentCategory) IsValid() bool {
	for _, candidate := range validAttachmentCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseAttachmentCategory converts raw input into an AttachmentCategory.
func ParseAttachmentCategory(value string) (AttachmentCategory, error) {
	for _, candidate := range validAttachmentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attachment category %q", value)
}
