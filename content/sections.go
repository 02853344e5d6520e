package content

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"compro/common"
	"compro/guard"
	"compro/models"
	"compro/ordering"
)

// SectionInput is the complete field set of a section. Empty optional fields
// are stored as NULL on both create and update.
type SectionInput struct {
	Type              string `form:"type" json:"type" binding:"required"`
	Heading           string `form:"heading" json:"heading"`
	Subheading        string `form:"subheading" json:"subheading"`
	CTAPrimaryLabel   string `form:"cta_primary_label" json:"cta_primary_label"`
	CTAPrimaryHref    string `form:"cta_primary_href" json:"cta_primary_href"`
	CTASecondaryLabel string `form:"cta_secondary_label" json:"cta_secondary_label"`
	CTASecondaryHref  string `form:"cta_secondary_href" json:"cta_secondary_href"`
	ImageURL          string `form:"image_url" json:"image_url"`
}

func (in SectionInput) validate() error {
	if !models.IsSectionType(in.Type) {
		return fmt.Errorf("%w: unknown section type %q", common.ErrInvalid, in.Type)
	}
	return nil
}

func (in SectionInput) columns() map[string]interface{} {
	return map[string]interface{}{
		"type":                in.Type,
		"heading":             models.NullString(in.Heading),
		"subheading":          models.NullString(in.Subheading),
		"cta_primary_label":   models.NullString(in.CTAPrimaryLabel),
		"cta_primary_href":    models.NullString(in.CTAPrimaryHref),
		"cta_secondary_label": models.NullString(in.CTASecondaryLabel),
		"cta_secondary_href":  models.NullString(in.CTASecondaryHref),
		"image_url":           models.NullString(in.ImageURL),
		"updated_at":          time.Now(),
	}
}

// SectionSummary is a section row for list views.
type SectionSummary struct {
	models.Section
	ItemCount int64 `json:"item_count"`
}

func sectionGroup(pageID string) ordering.Group[models.Section] {
	return ordering.NewGroup[models.Section](
		guard.SectionGroupKey(pageID),
		func(tx *gorm.DB) *gorm.DB { return tx.Where("page_id = ?", pageID) },
	)
}

func getSection(tx *gorm.DB, id string) (*models.Section, error) {
	var section models.Section
	if err := tx.Where("id = ?", id).First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: section %s", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &section, nil
}

// GetSections returns the sections of a page in order, with item counts.
func (s *Store) GetSections(pageID string) ([]SectionSummary, error) {
	if _, err := getPage(s.db, pageID); err != nil {
		return nil, err
	}
	sections := []SectionSummary{}
	err := s.db.Model(&models.Section{}).
		Select("sections.*, (SELECT COUNT(*) FROM section_items WHERE section_items.section_id = sections.id) AS item_count").
		Where("page_id = ?", pageID).
		Order("sort_order ASC").Order("id ASC").
		Scan(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// GetSectionWithItems returns the section, its items in order and its page.
func (s *Store) GetSectionWithItems(id string) (*models.Section, error) {
	var section models.Section
	err := s.db.Where("id = ?", id).
		Preload("Items", ordered).
		Preload("Page").
		First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: section %s", common.ErrNotFound, id)
		}
		return nil, err
	}
	if section.Items == nil {
		section.Items = []models.SectionItem{}
	}
	return &section, nil
}

// CreateSection appends a section at the end of the page.
func (s *Store) CreateSection(pageID string, in SectionInput) (*models.Section, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	section := models.Section{
		PageID:            pageID,
		Type:              in.Type,
		Heading:           models.NullString(in.Heading),
		Subheading:        models.NullString(in.Subheading),
		CTAPrimaryLabel:   models.NullString(in.CTAPrimaryLabel),
		CTAPrimaryHref:    models.NullString(in.CTAPrimaryHref),
		CTASecondaryLabel: models.NullString(in.CTASecondaryLabel),
		CTASecondaryHref:  models.NullString(in.CTASecondaryHref),
		ImageURL:          models.NullString(in.ImageURL),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := getPage(tx, pageID); err != nil {
			return err
		}
		group := sectionGroup(pageID)
		order, err := group.AppendAtEnd(tx)
		if err != nil {
			return err
		}
		section.Order = order
		if err := tx.Create(&section).Error; err != nil {
			return err
		}
		return group.Verify(tx)
	})
	if err != nil {
		return nil, err
	}
	return &section, nil
}

// UpdateSection replaces every field of the section; absent optional fields
// become NULL. Page and order are unchanged.
func (s *Store) UpdateSection(id string, in SectionInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	result := s.db.Model(&models.Section{}).Where("id = ?", id).Updates(in.columns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: section %s", common.ErrNotFound, id)
	}
	return nil
}

// DeleteSection removes the section and its items.
func (s *Store) DeleteSection(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := getSection(tx, id); err != nil {
			return err
		}
		return deleteSection(tx, id)
	})
}

func deleteSection(tx *gorm.DB, id string) error {
	if err := tx.Where("section_id = ?", id).Delete(&models.SectionItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Section{}, "id = ?", id).Error
}

// ReorderSection moves the section one step within its page. It returns false
// when the section is already first (up) or last (down).
func (s *Store) ReorderSection(id string, dir ordering.Direction) (bool, error) {
	var moved bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		section, err := getSection(tx, id)
		if err != nil {
			return err
		}
		moved, err = sectionGroup(section.PageID).MoveOneStep(tx, section.ID, dir)
		return err
	})
	return moved, err
}
