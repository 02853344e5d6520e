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

// ItemInput is the complete field set of a section item; see models.SectionItem
// for how each field is read per section type.
type ItemInput struct {
	Title    string `form:"title" json:"title"`
	Subtitle string `form:"subtitle" json:"subtitle"`
	ImageURL string `form:"image_url" json:"image_url"`
	Href     string `form:"href" json:"href"`
	Tag      string `form:"tag" json:"tag"`
}

func itemGroup(sectionID string) ordering.Group[models.SectionItem] {
	return ordering.NewGroup[models.SectionItem](
		guard.ItemGroupKey(sectionID),
		func(tx *gorm.DB) *gorm.DB { return tx.Where("section_id = ?", sectionID) },
	)
}

func getItem(tx *gorm.DB, id string) (*models.SectionItem, error) {
	var item models.SectionItem
	if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: section item %s", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem appends an item at the end of the section.
func (s *Store) CreateItem(sectionID string, in ItemInput) (*models.SectionItem, error) {
	item := models.SectionItem{
		SectionID: sectionID,
		Title:     models.NullString(in.Title),
		Subtitle:  models.NullString(in.Subtitle),
		ImageURL:  models.NullString(in.ImageURL),
		Href:      models.NullString(in.Href),
		Tag:       models.NullString(in.Tag),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := getSection(tx, sectionID); err != nil {
			return err
		}
		group := itemGroup(sectionID)
		order, err := group.AppendAtEnd(tx)
		if err != nil {
			return err
		}
		item.Order = order
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return group.Verify(tx)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem replaces every field of the item; absent fields become NULL.
func (s *Store) UpdateItem(id string, in ItemInput) error {
	result := s.db.Model(&models.SectionItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":      models.NullString(in.Title),
		"subtitle":   models.NullString(in.Subtitle),
		"image_url":  models.NullString(in.ImageURL),
		"href":       models.NullString(in.Href),
		"tag":        models.NullString(in.Tag),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: section item %s", common.ErrNotFound, id)
	}
	return nil
}

func (s *Store) DeleteItem(id string) error {
	result := s.db.Delete(&models.SectionItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: section item %s", common.ErrNotFound, id)
	}
	return nil
}

// ReorderItem moves the item one step within its section.
func (s *Store) ReorderItem(id string, dir ordering.Direction) (bool, error) {
	var moved bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, err := getItem(tx, id)
		if err != nil {
			return err
		}
		moved, err = itemGroup(item.SectionID).MoveOneStep(tx, item.ID, dir)
		return err
	})
	return moved, err
}
