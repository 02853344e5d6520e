// Package query is the read side used by the public renderer and the admin
// list views. Every child collection comes back ascending by order.
package query

import (
	"errors"

	"gorm.io/gorm"

	"compro/common"
	"compro/content"
	"compro/models"
)

type Facade struct {
	db    *gorm.DB
	pages *content.Store
}

func NewFacade(db *gorm.DB) *Facade {
	return &Facade{db: db, pages: content.NewStore(db)}
}

func byOrder(tx *gorm.DB) *gorm.DB {
	return tx.Order("sort_order ASC").Order("id ASC")
}

// GetFullPage returns the page for slug with sections and items in order.
// found is false when no page has that slug.
func (f *Facade) GetFullPage(slug string) (*models.Page, bool, error) {
	page, err := f.pages.GetPageBySlug(slug)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return page, true, nil
}

// GetFullNavigation returns the top-level items of the named navigation with
// their children. An unknown navigation yields an empty list.
func (f *Facade) GetFullNavigation(name string) ([]models.NavigationItem, error) {
	items := []models.NavigationItem{}

	var nav models.Navigation
	if err := f.db.Where("name = ?", name).First(&nav).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return items, nil
		}
		return nil, err
	}

	err := f.db.Where("navigation_id = ? AND parent_id IS NULL", nav.ID).
		Preload("Children", byOrder).
		Scopes(byOrder).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Children == nil {
			items[i].Children = []models.NavigationItem{}
		}
	}
	return items, nil
}

// ListPages returns every page row, oldest first.
func (f *Facade) ListPages() ([]models.Page, error) {
	pages := []models.Page{}
	if err := f.db.Order("created_at ASC").Order("id ASC").Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}
