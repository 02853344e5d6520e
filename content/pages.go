// Package content stores pages, their ordered sections and the ordered items
// of each section. Deletes cascade in application code: a page removes its
// sections, a section removes its items.
package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"compro/common"
	"compro/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

type PageInput struct {
	Slug  string `form:"slug" json:"slug" binding:"required"`
	Title string `form:"title" json:"title" binding:"required"`
}

func (in PageInput) validate() error {
	if !slugPattern.MatchString(in.Slug) {
		return fmt.Errorf("%w: slug may only contain lowercase letters, digits and dashes", common.ErrInvalid)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrInvalid)
	}
	return nil
}

// PageSummary is a page row for list views.
type PageSummary struct {
	models.Page
	SectionCount int64 `json:"section_count"`
}

func (s *Store) slugTaken(tx *gorm.DB, slug, exceptID string) (bool, error) {
	var count int64
	q := tx.Model(&models.Page{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func slugError(err error, slug string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %q", common.ErrSlugConflict, slug)
	}
	return err
}

// CreatePage fails with common.ErrSlugConflict when the slug is in use; the
// existing page is left untouched.
func (s *Store) CreatePage(in PageInput) (*models.Page, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	page := models.Page{Slug: in.Slug, Title: in.Title}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		taken, err := s.slugTaken(tx, in.Slug, "")
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %q", common.ErrSlugConflict, in.Slug)
		}
		return slugError(tx.Create(&page).Error, in.Slug)
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage renames a page under the same slug rule as CreatePage.
func (s *Store) UpdatePage(id string, in PageInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := getPage(tx, id); err != nil {
			return err
		}
		taken, err := s.slugTaken(tx, in.Slug, id)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: %q", common.ErrSlugConflict, in.Slug)
		}
		err = tx.Model(&models.Page{}).Where("id = ?", id).Updates(map[string]interface{}{
			"slug":       in.Slug,
			"title":      in.Title,
			"updated_at": time.Now(),
		}).Error
		return slugError(err, in.Slug)
	})
}

// DeletePage removes the page, its sections and all of their items.
func (s *Store) DeletePage(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		page, err := getPage(tx, id)
		if err != nil {
			return err
		}
		var sectionIDs []string
		if err := tx.Model(&models.Section{}).Where("page_id = ?", page.ID).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		for _, sectionID := range sectionIDs {
			if err := deleteSection(tx, sectionID); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Page{}, "id = ?", page.ID).Error
	})
}

func getPage(tx *gorm.DB, id string) (*models.Page, error) {
	var page models.Page
	if err := tx.Where("id = ?", id).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: page %s", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &page, nil
}

// GetPage returns the page row without sections.
func (s *Store) GetPage(id string) (*models.Page, error) {
	return getPage(s.db, id)
}

// ListPages returns every page, newest first, with its section count.
func (s *Store) ListPages() ([]PageSummary, error) {
	pages := []PageSummary{}
	err := s.db.Model(&models.Page{}).
		Select("pages.*, (SELECT COUNT(*) FROM sections WHERE sections.page_id = pages.id) AS section_count").
		Order("created_at DESC").
		Scan(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// GetPageBySlug returns the page with its sections and their items, all in order.
func (s *Store) GetPageBySlug(slug string) (*models.Page, error) {
	var page models.Page
	err := s.db.Where("slug = ?", slug).
		Preload("Sections", ordered).
		Preload("Sections.Items", ordered).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: page %q", common.ErrNotFound, slug)
		}
		return nil, err
	}
	normalizePage(&page)
	return &page, nil
}

// ordered is the preload scope every child collection is read with.
func ordered(tx *gorm.DB) *gorm.DB {
	return tx.Order("sort_order ASC").Order("id ASC")
}

// normalizePage replaces nil child slices so JSON callers always see arrays.
func normalizePage(page *models.Page) {
	if page.Sections == nil {
		page.Sections = []models.Section{}
	}
	for i := range page.Sections {
		if page.Sections[i].Items == nil {
			page.Sections[i].Items = []models.SectionItem{}
		}
	}
}
