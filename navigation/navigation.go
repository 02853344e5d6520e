package navigation

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"compro/common"
	"compro/guard"
	"compro/models"
	"compro/ordering"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open resolves the navigation container by name. The container is seed
// data; a missing one is reported, never created.
func (s *Store) Open(name string) (*Tree, error) {
	var nav models.Navigation
	if err := s.db.Where("name = ?", name).First(&nav).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", common.ErrNavigationMissing, name)
		}
		return nil, err
	}
	return &Tree{db: s.db, Navigation: nav}, nil
}

// Tree is a handle on one navigation container. Every operation is scoped to it.
type Tree struct {
	db         *gorm.DB
	Navigation models.Navigation
}

type ItemInput struct {
	Label    string `form:"label" json:"label" binding:"required"`
	Href     string `form:"href" json:"href"`
	Type     string `form:"type" json:"type" binding:"required"`
	ParentID string `form:"parent_id" json:"parent_id"`
}

func (in ItemInput) validate() error {
	if strings.TrimSpace(in.Label) == "" {
		return fmt.Errorf("%w: label is required", common.ErrInvalid)
	}
	if !models.IsNavigationType(in.Type) {
		return fmt.Errorf("%w: unknown navigation type %q", common.ErrInvalid, in.Type)
	}
	return nil
}

func (t *Tree) group(parentID *string) ordering.Group[models.NavigationItem] {
	navID := t.Navigation.ID
	return ordering.NewGroup[models.NavigationItem](
		guard.NavigationGroupKey(navID, parentID),
		func(tx *gorm.DB) *gorm.DB {
			tx = tx.Where("navigation_id = ?", navID)
			if parentID == nil {
				return tx.Where("parent_id IS NULL")
			}
			return tx.Where("parent_id = ?", *parentID)
		},
	)
}

func orderedChildren(tx *gorm.DB) *gorm.DB {
	return tx.Order("sort_order ASC").Order("id ASC")
}

// ListTopLevel returns the top-level items in order, each with its children in order.
func (t *Tree) ListTopLevel() ([]models.NavigationItem, error) {
	items := []models.NavigationItem{}
	err := t.db.Where("navigation_id = ? AND parent_id IS NULL", t.Navigation.ID).
		Preload("Children", orderedChildren).
		Order("sort_order ASC").Order("id ASC").
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

func (t *Tree) get(tx *gorm.DB, id string) (*models.NavigationItem, error) {
	var item models.NavigationItem
	if err := tx.Where("id = ? AND navigation_id = ?", id, t.Navigation.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: navigation item %s", common.ErrNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}

// Get returns one item of this navigation.
func (t *Tree) Get(id string) (*models.NavigationItem, error) {
	return t.get(t.db, id)
}

// Create appends a new item at the end of its sibling group. A non-empty
// ParentID must name a top-level item of this navigation.
func (t *Tree) Create(in ItemInput) (*models.NavigationItem, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	parentID := models.NullString(in.ParentID)

	item := models.NavigationItem{
		NavigationID: t.Navigation.ID,
		ParentID:     parentID,
		Label:        in.Label,
		Href:         models.NullString(in.Href),
		Type:         in.Type,
	}

	err := t.db.Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			parent, err := t.get(tx, *parentID)
			if err != nil {
				return err
			}
			if parent.ParentID != nil {
				return fmt.Errorf("%w: %s is already a child item, nesting is limited to one level", common.ErrInvalid, parent.ID)
			}
		}

		group := t.group(parentID)
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
	item.Children = []models.NavigationItem{}
	return &item, nil
}

// Update replaces label, href and type. Order and parent never change here.
func (t *Tree) Update(id string, in ItemInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	result := t.db.Model(&models.NavigationItem{}).
		Where("id = ? AND navigation_id = ?", id, t.Navigation.ID).
		Updates(map[string]interface{}{
			"label": in.Label,
			"href":  models.NullString(in.Href),
			"type":  in.Type,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: navigation item %s", common.ErrNotFound, id)
	}
	return nil
}

// Delete removes the item and, for a top-level item, all of its children.
func (t *Tree) Delete(id string) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		item, err := t.get(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("parent_id = ? AND navigation_id = ?", item.ID, t.Navigation.ID).
			Delete(&models.NavigationItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.NavigationItem{}, "id = ?", item.ID).Error
	})
}

// Reorder moves the item one step within its sibling group. It returns false
// when the item is already at that boundary.
func (t *Tree) Reorder(id string, dir ordering.Direction) (bool, error) {
	var moved bool
	err := t.db.Transaction(func(tx *gorm.DB) error {
		item, err := t.get(tx, id)
		if err != nil {
			return err
		}
		moved, err = t.group(item.ParentID).MoveOneStep(tx, item.ID, dir)
		return err
	})
	return moved, err
}
