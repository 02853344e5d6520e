// Package ordering keeps a strict total order over the members of a sibling
// group (the sections of a page, the items of a section, the navigation items
// sharing a parent) using integer keys stored in the sort_order column.
//
// New members are always appended at the end and the only way to reorder is
// to swap two adjacent members.
package ordering

import (
	"fmt"

	"gorm.io/gorm"

	"compro/common"
	"compro/guard"
)

const column = "sort_order"

// Ranked is a row taking part in a sibling group.
type Ranked interface {
	RankID() string
	Rank() int
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", fmt.Errorf("%w: direction must be up or down, got %q", common.ErrInvalid, s)
}

// Scope narrows a query to one sibling group.
type Scope func(tx *gorm.DB) *gorm.DB

// Group is one sibling group of T rows. Key names the group in integrity
// reports, e.g. "sections:page=home".
type Group[T Ranked] struct {
	Key   string
	scope Scope
}

func NewGroup[T Ranked](key string, scope Scope) Group[T] {
	return Group[T]{Key: key, scope: scope}
}

func (g Group[T]) query(tx *gorm.DB) *gorm.DB {
	var zero T
	return g.scope(tx.Model(&zero))
}

// Members returns the group sorted ascending by order, ties broken by id.
func (g Group[T]) Members(tx *gorm.DB) ([]T, error) {
	var members []T
	if err := g.query(tx).Order(column + " ASC").Order("id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// AppendAtEnd returns the order a new member must take to sort last:
// max(order)+1, or 1 for an empty group.
func (g Group[T]) AppendAtEnd(tx *gorm.DB) (int, error) {
	var max int
	err := g.query(tx).Select("COALESCE(MAX(" + column + "), 0)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// SwapAdjacent exchanges the order values of a and b. Both updates commit
// together or not at all.
func (g Group[T]) SwapAdjacent(tx *gorm.DB, a, b T) error {
	return tx.Transaction(func(tx *gorm.DB) error {
		if err := g.setOrder(tx, a.RankID(), b.Rank()); err != nil {
			return err
		}
		if err := g.setOrder(tx, b.RankID(), a.Rank()); err != nil {
			return err
		}
		return g.Verify(tx)
	})
}

func (g Group[T]) setOrder(tx *gorm.DB, id string, order int) error {
	result := g.query(tx).Where("id = ?", id).Update(column, order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("%w: %s member %s vanished during swap", common.ErrNotFound, g.Key, id)
	}
	return nil
}

// MoveOneStep swaps the member with its neighbour in the given direction.
// It reports false without error when the member is already first (up) or
// last (down).
func (g Group[T]) MoveOneStep(tx *gorm.DB, id string, dir Direction) (bool, error) {
	members, err := g.Members(tx)
	if err != nil {
		return false, err
	}

	current := -1
	for i, m := range members {
		if m.RankID() == id {
			current = i
			break
		}
	}
	if current < 0 {
		return false, fmt.Errorf("%w: %s has no member %s", common.ErrNotFound, g.Key, id)
	}

	target := current + 1
	if dir == Up {
		target = current - 1
	}
	if target < 0 || target >= len(members) {
		return false, nil
	}

	if err := g.SwapAdjacent(tx, members[current], members[target]); err != nil {
		return false, err
	}
	return true, nil
}

// Verify runs the sibling ordering check on the group's current state.
func (g Group[T]) Verify(tx *gorm.DB) error {
	members, err := g.Members(tx)
	if err != nil {
		return err
	}
	return guard.Err(guard.CheckSiblingOrdering(g.Key, Entries(members)))
}

// Entries converts ranked rows into guard entries.
func Entries[T Ranked](members []T) []guard.Entry {
	entries := make([]guard.Entry, len(members))
	for i, m := range members {
		entries[i] = guard.Entry{ID: m.RankID(), Order: m.Rank()}
	}
	return entries
}
