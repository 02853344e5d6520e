// Package guard checks the content invariants: distinct order values per
// sibling group, no dangling parent references, navigation depth of at most
// one level and globally unique page slugs.
//
// The checks are pure functions over a Snapshot so tests can run them
// without a live transaction.
package guard

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"compro/common"
	"compro/models"
)

const (
	KindDuplicateOrder    = "duplicate_order"
	KindDanglingReference = "dangling_reference"
	KindNestingDepth      = "nesting_depth"
	KindSelfReference     = "self_reference"
	KindDuplicateSlug     = "duplicate_slug"
)

// Entry is one member of a sibling group.
type Entry struct {
	ID    string
	Order int
}

type Violation struct {
	Kind   string `json:"kind"`
	Group  string `json:"group,omitempty"`
	ID     string `json:"id"`
	Detail string `json:"detail"`
}

func (v Violation) String() string {
	if v.Group != "" {
		return fmt.Sprintf("%s [%s] %s: %s", v.Kind, v.Group, v.ID, v.Detail)
	}
	return fmt.Sprintf("%s %s: %s", v.Kind, v.ID, v.Detail)
}

// Snapshot is the persisted content state the checks run against.
type Snapshot struct {
	Pages       []models.Page
	Sections    []models.Section
	Items       []models.SectionItem
	Navigations []models.Navigation
	NavItems    []models.NavigationItem
}

// LoadSnapshot reads every content table.
func LoadSnapshot(db *gorm.DB) (Snapshot, error) {
	var s Snapshot
	loads := []struct {
		name string
		dest interface{}
	}{
		{"pages", &s.Pages},
		{"sections", &s.Sections},
		{"section items", &s.Items},
		{"navigations", &s.Navigations},
		{"navigation items", &s.NavItems},
	}
	for _, l := range loads {
		if err := db.Find(l.dest).Error; err != nil {
			return Snapshot{}, fmt.Errorf("load %s: %w", l.name, err)
		}
	}
	return s, nil
}

// CheckSiblingOrdering flags every member whose order value is already used
// by an earlier member of the same group.
func CheckSiblingOrdering(group string, members []Entry) []Violation {
	var violations []Violation
	seen := make(map[int]string, len(members))
	for _, m := range members {
		if first, ok := seen[m.Order]; ok {
			violations = append(violations, Violation{
				Kind:   KindDuplicateOrder,
				Group:  group,
				ID:     m.ID,
				Detail: fmt.Sprintf("order %d already used by %s", m.Order, first),
			})
			continue
		}
		seen[m.Order] = m.ID
	}
	return violations
}

// CheckOrdering runs CheckSiblingOrdering over every sibling group in s.
func CheckOrdering(s Snapshot) []Violation {
	groups := map[string][]Entry{}
	for _, sec := range s.Sections {
		key := SectionGroupKey(sec.PageID)
		groups[key] = append(groups[key], Entry{ID: sec.ID, Order: sec.Order})
	}
	for _, it := range s.Items {
		key := ItemGroupKey(it.SectionID)
		groups[key] = append(groups[key], Entry{ID: it.ID, Order: it.Order})
	}
	for _, n := range s.NavItems {
		key := NavigationGroupKey(n.NavigationID, n.ParentID)
		groups[key] = append(groups[key], Entry{ID: n.ID, Order: n.Order})
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var violations []Violation
	for _, k := range keys {
		members := groups[k]
		sort.SliceStable(members, func(i, j int) bool { return members[i].ID < members[j].ID })
		violations = append(violations, CheckSiblingOrdering(k, members)...)
	}
	return violations
}

// CheckReferentialIntegrity flags sections without a page, items without a
// section, navigation items without a navigation, and child navigation items
// whose parent is missing, lives in another navigation, is itself a child,
// or is the item itself.
func CheckReferentialIntegrity(s Snapshot) []Violation {
	var violations []Violation

	pages := make(map[string]bool, len(s.Pages))
	for _, p := range s.Pages {
		pages[p.ID] = true
	}
	sections := make(map[string]bool, len(s.Sections))
	for _, sec := range s.Sections {
		sections[sec.ID] = true
		if !pages[sec.PageID] {
			violations = append(violations, Violation{
				Kind:   KindDanglingReference,
				ID:     sec.ID,
				Detail: fmt.Sprintf("section references missing page %s", sec.PageID),
			})
		}
	}
	for _, it := range s.Items {
		if !sections[it.SectionID] {
			violations = append(violations, Violation{
				Kind:   KindDanglingReference,
				ID:     it.ID,
				Detail: fmt.Sprintf("item references missing section %s", it.SectionID),
			})
		}
	}

	navs := make(map[string]bool, len(s.Navigations))
	for _, n := range s.Navigations {
		navs[n.ID] = true
	}
	byID := make(map[string]models.NavigationItem, len(s.NavItems))
	for _, n := range s.NavItems {
		byID[n.ID] = n
	}
	for _, n := range s.NavItems {
		if !navs[n.NavigationID] {
			violations = append(violations, Violation{
				Kind:   KindDanglingReference,
				ID:     n.ID,
				Detail: fmt.Sprintf("navigation item references missing navigation %s", n.NavigationID),
			})
		}
		if n.ParentID == nil {
			continue
		}
		if *n.ParentID == n.ID {
			violations = append(violations, Violation{
				Kind:   KindSelfReference,
				ID:     n.ID,
				Detail: "navigation item is its own parent",
			})
			continue
		}
		parent, ok := byID[*n.ParentID]
		switch {
		case !ok:
			violations = append(violations, Violation{
				Kind:   KindDanglingReference,
				ID:     n.ID,
				Detail: fmt.Sprintf("navigation item references missing parent %s", *n.ParentID),
			})
		case parent.NavigationID != n.NavigationID:
			violations = append(violations, Violation{
				Kind:   KindDanglingReference,
				ID:     n.ID,
				Detail: fmt.Sprintf("parent %s belongs to navigation %s", parent.ID, parent.NavigationID),
			})
		case parent.ParentID != nil:
			violations = append(violations, Violation{
				Kind:   KindNestingDepth,
				ID:     n.ID,
				Detail: fmt.Sprintf("parent %s is not a top-level item", parent.ID),
			})
		}
	}
	return violations
}

// CheckSlugUniqueness flags every page reusing the slug of another page.
func CheckSlugUniqueness(s Snapshot) []Violation {
	var violations []Violation
	seen := make(map[string]string, len(s.Pages))
	for _, p := range s.Pages {
		if first, ok := seen[p.Slug]; ok {
			violations = append(violations, Violation{
				Kind:   KindDuplicateSlug,
				ID:     p.ID,
				Detail: fmt.Sprintf("slug %q already used by page %s", p.Slug, first),
			})
			continue
		}
		seen[p.Slug] = p.ID
	}
	return violations
}

func CheckAll(s Snapshot) []Violation {
	var violations []Violation
	violations = append(violations, CheckOrdering(s)...)
	violations = append(violations, CheckReferentialIntegrity(s)...)
	violations = append(violations, CheckSlugUniqueness(s)...)
	return violations
}

// Err wraps violations in common.ErrIntegrity, or returns nil when there are none.
func Err(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return fmt.Errorf("%w: %s", common.ErrIntegrity, strings.Join(parts, "; "))
}

func SectionGroupKey(pageID string) string {
	return "sections:page=" + pageID
}

func ItemGroupKey(sectionID string) string {
	return "items:section=" + sectionID
}

func NavigationGroupKey(navigationID string, parentID *string) string {
	if parentID == nil {
		return "navigation:" + navigationID + ":top"
	}
	return "navigation:" + navigationID + ":parent=" + *parentID
}
