package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compro/common"
	"compro/models"
)

func strPtr(s string) *string { return &s }

func validSnapshot() Snapshot {
	return Snapshot{
		Pages: []models.Page{{ID: "home", Slug: "home"}, {ID: "contact", Slug: "contact"}},
		Sections: []models.Section{
			{ID: "hero", PageID: "home", Order: 1},
			{ID: "stats", PageID: "home", Order: 2},
			{ID: "form", PageID: "contact", Order: 1},
		},
		Items: []models.SectionItem{
			{ID: "s1", SectionID: "stats", Order: 1},
			{ID: "s2", SectionID: "stats", Order: 2},
		},
		Navigations: []models.Navigation{{ID: "main", Name: "Main Navigation"}},
		NavItems: []models.NavigationItem{
			{ID: "produk", NavigationID: "main", Order: 1},
			{ID: "fitur", NavigationID: "main", Order: 2},
			{ID: "produk-1", NavigationID: "main", ParentID: strPtr("produk"), Order: 1},
			{ID: "produk-2", NavigationID: "main", ParentID: strPtr("produk"), Order: 2},
		},
	}
}

func TestCheckAll_Valid(t *testing.T) {
	assert.Empty(t, CheckAll(validSnapshot()))
	assert.NoError(t, Err(CheckAll(validSnapshot())))
}

func TestCheckSiblingOrdering(t *testing.T) {
	violations := CheckSiblingOrdering("g", []Entry{{ID: "a", Order: 1}, {ID: "b", Order: 2}, {ID: "c", Order: 1}})
	require.Len(t, violations, 1)
	assert.Equal(t, KindDuplicateOrder, violations[0].Kind)
	assert.Equal(t, "c", violations[0].ID)
	assert.Equal(t, "g", violations[0].Group)
}

func TestCheckOrdering_GroupsAreIndependent(t *testing.T) {
	s := validSnapshot()
	// Same order value in different groups is fine.
	s.Sections = append(s.Sections, models.Section{ID: "form2", PageID: "contact", Order: 2})
	assert.Empty(t, CheckOrdering(s))

	s.Items = append(s.Items, models.SectionItem{ID: "s3", SectionID: "stats", Order: 2})
	violations := CheckOrdering(s)
	require.Len(t, violations, 1)
	assert.Equal(t, ItemGroupKey("stats"), violations[0].Group)
}

func TestCheckOrdering_NavigationGroups(t *testing.T) {
	s := validSnapshot()
	s.NavItems = append(s.NavItems, models.NavigationItem{ID: "solusi", NavigationID: "main", Order: 2})
	violations := CheckOrdering(s)
	require.Len(t, violations, 1)
	assert.Equal(t, NavigationGroupKey("main", nil), violations[0].Group)
}

func TestCheckReferentialIntegrity(t *testing.T) {
	s := validSnapshot()
	s.Sections = append(s.Sections, models.Section{ID: "orphan", PageID: "gone", Order: 1})
	s.Items = append(s.Items, models.SectionItem{ID: "lost", SectionID: "gone", Order: 1})
	violations := CheckReferentialIntegrity(s)
	require.Len(t, violations, 2)
	assert.Equal(t, KindDanglingReference, violations[0].Kind)
	assert.Equal(t, "orphan", violations[0].ID)
	assert.Equal(t, "lost", violations[1].ID)
}

func TestCheckReferentialIntegrity_Navigation(t *testing.T) {
	tests := []struct {
		name string
		item models.NavigationItem
		kind string
	}{
		{"self parent", models.NavigationItem{ID: "x", NavigationID: "main", ParentID: strPtr("x")}, KindSelfReference},
		{"missing parent", models.NavigationItem{ID: "x", NavigationID: "main", ParentID: strPtr("nope")}, KindDanglingReference},
		{"grandchild", models.NavigationItem{ID: "x", NavigationID: "main", ParentID: strPtr("produk-1")}, KindNestingDepth},
		{"missing navigation", models.NavigationItem{ID: "x", NavigationID: "footer"}, KindDanglingReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnapshot()
			s.NavItems = append(s.NavItems, tt.item)
			violations := CheckReferentialIntegrity(s)
			require.Len(t, violations, 1)
			assert.Equal(t, tt.kind, violations[0].Kind)
			assert.Equal(t, "x", violations[0].ID)
		})
	}
}

func TestCheckReferentialIntegrity_ParentInOtherNavigation(t *testing.T) {
	s := validSnapshot()
	s.Navigations = append(s.Navigations, models.Navigation{ID: "footer", Name: "Footer"})
	s.NavItems = append(s.NavItems, models.NavigationItem{ID: "x", NavigationID: "footer", ParentID: strPtr("produk")})
	violations := CheckReferentialIntegrity(s)
	require.Len(t, violations, 1)
	assert.Equal(t, KindDanglingReference, violations[0].Kind)
}

func TestCheckSlugUniqueness(t *testing.T) {
	s := validSnapshot()
	s.Pages = append(s.Pages, models.Page{ID: "home2", Slug: "home"})
	violations := CheckSlugUniqueness(s)
	require.Len(t, violations, 1)
	assert.Equal(t, KindDuplicateSlug, violations[0].Kind)
	assert.Equal(t, "home2", violations[0].ID)
}

func TestErr(t *testing.T) {
	assert.NoError(t, Err(nil))

	err := Err([]Violation{{Kind: KindDuplicateOrder, Group: "g", ID: "a", Detail: "order 1 already used by b"}})
	assert.ErrorIs(t, err, common.ErrIntegrity)
	assert.Contains(t, err.Error(), "duplicate_order [g] a")
}

func TestGroupKeys(t *testing.T) {
	assert.Equal(t, "sections:page=home", SectionGroupKey("home"))
	assert.Equal(t, "items:section=hero", ItemGroupKey("hero"))
	assert.Equal(t, "navigation:main:top", NavigationGroupKey("main", nil))
	assert.Equal(t, "navigation:main:parent=produk", NavigationGroupKey("main", strPtr("produk")))
}
