package content

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"compro/common"
	"compro/guard"
	"compro/models"
	"compro/ordering"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Page{}, &models.Section{}, &models.SectionItem{},
		&models.Navigation{}, &models.NavigationItem{}))
	return db
}

func assertConsistent(t *testing.T, db *gorm.DB) {
	snapshot, err := guard.LoadSnapshot(db)
	require.NoError(t, err)
	assert.Empty(t, guard.CheckAll(snapshot))
}

func sectionTypes(sections []models.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Type
	}
	return out
}

// orders renders sections as "type:order" in their stored order.
func orders(sections []models.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = fmt.Sprintf("%s:%d", s.Type, s.Order)
	}
	return out
}

func TestCreatePage(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	page, err := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})
	require.NoError(t, err)
	assert.NotEmpty(t, page.ID)
	assert.Equal(t, "home", page.Slug)

	got, err := store.GetPage(page.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beranda", got.Title)
}

func TestCreatePage_SlugConflict(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	first, err := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})
	require.NoError(t, err)

	_, err = store.CreatePage(PageInput{Slug: "home", Title: "Other"})
	assert.ErrorIs(t, err, common.ErrSlugConflict)

	got, err := store.GetPage(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beranda", got.Title)

	var count int64
	db.Model(&models.Page{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreatePage_InvalidSlug(t *testing.T) {
	store := NewStore(setupTestDB(t))

	for _, slug := range []string{"", "Home", "about us", "über"} {
		_, err := store.CreatePage(PageInput{Slug: slug, Title: "x"})
		assert.ErrorIs(t, err, common.ErrInvalid, slug)
	}
	_, err := store.CreatePage(PageInput{Slug: "about-us-2", Title: " "})
	assert.ErrorIs(t, err, common.ErrInvalid)
}

func TestUpdatePage(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})
	contact, _ := store.CreatePage(PageInput{Slug: "contact", Title: "Kontak"})

	require.NoError(t, store.UpdatePage(home.ID, PageInput{Slug: "home", Title: "Home"}))
	got, _ := store.GetPage(home.ID)
	assert.Equal(t, "Home", got.Title)

	err := store.UpdatePage(contact.ID, PageInput{Slug: "home", Title: "Kontak"})
	assert.ErrorIs(t, err, common.ErrSlugConflict)

	err = store.UpdatePage("missing", PageInput{Slug: "x", Title: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListPages(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})
	_, _ = store.CreatePage(PageInput{Slug: "contact", Title: "Kontak"})
	_, err := store.CreateSection(home.ID, SectionInput{Type: models.SectionHero})
	require.NoError(t, err)
	_, err = store.CreateSection(home.ID, SectionInput{Type: models.SectionCTA})
	require.NoError(t, err)

	pages, err := store.ListPages()
	require.NoError(t, err)
	require.Len(t, pages, 2)

	counts := map[string]int64{}
	for _, p := range pages {
		counts[p.Slug] = p.SectionCount
	}
	assert.Equal(t, int64(2), counts["home"])
	assert.Equal(t, int64(0), counts["contact"])
}

func TestSections_AppendAndReorder(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	home, err := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})
	require.NoError(t, err)

	hero, err := store.CreateSection(home.ID, SectionInput{Type: models.SectionHero, Heading: "Kelola SDM"})
	require.NoError(t, err)
	stats, err := store.CreateSection(home.ID, SectionInput{Type: models.SectionStats})
	require.NoError(t, err)
	cta, err := store.CreateSection(home.ID, SectionInput{Type: models.SectionCTA})
	require.NoError(t, err)

	assert.Equal(t, 1, hero.Order)
	assert.Equal(t, 2, stats.Order)
	assert.Equal(t, 3, cta.Order)

	moved, err := store.ReorderSection(cta.ID, ordering.Up)
	require.NoError(t, err)
	assert.True(t, moved)

	page, err := store.GetPageBySlug("home")
	require.NoError(t, err)
	assert.Equal(t, []string{models.SectionHero, models.SectionCTA, models.SectionStats}, sectionTypes(page.Sections))

	moved, err = store.ReorderSection(hero.ID, ordering.Up)
	require.NoError(t, err)
	assert.False(t, moved)

	sections, err := store.GetSections(home.ID)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, hero.ID, sections[0].ID)
	assertConsistent(t, db)
}

func TestReorderSection_SwapsOrderValues(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})

	hero, _ := store.CreateSection(home.ID, SectionInput{Type: models.SectionHero})
	stats, _ := store.CreateSection(home.ID, SectionInput{Type: models.SectionStats})
	_, _ = store.CreateSection(home.ID, SectionInput{Type: models.SectionCTA})

	moved, err := store.ReorderSection(stats.ID, ordering.Up)
	require.NoError(t, err)
	assert.True(t, moved)
	page, err := store.GetPageBySlug("home")
	require.NoError(t, err)
	assert.Equal(t, []string{"stats:1", "hero:2", "cta:3"}, orders(page.Sections))

	moved, err = store.ReorderSection(hero.ID, ordering.Up)
	require.NoError(t, err)
	assert.True(t, moved)
	page, err = store.GetPageBySlug("home")
	require.NoError(t, err)
	assert.Equal(t, []string{"hero:1", "stats:2", "cta:3"}, orders(page.Sections))
	assertConsistent(t, db)
}

func TestSections_MixedSequenceKeepsOrderUnique(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})

	ids := map[string]string{}
	create := func(typ string) func() error {
		return func() error {
			sec, err := store.CreateSection(home.ID, SectionInput{Type: typ})
			if err == nil {
				ids[typ] = sec.ID
			}
			return err
		}
	}
	remove := func(typ string) func() error {
		return func() error { return store.DeleteSection(ids[typ]) }
	}
	move := func(typ string, dir ordering.Direction) func() error {
		return func() error {
			_, err := store.ReorderSection(ids[typ], dir)
			return err
		}
	}

	steps := []struct {
		name string
		run  func() error
		want []string
	}{
		{"create hero", create(models.SectionHero), []string{"hero"}},
		{"create stats", create(models.SectionStats), []string{"hero", "stats"}},
		{"create cta", create(models.SectionCTA), []string{"hero", "stats", "cta"}},
		{"cta up", move(models.SectionCTA, ordering.Up), []string{"hero", "cta", "stats"}},
		{"delete hero", remove(models.SectionHero), []string{"cta", "stats"}},
		{"create features", create(models.SectionFeatures), []string{"cta", "stats", "features"}},
		{"cta down", move(models.SectionCTA, ordering.Down), []string{"stats", "cta", "features"}},
		{"features down at bottom", move(models.SectionFeatures, ordering.Down), []string{"stats", "cta", "features"}},
		{"delete cta", remove(models.SectionCTA), []string{"stats", "features"}},
		{"create testimonials", create(models.SectionTestimonials), []string{"stats", "features", "testimonials"}},
		{"testimonials up", move(models.SectionTestimonials, ordering.Up), []string{"stats", "testimonials", "features"}},
		{"testimonials up again", move(models.SectionTestimonials, ordering.Up), []string{"testimonials", "stats", "features"}},
		{"testimonials up at top", move(models.SectionTestimonials, ordering.Up), []string{"testimonials", "stats", "features"}},
	}

	for _, step := range steps {
		require.NoError(t, step.run(), step.name)

		page, err := store.GetPageBySlug("home")
		require.NoError(t, err, step.name)
		assert.Equal(t, step.want, sectionTypes(page.Sections), step.name)
		for i := 1; i < len(page.Sections); i++ {
			assert.Less(t, page.Sections[i-1].Order, page.Sections[i].Order, step.name)
		}
		assertConsistent(t, db)
	}
}

func TestCreateSection_Validation(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})

	_, err := store.CreateSection(home.ID, SectionInput{Type: "carousel"})
	assert.ErrorIs(t, err, common.ErrInvalid)

	_, err = store.CreateSection("missing", SectionInput{Type: models.SectionHero})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateSection_ReplacesAllFields(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})

	hero, err := store.CreateSection(home.ID, SectionInput{
		Type:            models.SectionHero,
		Heading:         "Kelola SDM",
		Subheading:      "Platform HRIS",
		CTAPrimaryLabel: "Hubungi Kami",
		CTAPrimaryHref:  "/contact",
	})
	require.NoError(t, err)

	require.NoError(t, store.UpdateSection(hero.ID, SectionInput{Type: models.SectionHero, Heading: "Baru"}))

	got, err := store.GetSectionWithItems(hero.ID)
	require.NoError(t, err)
	assert.Equal(t, "Baru", models.Deref(got.Heading))
	assert.Nil(t, got.Subheading)
	assert.Nil(t, got.CTAPrimaryLabel)
	assert.Nil(t, got.CTAPrimaryHref)
	assert.Equal(t, hero.Order, got.Order)
	assert.Equal(t, home.ID, got.PageID)
	require.NotNil(t, got.Page)
	assert.Equal(t, "home", got.Page.Slug)

	err = store.UpdateSection("missing", SectionInput{Type: models.SectionHero})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestItems_AppendUpdateReorder(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})
	stats, _ := store.CreateSection(home.ID, SectionInput{Type: models.SectionStats})

	var ids []string
	for _, v := range []string{"500+", "1M+", "99.9%"} {
		item, err := store.CreateItem(stats.ID, ItemInput{Title: v, Subtitle: "label"})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}

	moved, err := store.ReorderItem(ids[2], ordering.Up)
	require.NoError(t, err)
	assert.True(t, moved)
	moved, err = store.ReorderItem(ids[2], ordering.Up)
	require.NoError(t, err)
	assert.True(t, moved)
	moved, err = store.ReorderItem(ids[2], ordering.Up)
	require.NoError(t, err)
	assert.False(t, moved)

	require.NoError(t, store.UpdateItem(ids[0], ItemInput{Title: "600+"}))

	section, err := store.GetSectionWithItems(stats.ID)
	require.NoError(t, err)
	require.Len(t, section.Items, 3)
	assert.Equal(t, "99.9%", models.Deref(section.Items[0].Title))
	assert.Equal(t, "600+", models.Deref(section.Items[1].Title))
	assert.Nil(t, section.Items[1].Subtitle)
	assert.Equal(t, "1M+", models.Deref(section.Items[2].Title))

	_, err = store.CreateItem("missing", ItemInput{Title: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, store.UpdateItem("missing", ItemInput{}), common.ErrNotFound)
	assertConsistent(t, db)
}

func TestDeleteItem(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})
	stats, _ := store.CreateSection(home.ID, SectionInput{Type: models.SectionStats})
	a, _ := store.CreateItem(stats.ID, ItemInput{Title: "a"})
	b, _ := store.CreateItem(stats.ID, ItemInput{Title: "b"})

	require.NoError(t, store.DeleteItem(a.ID))
	assert.ErrorIs(t, store.DeleteItem(a.ID), common.ErrNotFound)

	// New items still go after the highest remaining order.
	c, err := store.CreateItem(stats.ID, ItemInput{Title: "c"})
	require.NoError(t, err)
	assert.Greater(t, c.Order, b.Order)
}

func TestDeletePage_Cascades(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})
	contact, _ := store.CreatePage(PageInput{Slug: "contact", Title: "Kontak"})
	for _, typ := range []string{models.SectionFeatures, models.SectionTestimonials} {
		section, err := store.CreateSection(home.ID, SectionInput{Type: typ})
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			_, err := store.CreateItem(section.ID, ItemInput{Title: "item"})
			require.NoError(t, err)
		}
	}
	kept, _ := store.CreateSection(contact.ID, SectionInput{Type: models.SectionCTA})
	_, _ = store.CreateItem(kept.ID, ItemInput{Title: "stay"})

	require.NoError(t, store.DeletePage(home.ID))

	var sections, items int64
	db.Model(&models.Section{}).Count(&sections)
	db.Model(&models.SectionItem{}).Count(&items)
	assert.Equal(t, int64(1), sections)
	assert.Equal(t, int64(1), items)

	_, err := store.GetPageBySlug("home")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, store.DeletePage(home.ID), common.ErrNotFound)
	assertConsistent(t, db)
}

func TestDeleteSection_Cascades(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	home, _ := store.CreatePage(PageInput{Slug: "home", Title: "Beranda"})
	features, _ := store.CreateSection(home.ID, SectionInput{Type: models.SectionFeatures})
	cta, _ := store.CreateSection(home.ID, SectionInput{Type: models.SectionCTA})
	_, _ = store.CreateItem(features.ID, ItemInput{Title: "HRIS Core"})
	_, _ = store.CreateItem(features.ID, ItemInput{Title: "Payroll"})

	require.NoError(t, store.DeleteSection(features.ID))

	var items int64
	db.Model(&models.SectionItem{}).Count(&items)
	assert.Zero(t, items)

	page, err := store.GetPageBySlug("home")
	require.NoError(t, err)
	require.Len(t, page.Sections, 1)
	assert.Equal(t, cta.ID, page.Sections[0].ID)
	assert.NotNil(t, page.Sections[0].Items)

	assert.ErrorIs(t, store.DeleteSection(features.ID), common.ErrNotFound)
}

func TestReorderSection_Missing(t *testing.T) {
	store := NewStore(setupTestDB(t))
	_, err := store.ReorderSection("missing", ordering.Down)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = store.ReorderItem("missing", ordering.Down)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
