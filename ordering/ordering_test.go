package ordering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"compro/common"
	"compro/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true, DisableForeignKeyConstraintWhenMigrating: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Page{}, &models.Section{}))
	return db
}

func pageGroup(pageID string) Group[models.Section] {
	return NewGroup[models.Section]("sections:page="+pageID, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("page_id = ?", pageID)
	})
}

func createSection(t *testing.T, db *gorm.DB, pageID, id string, order int) {
	require.NoError(t, db.Create(&models.Section{ID: id, PageID: pageID, Type: models.SectionHero, Order: order}).Error)
}

func orderOf(t *testing.T, db *gorm.DB, id string) int {
	var s models.Section
	require.NoError(t, db.First(&s, "id = ?", id).Error)
	return s.Order
}

func memberIDs(t *testing.T, db *gorm.DB, g Group[models.Section]) []string {
	members, err := g.Members(db)
	require.NoError(t, err)
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection("up")
	assert.NoError(t, err)
	assert.Equal(t, Up, dir)

	dir, err = ParseDirection("down")
	assert.NoError(t, err)
	assert.Equal(t, Down, dir)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, common.ErrInvalid)
}

func TestAppendAtEnd(t *testing.T) {
	db := setupTestDB(t)
	g := pageGroup("p1")

	order, err := g.AppendAtEnd(db)
	require.NoError(t, err)
	assert.Equal(t, 1, order)

	createSection(t, db, "p1", "a", 1)
	createSection(t, db, "p1", "b", 4)
	createSection(t, db, "p2", "other", 9)

	order, err = g.AppendAtEnd(db)
	require.NoError(t, err)
	assert.Equal(t, 5, order)

	order, err = pageGroup("p2").AppendAtEnd(db)
	require.NoError(t, err)
	assert.Equal(t, 10, order)
}

func TestMembersSortedByOrder(t *testing.T) {
	db := setupTestDB(t)
	createSection(t, db, "p1", "c", 3)
	createSection(t, db, "p1", "a", 1)
	createSection(t, db, "p1", "b", 2)

	assert.Equal(t, []string{"a", "b", "c"}, memberIDs(t, db, pageGroup("p1")))
}

func TestMoveOneStep(t *testing.T) {
	db := setupTestDB(t)
	g := pageGroup("p1")
	createSection(t, db, "p1", "hero", 1)
	createSection(t, db, "p1", "stats", 2)
	createSection(t, db, "p1", "cta", 3)

	moved, err := g.MoveOneStep(db, "cta", Up)
	require.NoError(t, err)
	assert.True(t, moved)

	assert.Equal(t, []string{"hero", "cta", "stats"}, memberIDs(t, db, g))
	assert.Equal(t, 2, orderOf(t, db, "cta"))
	assert.Equal(t, 3, orderOf(t, db, "stats"))

	moved, err = g.MoveOneStep(db, "cta", Down)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []string{"hero", "stats", "cta"}, memberIDs(t, db, g))
}

func TestMoveOneStep_Boundaries(t *testing.T) {
	db := setupTestDB(t)
	g := pageGroup("p1")
	createSection(t, db, "p1", "first", 1)
	createSection(t, db, "p1", "last", 2)

	moved, err := g.MoveOneStep(db, "first", Up)
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = g.MoveOneStep(db, "last", Down)
	require.NoError(t, err)
	assert.False(t, moved)

	assert.Equal(t, 1, orderOf(t, db, "first"))
	assert.Equal(t, 2, orderOf(t, db, "last"))
}

func TestMoveOneStep_RepeatedUntilBoundary(t *testing.T) {
	db := setupTestDB(t)
	g := pageGroup("p1")
	createSection(t, db, "p1", "a", 1)
	createSection(t, db, "p1", "b", 2)
	createSection(t, db, "p1", "c", 3)

	for i := 0; i < 2; i++ {
		moved, err := g.MoveOneStep(db, "a", Down)
		require.NoError(t, err)
		assert.True(t, moved)
	}
	moved, err := g.MoveOneStep(db, "a", Down)
	require.NoError(t, err)
	assert.False(t, moved)

	assert.Equal(t, []string{"b", "c", "a"}, memberIDs(t, db, g))
	assert.NoError(t, g.Verify(db))
}

func TestMoveOneStep_UnknownMember(t *testing.T) {
	db := setupTestDB(t)
	createSection(t, db, "p1", "a", 1)
	createSection(t, db, "p2", "elsewhere", 1)

	_, err := pageGroup("p1").MoveOneStep(db, "missing", Up)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = pageGroup("p1").MoveOneStep(db, "elsewhere", Up)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSwapAdjacent_RollsBackWhenMemberVanished(t *testing.T) {
	db := setupTestDB(t)
	g := pageGroup("p1")
	createSection(t, db, "p1", "a", 1)

	a := models.Section{ID: "a", PageID: "p1", Order: 1}
	ghost := models.Section{ID: "ghost", PageID: "p1", Order: 7}

	err := g.SwapAdjacent(db, a, ghost)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 1, orderOf(t, db, "a"))
}

func TestVerify(t *testing.T) {
	db := setupTestDB(t)
	g := pageGroup("p1")
	createSection(t, db, "p1", "a", 1)
	createSection(t, db, "p1", "b", 2)
	assert.NoError(t, g.Verify(db))

	createSection(t, db, "p1", "c", 2)
	err := g.Verify(db)
	assert.ErrorIs(t, err, common.ErrIntegrity)
	assert.Contains(t, err.Error(), "sections:page=p1")
}

func TestEntries(t *testing.T) {
	entries := Entries([]models.Section{{ID: "a", Order: 3}, {ID: "b", Order: 1}})
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, 3, entries[0].Order)
	assert.Equal(t, "b", entries[1].ID)
}
