package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"compro/models"
	"compro/navigation"
	"compro/ordering"
)

// tree opens the configured navigation, writing the failure response when
// it does not exist.
func (a *AdminModule) tree(c *gin.Context) (*navigation.Tree, bool) {
	tree, err := a.navigation.Open(a.navigationName)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return tree, true
}

func (a *AdminModule) listNavigation(c *gin.Context) {
	tree, ok := a.tree(c)
	if !ok {
		return
	}
	items, err := tree.ListTopLevel()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"navigation": tree.Navigation,
		"items":      items,
		"types":      models.NavigationTypes,
	})
}

func (a *AdminModule) createNavigationItem(c *gin.Context) {
	tree, ok := a.tree(c)
	if !ok {
		return
	}
	var in navigation.ItemInput
	if !bindOrFail(c, &in) {
		return
	}
	item, err := tree.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

func (a *AdminModule) updateNavigationItem(c *gin.Context) {
	tree, ok := a.tree(c)
	if !ok {
		return
	}
	var in navigation.ItemInput
	if !bindOrFail(c, &in) {
		return
	}
	if err := tree.Update(c.Param("id"), in); err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) deleteNavigationItem(c *gin.Context) {
	tree, ok := a.tree(c)
	if !ok {
		return
	}
	if err := tree.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) moveNavigationItem(c *gin.Context) {
	tree, ok := a.tree(c)
	if !ok {
		return
	}
	a.move(c, func(id string, dir ordering.Direction) (bool, error) {
		return tree.Reorder(id, dir)
	})
}
