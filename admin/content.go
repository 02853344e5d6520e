package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"compro/content"
	"compro/models"
	"compro/ordering"
)

type moveInput struct {
	Direction string `form:"direction" json:"direction" binding:"required"`
}

// move parses the direction and runs fn. A move at the boundary is reported
// with success false and leaves the data as it was.
func (a *AdminModule) move(c *gin.Context, fn func(id string, dir ordering.Direction) (bool, error)) {
	var in moveInput
	if !bindOrFail(c, &in) {
		return
	}
	dir, err := ordering.ParseDirection(in.Direction)
	if err != nil {
		respondError(c, err)
		return
	}

	moved, err := fn(c.Param("id"), dir)
	if err != nil {
		respondError(c, err)
		return
	}
	if !moved {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Already at the " + boundaryName(dir)})
		return
	}

	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func boundaryName(dir ordering.Direction) string {
	if dir == ordering.Up {
		return "top"
	}
	return "bottom"
}

func (a *AdminModule) listPages(c *gin.Context) {
	pages, err := a.content.ListPages()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pages": pages})
}

func (a *AdminModule) createPage(c *gin.Context) {
	var in content.PageInput
	if !bindOrFail(c, &in) {
		return
	}
	page, err := a.content.CreatePage(in)
	if err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusCreated, gin.H{"success": true, "page": page})
}

func (a *AdminModule) updatePage(c *gin.Context) {
	var in content.PageInput
	if !bindOrFail(c, &in) {
		return
	}
	if err := a.content.UpdatePage(c.Param("id"), in); err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) deletePage(c *gin.Context) {
	if err := a.content.DeletePage(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) listSections(c *gin.Context) {
	pageID := c.Param("id")
	page, err := a.content.GetPage(pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	sections, err := a.content.GetSections(pageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"page":          page,
		"sections":      sections,
		"section_types": models.SectionTypes,
	})
}

func (a *AdminModule) createSection(c *gin.Context) {
	var in content.SectionInput
	if !bindOrFail(c, &in) {
		return
	}
	section, err := a.content.CreateSection(c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusCreated, gin.H{"success": true, "section": section})
}

func (a *AdminModule) getSection(c *gin.Context) {
	section, err := a.content.GetSectionWithItems(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "section": section})
}

func (a *AdminModule) updateSection(c *gin.Context) {
	var in content.SectionInput
	if !bindOrFail(c, &in) {
		return
	}
	if err := a.content.UpdateSection(c.Param("id"), in); err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) deleteSection(c *gin.Context) {
	if err := a.content.DeleteSection(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) moveSection(c *gin.Context) {
	a.move(c, a.content.ReorderSection)
}

func (a *AdminModule) createItem(c *gin.Context) {
	var in content.ItemInput
	if !bindOrFail(c, &in) {
		return
	}
	item, err := a.content.CreateItem(c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

func (a *AdminModule) updateItem(c *gin.Context) {
	var in content.ItemInput
	if !bindOrFail(c, &in) {
		return
	}
	if err := a.content.UpdateItem(c.Param("id"), in); err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) deleteItem(c *gin.Context) {
	if err := a.content.DeleteItem(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) moveItem(c *gin.Context) {
	a.move(c, a.content.ReorderItem)
}
