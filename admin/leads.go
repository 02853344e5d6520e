package admin

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"compro/guard"
	"compro/settings"
)

func (a *AdminModule) listLeads(c *gin.Context) {
	leads, err := a.leads.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "leads": leads})
}

func (a *AdminModule) exportLeads(c *gin.Context) {
	var buf bytes.Buffer
	if err := a.leads.ExportCSV(&buf); err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("leads-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (a *AdminModule) deleteLead(c *gin.Context) {
	if err := a.leads.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (a *AdminModule) getSettings(c *gin.Context) {
	setting, err := a.settings.Get()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": setting})
}

func (a *AdminModule) updateSettings(c *gin.Context) {
	var in settings.Input
	if !bindOrFail(c, &in) {
		return
	}
	setting, err := a.settings.Update(in)
	if err != nil {
		respondError(c, err)
		return
	}
	a.revalidate()
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": setting})
}

// visits reports page views per day and the most visited pages over the
// last ?days=N days (default 30).
func (a *AdminModule) visits(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "days must be between 1 and 365"})
		return
	}

	byDay, err := a.analytics.VisitsByDay(days)
	if err != nil {
		respondError(c, err)
		return
	}
	top, err := a.analytics.TopPages(days, 10)
	if err != nil {
		respondError(c, err)
		return
	}

	var total int64
	for _, d := range byDay {
		total += d.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"days":      byDay,
		"top_pages": top,
		"total":     total,
	})
}

// integrity reports every invariant violation in the stored content.
func (a *AdminModule) integrity(c *gin.Context) {
	snapshot, err := guard.LoadSnapshot(a.db)
	if err != nil {
		respondError(c, err)
		return
	}
	violations := guard.CheckAll(snapshot)
	if violations == nil {
		violations = []guard.Violation{}
	}
	c.JSON(http.StatusOK, gin.H{"success": len(violations) == 0, "violations": violations})
}
