package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"compro/analytics"
	"compro/cache"
	"compro/common"
	"compro/content"
	"compro/leads"
	"compro/models"
	"compro/navigation"
	"compro/settings"
)

type AdminModule struct {
	db             *gorm.DB
	analytics      *analytics.Module
	content        *content.Store
	navigation     *navigation.Store
	leads          *leads.Store
	settings       *settings.Store
	cache          *cache.Store
	navigationName string
}

func NewAdminModule(db *gorm.DB, cacheStore *cache.Store, navigationName string) *AdminModule {
	return &AdminModule{
		db:             db,
		analytics:      analytics.NewModule(db),
		content:        content.NewStore(db),
		navigation:     navigation.NewStore(db),
		leads:          leads.NewStore(db),
		settings:       settings.NewStore(db),
		cache:          cacheStore,
		navigationName: navigationName,
	}
}

func (a *AdminModule) RegisterRoutes(router *gin.Engine) {
	router.POST("/admin/login", a.loginPost)
	router.GET("/admin/logout", a.logout)

	adminGroup := router.Group("/admin")
	adminGroup.Use(a.requireAuth)
	{
		adminGroup.GET("/pages", a.listPages)
		adminGroup.POST("/pages", a.createPage)
		adminGroup.POST("/pages/:id", a.updatePage)
		adminGroup.DELETE("/pages/:id", a.deletePage)
		adminGroup.GET("/pages/:id/sections", a.listSections)
		adminGroup.POST("/pages/:id/sections", a.createSection)

		adminGroup.GET("/sections/:id", a.getSection)
		adminGroup.POST("/sections/:id", a.updateSection)
		adminGroup.DELETE("/sections/:id", a.deleteSection)
		adminGroup.POST("/sections/:id/move", a.moveSection)
		adminGroup.POST("/sections/:id/items", a.createItem)

		adminGroup.POST("/items/:id", a.updateItem)
		adminGroup.DELETE("/items/:id", a.deleteItem)
		adminGroup.POST("/items/:id/move", a.moveItem)

		adminGroup.GET("/navigation", a.listNavigation)
		adminGroup.POST("/navigation", a.createNavigationItem)
		adminGroup.POST("/navigation/:id", a.updateNavigationItem)
		adminGroup.DELETE("/navigation/:id", a.deleteNavigationItem)
		adminGroup.POST("/navigation/:id/move", a.moveNavigationItem)

		adminGroup.GET("/leads", a.listLeads)
		adminGroup.GET("/leads/export", a.exportLeads)
		adminGroup.DELETE("/leads/:id", a.deleteLead)

		adminGroup.GET("/settings", a.getSettings)
		adminGroup.POST("/settings", a.updateSettings)

		adminGroup.GET("/visits", a.visits)
		adminGroup.GET("/integrity", a.integrity)
	}
}

func (a *AdminModule) requireAuth(c *gin.Context) {
	session := sessions.Default(c)
	userID := session.Get("user_id")

	if userID == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	c.Set("user_id", userID)
	c.Next()
}

type loginInput struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (a *AdminModule) loginPost(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", in.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	if !checkPasswordHash(in.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		log.Printf("save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (a *AdminModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// respondError maps store errors onto the admin response shape.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrSlugConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Slug already in use"})
	case errors.Is(err, common.ErrNavigationMissing):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Navigation not found"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, common.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, common.ErrIntegrity):
		log.Printf("integrity violation, transaction rolled back: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Integrity check failed"})
	default:
		log.Printf("admin request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal error"})
	}
}

// revalidate drops rendered public pages after a content change.
func (a *AdminModule) revalidate() {
	if a.cache == nil {
		return
	}
	if err := a.cache.ClearAll(); err != nil {
		log.Printf("clear page cache: %v", err)
	}
}

// bindOrFail binds the request into dst, writing a 400 on failure.
func bindOrFail(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBind(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return false
	}
	return true
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
