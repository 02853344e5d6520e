package site

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"compro/analytics"
	"compro/cache"
	"compro/common"
	"compro/leads"
	"compro/query"
	"compro/settings"
)

var notFoundMessages = map[string]string{
	common.LocaleID: "Halaman tidak ditemukan",
	common.LocaleEN: "Page not found",
}

var contactThanks = map[string]string{
	common.LocaleID: "Terima kasih! Tim kami akan segera menghubungi Anda.",
	common.LocaleEN: "Thank you! Our team will contact you shortly.",
}

type Options struct {
	Domain         string
	NavigationName string
	DefaultLocale  string
	Cache          *cache.Store
	CacheMaxAge    time.Duration
}

type SiteModule struct {
	analytics *analytics.Module
	query     *query.Facade
	leads     *leads.Store
	settings  *settings.Store
	opts      Options
}

func NewSiteModule(db *gorm.DB, opts Options) *SiteModule {
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = common.LocaleID
	}
	return &SiteModule{
		analytics: analytics.NewModule(db),
		query:     query.NewFacade(db),
		leads:     leads.NewStore(db),
		settings:  settings.NewStore(db),
		opts:      opts,
	}
}

func (s *SiteModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/", s.index)
	router.GET("/sitemap.xml", s.sitemap)

	api := router.Group("/api")
	{
		api.GET("/navigation", s.navigation)
		api.POST("/contact", s.contact)
	}

	// One group per locale so unknown first segments fall through to 404.
	for _, locale := range common.Locales {
		pages := router.Group("/"+locale,
			common.LocaleMiddleware(locale),
			s.analytics.Middleware(),
		)
		if s.opts.Cache != nil {
			pages.Use(cache.Middleware(s.opts.Cache, s.opts.CacheMaxAge))
		}
		pages.GET("", s.home)
		pages.GET("/:slug", s.page)
	}
}

func (s *SiteModule) index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/"+s.opts.DefaultLocale)
}

func (s *SiteModule) home(c *gin.Context) {
	s.render(c, common.HomeSlug)
}

func (s *SiteModule) page(c *gin.Context) {
	s.render(c, c.Param("slug"))
}

func (s *SiteModule) render(c *gin.Context, slug string) {
	locale := common.Locale(c)

	page, found, err := s.query.GetFullPage(slug)
	if err != nil {
		log.Printf("load page %q: %v", slug, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"locale": locale,
			"error":  notFoundMessages[locale],
		})
		return
	}

	nav, err := s.query.GetFullNavigation(s.opts.NavigationName)
	if err != nil {
		log.Printf("load navigation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	setting, err := s.settings.Get()
	if err != nil {
		log.Printf("load settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locale":     locale,
		"page":       pageView(page),
		"navigation": navigationView(nav),
		"settings":   setting,
	})
}

func (s *SiteModule) navigation(c *gin.Context) {
	items, err := s.query.GetFullNavigation(s.opts.NavigationName)
	if err != nil {
		log.Printf("load navigation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, navigationView(items))
}

func (s *SiteModule) contact(c *gin.Context) {
	locale := c.Query("locale")
	if !common.IsValidLocale(locale) {
		locale = s.opts.DefaultLocale
	}

	var in leads.ContactInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if _, err := s.leads.Submit(in); err != nil {
		if errors.Is(err, common.ErrInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		log.Printf("store lead: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": contactThanks[locale]})
}

func (s *SiteModule) sitemap(c *gin.Context) {
	domain := strings.TrimSuffix(s.opts.Domain, "/")
	if domain == "" {
		domain = "http://localhost:8080"
	}

	pages, err := s.query.ListPages()
	if err != nil {
		log.Printf("load pages for sitemap: %v", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	var sitemap strings.Builder
	sitemap.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sitemap.WriteString("\n")
	sitemap.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	sitemap.WriteString("\n")

	for _, locale := range common.Locales {
		for _, page := range pages {
			loc := domain + "/" + locale
			priority := "1.0"
			if page.Slug != common.HomeSlug {
				loc += "/" + page.Slug
				priority = "0.8"
			}
			sitemap.WriteString("  <url>\n")
			sitemap.WriteString("    <loc>" + loc + "</loc>\n")
			sitemap.WriteString("    <lastmod>" + page.UpdatedAt.Format(time.RFC3339) + "</lastmod>\n")
			sitemap.WriteString("    <changefreq>weekly</changefreq>\n")
			sitemap.WriteString("    <priority>" + priority + "</priority>\n")
			sitemap.WriteString("  </url>\n")
		}
	}

	sitemap.WriteString("</urlset>\n")

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, sitemap.String())
}
