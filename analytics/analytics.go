package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"compro/common"
	"compro/models"
)

const (
	visitorCookie = "compro_visitor_id"
	// A visitor reloading the same page inside this window counts once.
	throttleWindow = 30 * time.Minute
)

type Module struct {
	db *gorm.DB
}

func NewModule(db *gorm.DB) *Module {
	if db == nil {
		log.Println("Analytics DB is nil, analytics will be disabled")
		return nil
	}
	return &Module{db: db}
}

// Middleware records a visit for every public page that renders with 200.
// Cache hits count too, so it must run before the cache middleware.
func (m *Module) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		// The cookie has to be set before the handler writes the response.
		visitorID := m.visitorID(c)
		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		slug := c.Param("slug")
		if slug == "" {
			slug = common.HomeSlug
		}
		m.TrackVisit(c, visitorID, slug, common.Locale(c))
	}
}

// TrackVisit stores one visit unless the same visitor saw the same page and
// locale within the throttle window.
func (m *Module) TrackVisit(c *gin.Context, visitorID, slug, locale string) {
	if m == nil {
		return
	}

	var recent models.Visit
	err := m.db.Where("visitor_id = ? AND page_slug = ? AND locale = ? AND created_at > ?",
		visitorID, slug, locale, time.Now().UTC().Add(-throttleWindow)).
		First(&recent).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking recent visit: %v", err)
		return
	}

	visit := models.Visit{
		PageSlug:  slug,
		Locale:    locale,
		VisitorID: visitorID,
		IP:        clientIP(c),
		Language:  extractLanguage(c.GetHeader("Accept-Language")),
		Browser:   extractBrowser(c.Request.UserAgent()),
		CreatedAt: time.Now().UTC(),
	}
	if err := m.db.Create(&visit).Error; err != nil {
		log.Printf("Error saving visit: %v", err)
	}
}

func (m *Module) visitorID(c *gin.Context) string {
	if cookie, err := c.Cookie(visitorCookie); err == nil && cookie != "" {
		return cookie
	}

	data := time.Now().String() + c.ClientIP() + c.Request.UserAgent()
	hash := sha256.Sum256([]byte(data))
	id := hex.EncodeToString(hash[:])

	c.SetCookie(visitorCookie, id, 60*60*24*365*2, "/", "", false, true)
	return id
}

// clientIP prefers proxy headers over the socket address.
func clientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := c.GetHeader("CF-Connecting-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func extractBrowser(userAgent string) *string {
	if userAgent == "" {
		return nil
	}

	ua := strings.ToLower(userAgent)
	var browser string

	// Order matters, Edge and Opera also announce Chrome.
	switch {
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "opr") || strings.Contains(ua, "opera"):
		browser = "Opera"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "msie") || strings.Contains(ua, "trident"):
		browser = "Internet Explorer"
	default:
		browser = "Other"
	}
	return &browser
}

// extractLanguage returns the first tag of an Accept-Language header,
// e.g. "id-ID" for "id-ID,id;q=0.9,en;q=0.8".
func extractLanguage(acceptLang string) *string {
	if acceptLang == "" {
		return nil
	}
	lang := strings.TrimSpace(strings.Split(acceptLang, ",")[0])
	lang = strings.Split(lang, ";")[0]
	if lang == "" {
		return nil
	}
	return &lang
}

type DayVisits struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type PageVisits struct {
	PageSlug string `json:"page_slug"`
	Count    int64  `json:"count"`
}

// VisitsByDay returns one entry per day for the last days days, oldest
// first, with zero counts for days without visits. Dates are UTC.
func (m *Module) VisitsByDay(days int) ([]DayVisits, error) {
	if m == nil || days <= 0 {
		return []DayVisits{}, nil
	}

	now := time.Now().UTC()
	start := now.AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	var rows []DayVisits
	err := m.db.Model(&models.Visit{}).
		Select("DATE(created_at) as date, COUNT(*) as count").
		Where("created_at >= ?", start).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Date] = r.Count
	}

	result := make([]DayVisits, days)
	for i := range result {
		date := now.AddDate(0, 0, -(days - 1 - i)).Format("2006-01-02")
		result[i] = DayVisits{Date: date, Count: counts[date]}
	}
	return result, nil
}

// TopPages returns the limit most visited pages of the last days days.
func (m *Module) TopPages(days, limit int) ([]PageVisits, error) {
	if m == nil {
		return []PageVisits{}, nil
	}

	rows := []PageVisits{}
	err := m.db.Model(&models.Visit{}).
		Select("page_slug, COUNT(*) as count").
		Where("created_at >= ?", time.Now().UTC().AddDate(0, 0, -days)).
		Group("page_slug").
		Order("count DESC").
		Order("page_slug ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
