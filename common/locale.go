package common

import (
	"github.com/gin-gonic/gin"
)

const (
	LocaleID = "id"
	LocaleEN = "en"
)

var Locales = []string{LocaleID, LocaleEN}

func IsValidLocale(locale string) bool {
	for _, l := range Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// LocaleMiddleware stores locale in the context as "locale". Public routes
// are registered once per entry of Locales, so the value is always valid.
func LocaleMiddleware(locale string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("locale", locale)
		c.Next()
	}
}

// Locale returns the locale set by LocaleMiddleware.
func Locale(c *gin.Context) string {
	if v := c.GetString("locale"); v != "" {
		return v
	}
	return LocaleID
}

// HomeSlug is the page served at the locale root, e.g. /id.
const HomeSlug = "home"
