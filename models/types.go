package models

// Section types. The set is closed at runtime; add an entry here to extend it.
const (
	SectionHero         = "hero"
	SectionLogoCloud    = "logo-cloud"
	SectionClients      = "clients"
	SectionFeatures     = "features"
	SectionStats        = "stats"
	SectionTestimonials = "testimonials"
	SectionAwards       = "awards"
	SectionCTA          = "cta"
	SectionHowItWorks   = "how-it-works"
)

// SectionTypes maps each section type to an admin-facing label.
var SectionTypes = map[string]string{
	SectionHero:         "Hero",
	SectionLogoCloud:    "Logo Cloud",
	SectionClients:      "Clients",
	SectionFeatures:     "Features",
	SectionStats:        "Stats",
	SectionTestimonials: "Testimonials",
	SectionAwards:       "Awards",
	SectionCTA:          "Call to Action",
	SectionHowItWorks:   "How It Works",
}

func IsSectionType(t string) bool {
	_, ok := SectionTypes[t]
	return ok
}

// Navigation item types.
const (
	NavLink     = "link"
	NavDropdown = "dropdown"
	NavMega     = "mega"
	NavCTA      = "cta"
)

var NavigationTypes = []string{NavLink, NavDropdown, NavMega, NavCTA}

func IsNavigationType(t string) bool {
	for _, v := range NavigationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// NullString returns nil for an empty string so optional fields are stored as NULL.
func NullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
