package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Name         string `json:"name"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
	Role         string `gorm:"not null;default:'admin'" json:"role"`
}

type Page struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Sections  []Section `gorm:"foreignKey:PageID" json:"sections,omitempty"`
}

// Section fields are a flat bag; which ones matter depends on Type (see SectionTypes).
type Section struct {
	ID                string        `gorm:"primaryKey" json:"id"`
	PageID            string        `gorm:"not null;index" json:"page_id"`
	Type              string        `gorm:"not null" json:"type"`
	Order             int           `gorm:"column:sort_order;not null;index" json:"order"`
	Heading           *string       `json:"heading"`
	Subheading        *string       `gorm:"type:text" json:"subheading"`
	CTAPrimaryLabel   *string       `gorm:"column:cta_primary_label" json:"cta_primary_label"`
	CTAPrimaryHref    *string       `gorm:"column:cta_primary_href" json:"cta_primary_href"`
	CTASecondaryLabel *string       `gorm:"column:cta_secondary_label" json:"cta_secondary_label"`
	CTASecondaryHref  *string       `gorm:"column:cta_secondary_href" json:"cta_secondary_href"`
	ImageURL          *string       `gorm:"column:image_url" json:"image_url"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	Items             []SectionItem `gorm:"foreignKey:SectionID" json:"items,omitempty"`
	Page              *Page         `gorm:"foreignKey:PageID" json:"page,omitempty"`
}

// SectionItem fields are reinterpreted per parent section type,
// e.g. stats: title = headline number, subtitle = label.
type SectionItem struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	SectionID string    `gorm:"not null;index" json:"section_id"`
	Order     int       `gorm:"column:sort_order;not null;index" json:"order"`
	Title     *string   `json:"title"`
	Subtitle  *string   `gorm:"type:text" json:"subtitle"`
	ImageURL  *string   `gorm:"column:image_url" json:"image_url"`
	Href      *string   `json:"href"`
	Tag       *string   `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Navigation struct {
	ID    string           `gorm:"primaryKey" json:"id"`
	Name  string           `gorm:"uniqueIndex;not null" json:"name"`
	Items []NavigationItem `gorm:"foreignKey:NavigationID" json:"items,omitempty"`
}

// NavigationItem with a nil ParentID is top-level; children may not have children.
type NavigationItem struct {
	ID           string           `gorm:"primaryKey" json:"id"`
	NavigationID string           `gorm:"not null;index" json:"navigation_id"`
	ParentID     *string          `gorm:"index" json:"parent_id"`
	Label        string           `gorm:"not null" json:"label"`
	Href         *string          `json:"href"`
	Type         string           `gorm:"not null;default:'link'" json:"type"`
	Order        int              `gorm:"column:sort_order;not null;index" json:"order"`
	Children     []NavigationItem `gorm:"foreignKey:ParentID" json:"children"`
}

type Lead struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"not null" json:"full_name"`
	Email     string    `gorm:"not null;index" json:"email"`
	Phone     *string   `json:"phone"`
	Company   *string   `json:"company"`
	Employees *string   `json:"employees"` // bucket such as "10-50" or "500+"
	Interest  *string   `json:"interest"`
	Message   *string   `gorm:"type:text" json:"message"`
	Consent   bool      `gorm:"not null;default:false" json:"consent"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type SiteSetting struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	CompanyName  string  `gorm:"not null" json:"company_name"`
	LogoURL      *string `gorm:"column:logo_url" json:"logo_url"`
	Address      *string `json:"address"`
	Email        *string `json:"email"`
	WhatsappLink *string `json:"whatsapp_link"`
	MapEmbedHTML *string `gorm:"column:map_embed_html;type:text" json:"map_embed_html"`
}

// Visit is one public page view. Times are stored in UTC.
type Visit struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PageSlug  string    `gorm:"not null;index" json:"page_slug"`
	Locale    string    `gorm:"not null" json:"locale"`
	VisitorID string    `gorm:"not null;index" json:"visitor_id"`
	IP        string    `gorm:"not null" json:"ip"`
	Language  *string   `json:"language"`
	Browser   *string   `json:"browser"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// SettingsID is the id of the only SiteSetting row.
const SettingsID = "default"

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error           { newID(&u.ID); return nil }
func (p *Page) BeforeCreate(tx *gorm.DB) error           { newID(&p.ID); return nil }
func (s *Section) BeforeCreate(tx *gorm.DB) error        { newID(&s.ID); return nil }
func (i *SectionItem) BeforeCreate(tx *gorm.DB) error    { newID(&i.ID); return nil }
func (n *Navigation) BeforeCreate(tx *gorm.DB) error     { newID(&n.ID); return nil }
func (n *NavigationItem) BeforeCreate(tx *gorm.DB) error { newID(&n.ID); return nil }
func (l *Lead) BeforeCreate(tx *gorm.DB) error           { newID(&l.ID); return nil }

// Ranked implementations used by the ordering package.

func (s Section) RankID() string        { return s.ID }
func (s Section) Rank() int             { return s.Order }
func (i SectionItem) RankID() string    { return i.ID }
func (i SectionItem) Rank() int         { return i.Order }
func (n NavigationItem) RankID() string { return n.ID }
func (n NavigationItem) Rank() int      { return n.Order }
