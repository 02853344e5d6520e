package site

import (
	"bytes"
	"html/template"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"compro/models"
)

// markdown renderer for section subheadings and item subtitles
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

func renderMarkdown(s *string) template.HTML {
	if s == nil || *s == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(*s), &buf); err != nil {
		log.Printf("markdown render failed: %v", err)
		return template.HTML(template.HTMLEscapeString(*s))
	}
	return template.HTML(buf.String())
}

type CTA struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

func newCTA(label, href *string) *CTA {
	if label == nil || *label == "" {
		return nil
	}
	return &CTA{Label: *label, Href: models.Deref(href)}
}

// SectionView is the public shape of a section. Items are projected per
// section type, see itemView.
type SectionView struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	Heading        string        `json:"heading,omitempty"`
	Subheading     string        `json:"subheading,omitempty"`
	SubheadingHTML template.HTML `json:"subheading_html,omitempty"`
	PrimaryCTA     *CTA          `json:"cta_primary,omitempty"`
	SecondaryCTA   *CTA          `json:"cta_secondary,omitempty"`
	ImageURL       string        `json:"image_url,omitempty"`
	Items          []gin.H       `json:"items"`
}

type PageView struct {
	ID       string        `json:"id"`
	Slug     string        `json:"slug"`
	Title    string        `json:"title"`
	Sections []SectionView `json:"sections"`
}

type NavItemView struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Href     string        `json:"href,omitempty"`
	Type     string        `json:"type"`
	Children []NavItemView `json:"children"`
}

func pageView(page *models.Page) PageView {
	view := PageView{
		ID:       page.ID,
		Slug:     page.Slug,
		Title:    page.Title,
		Sections: make([]SectionView, 0, len(page.Sections)),
	}
	for _, s := range page.Sections {
		view.Sections = append(view.Sections, sectionView(s))
	}
	return view
}

func sectionView(s models.Section) SectionView {
	view := SectionView{
		ID:             s.ID,
		Type:           s.Type,
		Heading:        models.Deref(s.Heading),
		Subheading:     models.Deref(s.Subheading),
		SubheadingHTML: renderMarkdown(s.Subheading),
		PrimaryCTA:     newCTA(s.CTAPrimaryLabel, s.CTAPrimaryHref),
		SecondaryCTA:   newCTA(s.CTASecondaryLabel, s.CTASecondaryHref),
		ImageURL:       models.Deref(s.ImageURL),
		Items:          make([]gin.H, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		view.Items = append(view.Items, itemView(s.Type, it))
	}
	return view
}

// itemView names the generic item fields after what they mean for the
// section type. Unknown types fall back to the raw field names.
func itemView(sectionType string, it models.SectionItem) gin.H {
	title := models.Deref(it.Title)
	subtitle := models.Deref(it.Subtitle)
	image := models.Deref(it.ImageURL)
	href := models.Deref(it.Href)
	tag := models.Deref(it.Tag)

	switch sectionType {
	case models.SectionLogoCloud, models.SectionClients:
		return gin.H{"id": it.ID, "name": title, "logo_url": image, "href": href}
	case models.SectionFeatures:
		return gin.H{"id": it.ID, "name": title, "description": subtitle, "description_html": renderMarkdown(it.Subtitle), "href": href, "badge": tag}
	case models.SectionStats:
		return gin.H{"id": it.ID, "value": title, "label": subtitle}
	case models.SectionTestimonials:
		return gin.H{"id": it.ID, "name": title, "quote": subtitle, "avatar_url": image, "role": tag}
	case models.SectionAwards:
		return gin.H{"id": it.ID, "name": title, "issuer": subtitle, "badge_url": image}
	case models.SectionHowItWorks:
		return gin.H{"id": it.ID, "step": tag, "title": title, "description": subtitle, "description_html": renderMarkdown(it.Subtitle)}
	default:
		return gin.H{"id": it.ID, "title": title, "subtitle": subtitle, "image_url": image, "href": href, "tag": tag}
	}
}

func navigationView(items []models.NavigationItem) []NavItemView {
	views := make([]NavItemView, 0, len(items))
	for _, it := range items {
		views = append(views, NavItemView{
			ID:       it.ID,
			Label:    it.Label,
			Href:     models.Deref(it.Href),
			Type:     it.Type,
			Children: navigationView(it.Children),
		})
	}
	return views
}
