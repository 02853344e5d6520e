package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"compro/common"
	"compro/guard"
	"compro/models"
)

// MainNavigation is the name of the navigation container the site renders.
const MainNavigation = "Main Navigation"

type SeedOptions struct {
	AdminEmail     string
	AdminPassword  string
	NavigationName string
}

type navSeed struct {
	id       string
	label    string
	href     string
	typ      string
	children []navSeed
}

type itemSeed struct {
	title, subtitle, imageURL, tag string
}

// Seed inserts the initial content. Rows that already exist are left as
// they are, so running it twice is harmless.
func Seed(db *gorm.DB, opts SeedOptions) error {
	log.Println("Seeding database...")

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := seedAdmin(tx, opts); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if err := seedSettings(tx); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
		if err := seedNavigation(tx, opts.NavigationName); err != nil {
			return fmt.Errorf("seed navigation: %w", err)
		}
		if err := seedPages(tx); err != nil {
			return fmt.Errorf("seed pages: %w", err)
		}
		if err := seedLeads(tx); err != nil {
			return fmt.Errorf("seed leads: %w", err)
		}

		snapshot, err := guard.LoadSnapshot(tx)
		if err != nil {
			return err
		}
		return guard.Err(guard.CheckAll(snapshot))
	})
	if err != nil {
		log.Printf("Error seeding database: %v", err)
		return err
	}

	log.Println("Seed completed successfully")
	return nil
}

func insertIgnore(tx *gorm.DB, value interface{}) error {
	_, err := insertIgnoreCount(tx, value)
	return err
}

// insertIgnoreCount reports whether a row was actually inserted.
func insertIgnoreCount(tx *gorm.DB, value interface{}) (bool, error) {
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(value)
	return result.RowsAffected > 0, result.Error
}

func seedAdmin(tx *gorm.DB, opts SeedOptions) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return insertIgnore(tx, &models.User{
		Name:         "Administrator",
		Email:        opts.AdminEmail,
		PasswordHash: string(hash),
		Role:         "admin",
	})
}

func seedSettings(tx *gorm.DB) error {
	return insertIgnore(tx, &models.SiteSetting{
		ID:           models.SettingsID,
		CompanyName:  "Present",
		LogoURL:      models.NullString("/logo-present.png"),
		Address:      models.NullString("Gedung Cyber 2, Lantai 15, Jl. HR. Rasuna Said Blok X-5 Kav. 13, Jakarta Selatan 12950"),
		Email:        models.NullString("hello@present.co.id"),
		WhatsappLink: models.NullString("https://wa.me/6281234567890"),
		MapEmbedHTML: models.NullString(`<iframe src="https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d3966.2904!2d106.8308!3d-6.2358" width="100%" height="400" style="border:0;" allowfullscreen="" loading="lazy"></iframe>`),
	})
}

var navSeeds = []navSeed{
	{id: "produk", label: "Produk", typ: models.NavMega, children: []navSeed{
		{label: "Present HRIS Core", href: "/products/hris-core"},
		{label: "Attendance", href: "/products/attendance"},
		{label: "Payroll", href: "/products/payroll"},
		{label: "Performance", href: "/products/performance"},
		{label: "Recruitment", href: "/products/recruitment"},
		{label: "Mobile HR App", href: "/products/mobile-app"},
	}},
	{id: "solusi", label: "Solusi", typ: models.NavMega, children: []navSeed{
		{label: "Enterprise", href: "/solutions/enterprise"},
		{label: "Manufacturing", href: "/solutions/manufacturing"},
		{label: "Retail", href: "/solutions/retail"},
		{label: "Services", href: "/solutions/services"},
	}},
	{id: "fitur", label: "Fitur", href: "/features", typ: models.NavLink},
	{id: "pelanggan", label: "Pelanggan", typ: models.NavDropdown, children: []navSeed{
		{label: "Customer Stories", href: "/customers/stories"},
		{label: "Testimoni", href: "/customers/testimonials"},
		{label: "Logo Klien", href: "/customers/clients"},
	}},
	{id: "resources", label: "Resources", typ: models.NavDropdown, children: []navSeed{
		{label: "Blog", href: "/blog"},
		{label: "Webinar/Event", href: "/events"},
		{label: "E-book/Whitepaper", href: "/resources/ebooks"},
		{label: "FAQ", href: "/faq"},
	}},
	{id: "tentang", label: "Tentang Kami", typ: models.NavDropdown, children: []navSeed{
		{label: "Profil Present", href: "/about"},
		{label: "Karier", href: "/careers"},
		{label: "Kontak", href: "/contact"},
	}},
	{id: "hubungi", label: "Hubungi Kami", href: "/contact", typ: models.NavLink},
	{id: "cta", label: "Jadwalkan Demo", href: "/contact", typ: models.NavCTA},
}

// seedNavigation fills the navigation only when it is created here; an
// existing navigation keeps the items it has.
func seedNavigation(tx *gorm.DB, name string) error {
	if name == "" {
		name = MainNavigation
	}
	nav := models.Navigation{Name: name}
	created, err := insertIgnoreCount(tx, &nav)
	if err != nil || !created {
		return err
	}

	for i, top := range navSeeds {
		parent := models.NavigationItem{
			ID:           top.id,
			NavigationID: nav.ID,
			Label:        top.label,
			Href:         models.NullString(top.href),
			Type:         top.typ,
			Order:        i + 1,
		}
		if err := insertIgnore(tx, &parent); err != nil {
			return err
		}
		for j, child := range top.children {
			parentID := top.id
			err := insertIgnore(tx, &models.NavigationItem{
				ID:           fmt.Sprintf("%s-%d", top.id, j+1),
				NavigationID: nav.ID,
				ParentID:     &parentID,
				Label:        child.label,
				Href:         models.NullString(child.href),
				Type:         models.NavLink,
				Order:        j + 1,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// seedPage inserts the page unless its slug or id is taken.
func seedPage(tx *gorm.DB, id, slug, title string) (bool, error) {
	return insertIgnoreCount(tx, &models.Page{ID: id, Slug: slug, Title: title})
}

func seedSection(tx *gorm.DB, section models.Section, idPrefix string, items []itemSeed) error {
	if err := insertIgnore(tx, &section); err != nil {
		return err
	}
	for i, it := range items {
		err := insertIgnore(tx, &models.SectionItem{
			ID:        fmt.Sprintf("%s-%d", idPrefix, i+1),
			SectionID: section.ID,
			Order:     i + 1,
			Title:     models.NullString(it.title),
			Subtitle:  models.NullString(it.subtitle),
			ImageURL:  models.NullString(it.imageURL),
			Tag:       models.NullString(it.tag),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func seedPages(tx *gorm.DB) error {
	created, err := seedPage(tx, "home", common.HomeSlug, "Present - Solusi HRIS Terdepan Indonesia")
	if err != nil {
		return err
	}

	// A pre-existing home page keeps the sections it has.
	if created {
		if err := seedHomeSections(tx, "home"); err != nil {
			return err
		}
	}

	if _, err := seedPage(tx, "features", "features", "Fitur Present HRIS"); err != nil {
		return err
	}
	if _, err := seedPage(tx, "contact", "contact", "Hubungi Kami"); err != nil {
		return err
	}
	return nil
}

func seedHomeSections(tx *gorm.DB, pageID string) error {
	s := models.NullString
	sections := []struct {
		section models.Section
		prefix  string
		items   []itemSeed
	}{
		{section: models.Section{
			ID: "home-hero", Type: models.SectionHero,
			Heading:           s("Kelola SDM Lebih Cerdas dengan Present HRIS"),
			Subheading:        s("Platform HRIS terintegrasi untuk mengelola karyawan, absensi, penggajian, dan performa dalam satu sistem yang powerful."),
			CTAPrimaryLabel:   s("Hubungi Kami"),
			CTAPrimaryHref:    s("/contact"),
			CTASecondaryLabel: s("Pelajari Lebih Lanjut"),
			CTASecondaryHref:  s("/features"),
			ImageURL:          s("/hero-image.png"),
		}},
		{section: models.Section{
			ID: "home-logos", Type: models.SectionLogoCloud,
			Heading: s("Dipercaya oleh 500+ Perusahaan Terkemuka"),
		}, prefix: "logo", items: []itemSeed{
			{title: "Bank Mandiri", imageURL: "/logos/mandiri.png"},
			{title: "Telkom Indonesia", imageURL: "/logos/telkom.png"},
			{title: "Astra International", imageURL: "/logos/astra.png"},
			{title: "Unilever", imageURL: "/logos/unilever.png"},
			{title: "Garuda Indonesia", imageURL: "/logos/garuda.png"},
			{title: "Pertamina", imageURL: "/logos/pertamina.png"},
		}},
		{section: models.Section{
			ID: "home-features", Type: models.SectionFeatures,
			Heading:    s("Modul Lengkap untuk Semua Kebutuhan HR"),
			Subheading: s("Dari rekrutmen hingga pensiun, Present menyediakan solusi end-to-end untuk manajemen SDM perusahaan Anda."),
		}, prefix: "feature", items: []itemSeed{
			{title: "HRIS Core", subtitle: "Kelola data karyawan, struktur organisasi, dan dokumen HR dalam satu platform terintegrasi.", tag: "Core"},
			{title: "Attendance", subtitle: "Sistem absensi canggih dengan face recognition, geolocation, dan integrasi mesin fingerprint.", tag: "Time"},
			{title: "Payroll", subtitle: "Penggajian otomatis dengan perhitungan PPh21, BPJS, dan komponen salary lainnya.", tag: "Finance"},
			{title: "Performance", subtitle: "Kelola KPI, OKR, dan performance review dengan dashboard analytics yang powerful.", tag: "Growth"},
			{title: "Recruitment", subtitle: "Dari job posting hingga onboarding, kelola proses rekrutmen dengan mudah.", tag: "Talent"},
			{title: "Mobile App", subtitle: "Akses HR di mana saja dengan aplikasi mobile untuk iOS dan Android.", tag: "Mobile"},
		}},
		{section: models.Section{
			ID: "home-stats", Type: models.SectionStats,
			Heading: s("Present dalam Angka"),
		}, prefix: "stat", items: []itemSeed{
			{title: "500+", subtitle: "Perusahaan"},
			{title: "1M+", subtitle: "Pengguna Aktif"},
			{title: "50+", subtitle: "Fitur"},
			{title: "99.9%", subtitle: "Uptime"},
		}},
		{section: models.Section{
			ID: "home-testimonials", Type: models.SectionTestimonials,
			Heading:    s("Apa Kata Mereka?"),
			Subheading: s("Dengarkan langsung dari pelanggan kami yang telah merasakan manfaat Present."),
		}, prefix: "testimonial", items: []itemSeed{
			{title: "Budi Santoso", subtitle: "Present mengubah cara kami mengelola HR. Proses yang dulu memakan waktu berhari-hari kini selesai dalam hitungan menit.", tag: "HR Director, PT Maju Bersama"},
			{title: "Siti Rahayu", subtitle: "Fitur payroll yang akurat dan laporan yang komprehensif sangat membantu tim finance kami.", tag: "Finance Manager, CV Sejahtera"},
			{title: "Agus Wijaya", subtitle: "Implementasi yang smooth dan tim support yang responsif. Highly recommended!", tag: "CEO, Startup Nusantara"},
		}},
		{section: models.Section{
			ID: "home-awards", Type: models.SectionAwards,
			Heading: s("Penghargaan & Sertifikasi"),
		}, prefix: "award", items: []itemSeed{
			{title: "ISO 27001", subtitle: "Information Security Management"},
			{title: "Best HRIS 2024", subtitle: "Indonesia Technology Awards"},
			{title: "Top 10 SaaS", subtitle: "Southeast Asia Tech Review"},
		}},
		{section: models.Section{
			ID: "home-cta", Type: models.SectionCTA,
			Heading:         s("Siap Transformasi HR Perusahaan Anda?"),
			Subheading:      s("Jadwalkan demo gratis dan lihat bagaimana Present dapat membantu bisnis Anda."),
			CTAPrimaryLabel: s("Jadwalkan Demo Gratis"),
			CTAPrimaryHref:  s("/contact"),
		}},
	}

	for i, sec := range sections {
		sec.section.PageID = pageID
		sec.section.Order = i + 1
		if err := seedSection(tx, sec.section, sec.prefix, sec.items); err != nil {
			return err
		}
	}
	return nil
}

func seedLeads(tx *gorm.DB) error {
	s := models.NullString
	leads := []models.Lead{
		{ID: "lead-1", FullName: "John Doe", Email: "john@company.com", Phone: s("081234567890"), Company: s("PT ABC Indonesia"), Employees: s("100-500"), Interest: s("HRIS Core"), Message: s("Kami tertarik untuk demo produk Present HRIS."), Consent: true},
		{ID: "lead-2", FullName: "Jane Smith", Email: "jane@startup.id", Phone: s("081298765432"), Company: s("Startup XYZ"), Employees: s("10-50"), Interest: s("Payroll"), Message: s("Butuh solusi payroll untuk tim kami."), Consent: true},
		{ID: "lead-3", FullName: "Ahmad Rizki", Email: "ahmad@enterprise.co.id", Phone: s("081355544433"), Company: s("Enterprise Corp"), Employees: s("500+"), Interest: s("Full Suite"), Message: s("Ingin integrasi dengan sistem existing kami."), Consent: true},
	}
	for i := range leads {
		if err := insertIgnore(tx, &leads[i]); err != nil {
			return err
		}
	}
	return nil
}
