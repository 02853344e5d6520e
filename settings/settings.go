package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"compro/common"
	"compro/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Input struct {
	CompanyName  string `form:"company_name" json:"company_name" validate:"required"`
	LogoURL      string `form:"logo_url" json:"logo_url"`
	Address      string `form:"address" json:"address"`
	Email        string `form:"email" json:"email" validate:"omitempty,email"`
	WhatsappLink string `form:"whatsapp_link" json:"whatsapp_link"`
	MapEmbedHTML string `form:"map_embed_html" json:"map_embed_html"`
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the settings row. Before the first Update it returns an empty
// value with only the id set.
func (s *Store) Get() (*models.SiteSetting, error) {
	var setting models.SiteSetting
	err := s.db.Where("id = ?", models.SettingsID).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SiteSetting{ID: models.SettingsID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Update replaces every settings field, creating the row if needed. Empty
// optional fields are stored as NULL.
func (s *Store) Update(in Input) (*models.SiteSetting, error) {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fe.Field()
			}
			return nil, fmt.Errorf("%w: invalid %s", common.ErrInvalid, strings.Join(fields, ", "))
		}
		return nil, err
	}

	setting := models.SiteSetting{
		ID:           models.SettingsID,
		CompanyName:  in.CompanyName,
		LogoURL:      models.NullString(in.LogoURL),
		Address:      models.NullString(in.Address),
		Email:        models.NullString(in.Email),
		WhatsappLink: models.NullString(in.WhatsappLink),
		MapEmbedHTML: models.NullString(in.MapEmbedHTML),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_name", "logo_url", "address", "email", "whatsapp_link", "map_embed_html"}),
	}).Create(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}
