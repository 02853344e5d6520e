package leads

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"compro/common"
	"compro/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ContactInput is the public contact form.
type ContactInput struct {
	FullName  string `form:"full_name" json:"full_name" validate:"min=2"`
	Email     string `form:"email" json:"email" validate:"required,email"`
	Phone     string `form:"phone" json:"phone" validate:"omitempty,min=10"`
	Company   string `form:"company" json:"company"`
	Employees string `form:"employees" json:"employees"`
	Interest  string `form:"interest" json:"interest"`
	Message   string `form:"message" json:"message"`
	Consent   bool   `form:"consent" json:"consent" validate:"eq=true"`
}

var fieldMessages = map[string]string{
	"FullName": "Nama lengkap minimal 2 karakter",
	"Email":    "Email tidak valid",
	"Phone":    "Nomor telepon minimal 10 digit",
	"Consent":  "Anda harus menyetujui kebijakan privasi",
}

func (in *ContactInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w: %s", common.ErrInvalid, strings.Join(msgs, ", "))
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Submit validates and stores a contact form submission.
func (s *Store) Submit(in ContactInput) (*models.Lead, error) {
	in.normalize()
	if err := validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	lead := models.Lead{
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     models.NullString(in.Phone),
		Company:   models.NullString(in.Company),
		Employees: models.NullString(in.Employees),
		Interest:  models.NullString(in.Interest),
		Message:   models.NullString(in.Message),
		Consent:   in.Consent,
	}
	if err := s.db.Create(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns all leads, newest first.
func (s *Store) List() ([]models.Lead, error) {
	leads := []models.Lead{}
	if err := s.db.Order("created_at DESC").Order("id DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

func (s *Store) Delete(id string) error {
	result := s.db.Delete(&models.Lead{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: lead %s", common.ErrNotFound, id)
	}
	return nil
}

var csvHeader = []string{
	"ID",
	"Nama Lengkap",
	"Email",
	"Telepon",
	"Perusahaan",
	"Jumlah Karyawan",
	"Minat",
	"Pesan",
	"Consent",
	"Tanggal",
}

// ExportCSV writes every lead, newest first, as CSV with a header row.
func (s *Store) ExportCSV(w io.Writer) error {
	leads, err := s.List()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range leads {
		consent := "Tidak"
		if l.Consent {
			consent = "Ya"
		}
		row := []string{
			l.ID,
			l.FullName,
			l.Email,
			models.Deref(l.Phone),
			models.Deref(l.Company),
			models.Deref(l.Employees),
			models.Deref(l.Interest),
			models.Deref(l.Message),
			consent,
			l.CreatedAt.Format("02/01/2006 15:04"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
