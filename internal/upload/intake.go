// Package upload screens POS uploads before any parsing work is done.
package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chrisdamba/menusight/internal/models"
	"github.com/go-playground/validator/v10"
)

var extensionFormats = map[string]string{
	".csv":  models.FormatCSV,
	".json": models.FormatJSON,
	".txt":  models.FormatText,
	".tsv":  models.FormatText,
}

type Payload struct {
	Filename string `json:"filename"`
	Format   string `json:"format"`
	Data     string `json:"data"`
}

type Intake struct {
	maxBytes int64
	formats  map[string]bool
	validate *validator.Validate
}

func NewIntake(cfg models.UploadConfig) *Intake {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = models.DefaultMaxUpload
	}
	formats := make(map[string]bool)
	for _, f := range cfg.AllowedFormats {
		formats[strings.ToLower(strings.TrimSpace(f))] = true
	}
	if len(formats) == 0 {
		formats = map[string]bool{models.FormatCSV: true, models.FormatJSON: true, models.FormatText: true}
	}
	return &Intake{maxBytes: maxBytes, formats: formats, validate: validator.New()}
}

func (in *Intake) MaxBytes() int64 { return in.maxBytes }

// Validate checks size, format and filename and returns the resolved format.
// The format is inferred from the file extension when not declared.
func (in *Intake) Validate(p Payload) (string, error) {
	if int64(len(p.Data)) > in.maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", models.ErrUploadTooLarge, len(p.Data), in.maxBytes)
	}
	if strings.TrimSpace(p.Data) == "" {
		return "", models.NewValidationError("data", "upload is empty")
	}

	format := strings.ToLower(strings.TrimSpace(p.Format))
	if p.Filename != "" {
		ext := strings.ToLower(filepath.Ext(p.Filename))
		extFormat, ok := extensionFormats[ext]
		if !ok {
			return "", fmt.Errorf("%w: file type %q not allowed", models.ErrUnsupportedFormat, ext)
		}
		if format == "" {
			format = extFormat
		} else if format != extFormat {
			return "", models.NewValidationError("format", fmt.Sprintf("%s does not match file %s", format, p.Filename))
		}
	}
	if format == "" {
		return "", models.NewValidationError("format", "required when no filename is given")
	}
	if !in.formats[format] {
		return "", fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, format)
	}
	return format, nil
}

// ValidateRawItem applies the field rules of a menu item.
func (in *Intake) ValidateRawItem(item models.RawMenuItem) error {
	return toValidationError(in.validate.Struct(item))
}

func (in *Intake) ValidatePatch(patch models.MenuItemPatch) error {
	return toValidationError(in.validate.Struct(patch))
}

// FilterValid keeps the items that pass ValidateRawItem and reports how many
// were dropped.
func (in *Intake) FilterValid(items []models.RawMenuItem) ([]models.RawMenuItem, int) {
	valid := make([]models.RawMenuItem, 0, len(items))
	for _, item := range items {
		if in.ValidateRawItem(item) == nil {
			valid = append(valid, item)
		}
	}
	return valid, len(items) - len(valid)
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	out := &models.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[jsonName(fe.Field())] = describe(fe)
	}
	return out
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		return "must not be empty"
	default:
		return "is invalid"
	}
}
