// Package form holds the transient edit state for items and categories.
// Raw strings live here only; a model value is built once the form
// validates.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/idilsaglam/mythings/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		_, err := model.ParsePrice(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("palette", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || model.IsPaletteColor(s)
	})
	return v
}

// ValidationError lists the offending fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid " + strings.Join(e.Fields, ", ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ve := &ValidationError{}
		for _, fe := range verrs {
			ve.Fields = append(ve.Fields, strings.ToLower(fe.Field()))
		}
		return ve
	}
	return fmt.Errorf("validate: %w", err)
}

// Item is the add/edit form. ImagePath is the file picked for the item;
// it may stay empty when editing an item that already has an image.
type Item struct {
	Name      string `validate:"required"`
	Brand     string `validate:"required"`
	Category  string `validate:"required"`
	Price     string `validate:"required,price"`
	ImagePath string
}

// FromItem prefills the form for editing.
func FromItem(it model.Item) Item {
	price := it.Price.String()
	return Item{Name: it.Name, Brand: it.Brand, Category: it.Category, Price: price}
}

func (f *Item) trim() {
	f.Name = strings.TrimSpace(f.Name)
	f.Brand = strings.TrimSpace(f.Brand)
	f.Category = strings.TrimSpace(f.Category)
	f.Price = strings.TrimSpace(f.Price)
	f.ImagePath = strings.TrimSpace(f.ImagePath)
}

// Validate trims every field and checks them.
func (f *Item) Validate() error {
	f.trim()
	return check(f)
}

// Build validates and returns the item with the given identity and image.
func (f *Item) Build(id, imageName string) (model.Item, error) {
	if err := f.Validate(); err != nil {
		return model.Item{}, err
	}
	p, err := model.ParsePrice(f.Price)
	if err != nil {
		return model.Item{}, &ValidationError{Fields: []string{"price"}}
	}
	return model.Item{
		ID:        id,
		ImageName: imageName,
		Brand:     f.Brand,
		Category:  f.Category,
		Name:      f.Name,
		Price:     p,
	}, nil
}

// Category is the add/edit category form.
type Category struct {
	Name  string `validate:"required"`
	Color string `validate:"palette"`
}

func (f *Category) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Color = strings.ToLower(strings.TrimSpace(f.Color))
	return check(f)
}
