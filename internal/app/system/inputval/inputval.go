// Package inputval collects field-level validation messages for admin
// forms and parses the product form.
package inputval

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/hekto/internal/app/system/htmlsanitize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Limits on product fields.
const (
	MaxNameLen     = 200
	MaxCategoryLen = 100
)

// FieldError is one message attached to a form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result accumulates field errors in the order they were found.
type Result struct {
	Errors []FieldError
}

// Add records msg for field.
func (r *Result) Add(field, msg string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Message: msg})
}

// HasErrors reports whether anything was recorded.
func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with a space.
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, " ")
}

// For returns the message recorded for field, or "".
func (r *Result) For(field string) string {
	if r == nil {
		return ""
	}
	for _, e := range r.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// IsValidObjectID reports whether s is a 24-char hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// ProductInput is the raw product form as submitted.
type ProductInput struct {
	Name        string
	Price       string
	Description string
	Category    string
	Stock       string
}

// ProductValues is a validated product form.
type ProductValues struct {
	Name        string
	Price       float64
	Description string
	Category    string
	Stock       int
}

// Product validates and converts the product form. Price must be a
// non-negative number, stock a non-negative integer (blank means 0). The
// description is sanitized.
func Product(in ProductInput) (ProductValues, *Result) {
	res := &Result{}
	out := ProductValues{
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Description: htmlsanitize.Clean(in.Description),
	}

	switch n := utf8.RuneCountInString(out.Name); {
	case n == 0:
		res.Add("name", "Name is required.")
	case n > MaxNameLen:
		res.Add("name", "Name must be at most 200 characters.")
	}

	price, err := parseMoney(in.Price)
	switch {
	case err != nil:
		res.Add("price", "Price must be a number.")
	case price < 0:
		res.Add("price", "Price cannot be negative.")
	default:
		out.Price = price
	}

	if utf8.RuneCountInString(out.Category) > MaxCategoryLen {
		res.Add("category", "Category must be at most 100 characters.")
	}

	if s := strings.TrimSpace(in.Stock); s != "" {
		stock, err := strconv.Atoi(s)
		switch {
		case err != nil:
			res.Add("stock", "Stock must be a whole number.")
		case stock < 0:
			res.Add("stock", "Stock cannot be negative.")
		default:
			out.Stock = stock
		}
	}
	return out, res
}

// parseMoney accepts "1200", "1,200.50" and "$1200".
func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
