package product

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                        int64               `json:"id"`
	Name                      string              `json:"name"`
	BasePrice                 decimal.Decimal     `json:"base_price"`
	Stock                     int                 `json:"stock"`
	Active                    bool                `json:"active"`
	StudentDiscountPercentage decimal.NullDecimal `json:"student_discount_percentage"`
	Properties                Properties          `json:"properties"`
	Images                    []string            `json:"images"`
	CreatedAt                 time.Time           `json:"created_at"`
	UpdatedAt                 time.Time           `json:"updated_at"`
}

// Properties is the open attribute bag of a product. Values are scalars only
// (string, number, bool); it is stored as JSONB. Numbers decode as
// json.Number so large integers keep every digit.
type Properties map[string]any

func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	if m == nil {
		return nil
	}
	*p = m
	return nil
}

func (p Properties) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(p))
}

func (p *Properties) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = Properties{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("properties: unsupported type %T", src)
	}

	out := Properties{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*p = out
	return nil
}

var errNonScalarProperty = errors.New("property values must be strings, numbers or booleans")

func (p Properties) Validate() error {
	for k, v := range p {
		if k == "" {
			return errors.New("property keys must not be empty")
		}
		switch v.(type) {
		case string, bool, float64, float32, int, int32, int64, json.Number:
		default:
			return fmt.Errorf("%w (key %q)", errNonScalarProperty, k)
		}
	}
	return nil
}

type CreateInput struct {
	Name                      string              `json:"name"`
	BasePrice                 decimal.Decimal     `json:"base_price"`
	Stock                     int                 `json:"stock"`
	Active                    *bool               `json:"active"`
	StudentDiscountPercentage decimal.NullDecimal `json:"student_discount_percentage"`
	Properties                Properties          `json:"properties"`
	Images                    []string            `json:"images"`
}

// UpdateInput is a partial edit; nil fields are left unchanged.
// ClearStudentDiscount removes the student percentage.
type UpdateInput struct {
	Name                      *string          `json:"name"`
	BasePrice                 *decimal.Decimal `json:"base_price"`
	Stock                     *int             `json:"stock"`
	Active                    *bool            `json:"active"`
	StudentDiscountPercentage *decimal.Decimal `json:"student_discount_percentage"`
	ClearStudentDiscount      bool             `json:"clear_student_discount"`
	Properties                Properties       `json:"properties"`
	Images                    []string         `json:"images"`
}

func (in UpdateInput) IsEmpty() bool {
	return in.Name == nil &&
		in.BasePrice == nil &&
		in.Stock == nil &&
		in.Active == nil &&
		in.StudentDiscountPercentage == nil &&
		!in.ClearStudentDiscount &&
		in.Properties == nil &&
		in.Images == nil
}
