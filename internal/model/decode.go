package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	// PriceScale is the number of fractional digits a price may carry.
	PriceScale = 2

	// PricePrecision is the total number of digits the price column holds.
	PricePrecision = 14
)

// maxPriceTextLength bounds the textual form of a price before it is parsed.
const maxPriceTextLength = 32

// productPayload is the wire schema of a product document. Every field is a
// pointer so an absent key can be told apart from a zero value.
type productPayload struct {
	Name        *string          `json:"name" validate:"required,min=1,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=250"`
	Price       *json.RawMessage `json:"price" validate:"required"`
	Available   *bool            `json:"available" validate:"required"`
	Category    *string          `json:"category" validate:"required,category"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := ParseCategory(fl.Field().String())
		return ok
	}); err != nil {
		panic(fmt.Sprintf("register category validation: %v", err))
	}

	return v
}

// DecodeProduct decodes and validates a JSON product document. Any id in the
// document is ignored. Every failure is reported as a *ValidationError.
func DecodeProduct(data []byte) (Product, error) {
	var payload productPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Product{}, decodeError(err)
	}
	return payload.toProduct()
}

func (p productPayload) toProduct() (Product, error) {
	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return Product{}, NewValidationError(fe.Field(), formatFieldError(fe), err)
		}
		return Product{}, NewValidationError("", "could not be validated", err)
	}

	price, err := parsePrice(*p.Price)
	if err != nil {
		return Product{}, err
	}

	category, _ := ParseCategory(*p.Category)

	return Product{
		Name:        *p.Name,
		Description: p.Description,
		Price:       price,
		Available:   *p.Available,
		Category:    category,
	}, nil
}

func payloadFromProduct(p Product) productPayload {
	name := p.Name
	available := p.Available
	category := p.Category.String()
	price := json.RawMessage(p.Price.String())
	return productPayload{
		Name:        &name,
		Description: p.Description,
		Price:       &price,
		Available:   &available,
		Category:    &category,
	}
}

// parsePrice accepts a JSON string or number holding a decimal value.
func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Decimal{}, NewValidationError("price", "must be a decimal number", err)
		}
	}
	return ParsePrice(text)
}

// ParsePrice parses a decimal price and checks it fits the price column. The
// scale and magnitude are checked from the exponent and coefficient digits
// before any rescaling, so inputs such as "1e1000000000" fail fast.
func ParsePrice(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if len(text) > maxPriceTextLength {
		return decimal.Decimal{}, NewValidationError("price",
			fmt.Sprintf("must be at most %d characters", maxPriceTextLength), nil)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, NewValidationError("price", "must be a decimal number", err)
	}
	return checkPrice(d)
}

// checkPrice verifies d has at most PriceScale fractional digits and at most
// PricePrecision-PriceScale integer digits. A zero of any exponent comes back
// as decimal.Zero.
func checkPrice(d decimal.Decimal) (decimal.Decimal, error) {
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return decimal.Zero, nil
	}
	coef.Abs(coef)

	exp := int64(d.Exponent())
	ten := big.NewInt(10)
	rem := new(big.Int)
	for exp < -PriceScale {
		q, r := new(big.Int).QuoRem(coef, ten, rem)
		if r.Sign() != 0 {
			return decimal.Decimal{}, NewValidationError("price",
				fmt.Sprintf("must have at most %d decimal places", PriceScale), nil)
		}
		coef = q
		exp++
	}

	if int64(len(coef.String()))+exp > PricePrecision-PriceScale {
		return decimal.Decimal{}, NewValidationError("price",
			fmt.Sprintf("must be less than 1e%d", PricePrecision-PriceScale), nil)
	}

	return d, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return NewValidationError("", "body must be a JSON object", err)
		}
		return NewValidationError(typeErr.Field, "must be of type "+jsonTypeName(typeErr.Type), err)
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return NewValidationError("", "body is not valid JSON", err)
	}

	return NewValidationError("", "body could not be decoded", err)
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return t.String()
	}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "category":
		names := make([]string, 0, len(categoryNames))
		for _, c := range Categories() {
			names = append(names, c.String())
		}
		return "must be one of " + strings.Join(names, ", ")
	default:
		return "is invalid"
	}
}
