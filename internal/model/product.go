package model

import (
	"github.com/shopspring/decimal"
)

// Product holds the attributes of a catalogue entry that has not necessarily
// been stored yet. It carries no id; see PersistedProduct.
type Product struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Available   bool
	Category    Category
}

// PersistedProduct is a Product that has a store-assigned id. Values are
// detached snapshots: changing one has no effect until it is passed to an
// update.
type PersistedProduct struct {
	ID int64
	Product
}

// ProductDocument is the JSON representation of a product. Price is rendered
// as a string so no precision is lost in transport.
type ProductDocument struct {
	ID          *int64   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       string   `json:"price"`
	Available   bool     `json:"available"`
	Category    Category `json:"category"`
}

// Serialize renders the product with a null id.
func (p Product) Serialize() ProductDocument {
	return ProductDocument{
		ID:          nil,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(PriceScale),
		Available:   p.Available,
		Category:    p.Category,
	}
}

// Serialize renders the product including its id.
func (p PersistedProduct) Serialize() ProductDocument {
	doc := p.Product.Serialize()
	id := p.ID
	doc.ID = &id
	return doc
}

// Deserialize replaces the receiver's attributes with the product decoded
// from data. The receiver is left untouched when decoding fails.
func (p *Product) Deserialize(data []byte) error {
	decoded, err := DecodeProduct(data)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Validate checks an in-memory product against the same constraints that
// DecodeProduct enforces on incoming documents.
func (p Product) Validate() error {
	price, err := checkPrice(p.Price)
	if err != nil {
		return err
	}
	p.Price = price
	_, err = payloadFromProduct(p).toProduct()
	return err
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
