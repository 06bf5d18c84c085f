// Package catalog reads bulk listing files used when a ledger is deployed.
//
// A catalog is YAML (JSON is accepted as well):
//
//	farmer:
//	  name: Danki
//	  city: Baguio
//	  barangay: Burnham
//	items:
//	  - name: Pechay
//	    category: Vegetable
//	    unit: basket
//	    price: "0.50"
//	    rating: 4
//	    stock: 56
//
// Prices are decimal strings converted to minor units at a fixed scale.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/alextreichler/openmarket/internal/ledger"
)

type Farmer struct {
	Name     string `yaml:"name"`
	City     string `yaml:"city"`
	Barangay string `yaml:"barangay"`
}

type Entry struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Image    string `yaml:"image"`
	Unit     string `yaml:"unit"`
	Price    string `yaml:"price"`
	Rating   int64  `yaml:"rating"`
	Stock    int64  `yaml:"stock"`
}

type Catalog struct {
	Farmer *Farmer `yaml:"farmer"`
	Items  []Entry `yaml:"items"`
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse rejects unknown keys so a misspelled field is not silently dropped.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cat Catalog
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return &cat, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &cat, nil
}

// Listing converts the entry for ledger.List, pricing it at scale decimal
// places.
func (e Entry) Listing(scale int32) (ledger.Listing, error) {
	cost, err := ToMinorUnits(e.Price, scale)
	if err != nil {
		return ledger.Listing{}, err
	}
	return ledger.Listing{
		Name:     e.Name,
		Category: e.Category,
		Image:    e.Image,
		Unit:     e.Unit,
		Cost:     cost,
		Rating:   e.Rating,
		Stock:    e.Stock,
	}, nil
}

// ToMinorUnits converts a decimal amount such as "12.50" to an integer
// count of minor units. Amounts with more precision than scale are rejected
// rather than rounded.
func ToMinorUnits(amount string, scale int32) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q: %v", ledger.ErrInvalidInput, amount, err)
	}
	minor := d.Shift(scale)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: amount %q has more than %d decimal places", ledger.ErrInvalidInput, amount, scale)
	}
	if minor.GreaterThan(decimal.NewFromInt(maxInt64)) || minor.LessThan(decimal.NewFromInt(-maxInt64)) {
		return 0, fmt.Errorf("%w: amount %q is out of range", ledger.ErrInvalidInput, amount)
	}
	return minor.IntPart(), nil
}

// FormatMinorUnits is the inverse of ToMinorUnits.
func FormatMinorUnits(minor int64, scale int32) string {
	return decimal.New(minor, -scale).StringFixed(scale)
}

const maxInt64 = 1<<63 - 1
