package autogestor

import (
	"encoding/json"
	"strings"

	"autosync/core/utils"
)

// Flexible decodes a JSON string or number into its string form.
// The feed is inconsistent about quoting codes, years and prices.
type Flexible string

// UnmarshalJSON accepts strings, numbers and null.
func (f *Flexible) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*f = Flexible(strings.TrimSpace(utils.ToString(v)))
	return nil
}

// String returns the raw string value.
func (f Flexible) String() string { return string(f) }

// FlexibleInt decodes a JSON number or numeric string into an int.
type FlexibleInt int

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *FlexibleInt) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*n = FlexibleInt(utils.ToInt(v))
	return nil
}

// Amount is a price as sent by the feed. Text holds Brazilian notation
// ("89.900,00") when the feed quoted it; Numeric is set when the feed sent a
// bare JSON number, in which case Text is a plain decimal ("89900.5").
type Amount struct {
	Text    string
	Numeric bool
}

// UnmarshalJSON accepts strings, numbers and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	_, a.Numeric = v.(json.Number)
	a.Text = strings.TrimSpace(utils.ToString(v))
	return nil
}

// String returns the raw text of the amount.
func (a Amount) String() string { return a.Text }

// Price is the price object of a vehicle.
type Price struct {
	Sale Amount `json:"venda"`
}

// Vehicle is one inventory record from the AutoGestor feed.
type Vehicle struct {
	Code         Flexible    `json:"codigo"`
	Model        string      `json:"modelo"`
	Brand        string      `json:"marca"`
	ModelYear    Flexible    `json:"ano_modelo"`
	Version      string      `json:"versao"`
	Description  string      `json:"descricao"`
	Price        Price       `json:"preco"`
	Photos       []string    `json:"fotos"`
	Category     string      `json:"categoria"`
	Transmission string      `json:"cambio"`
	Fuel         string      `json:"combustivel"`
	Color        string      `json:"cor"`
	Doors        FlexibleInt `json:"portas"`
	Accessories  []string    `json:"acessorios"`
}

// SKU returns the vehicle code used as the catalog SKU.
func (v Vehicle) SKU() string {
	return v.Code.String()
}

// feed is the top-level response of the source endpoint.
type feed struct {
	Vehicles []Vehicle `json:"veiculos"`
}
