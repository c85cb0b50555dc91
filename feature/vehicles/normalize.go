package vehicles

import (
	"errors"
	"strings"

	"autosync/core/autogestor"
	"autosync/core/woocommerce"

	"github.com/shopspring/decimal"
)

// ErrMissingSKU is returned for a feed record without a code.
var ErrMissingSKU = errors.New("vehicle has no code")

const accessoriesHeader = "\n\n<b>Lista de Acessórios:</b>\n"

// Payload is a vehicle in catalog shape.
type Payload struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	// CategoryID is 0 when the brand is unmapped.
	CategoryID int
	TagIDs     []int
	Images     []string
	// ClearShortDescription writes an empty short description on update.
	ClearShortDescription bool
}

// CreateInput renders the batch create body of the payload.
func (p Payload) CreateInput() woocommerce.ProductInput {
	empty := ""
	virtual := false

	in := p.baseInput()
	in.Type = "simple"
	in.CatalogVisibility = "visible"
	in.ShortDescription = &empty
	in.SKU = p.SKU
	in.Virtual = &virtual
	return in
}

// UpdateInput renders the batch update body of the payload for product id.
func (p Payload) UpdateInput(id int) woocommerce.ProductInput {
	in := p.baseInput()
	in.ID = id
	if p.ClearShortDescription {
		empty := ""
		in.ShortDescription = &empty
	}
	return in
}

func (p Payload) baseInput() woocommerce.ProductInput {
	images := make([]woocommerce.Image, 0, len(p.Images))
	for _, src := range p.Images {
		images = append(images, woocommerce.Image{Src: src})
	}

	categories := []woocommerce.Ref{}
	if p.CategoryID != 0 {
		categories = append(categories, woocommerce.Ref{ID: p.CategoryID})
	}

	tags := make([]woocommerce.Ref, 0, len(p.TagIDs))
	for _, id := range p.TagIDs {
		tags = append(tags, woocommerce.Ref{ID: id})
	}

	return woocommerce.ProductInput{
		Name:         p.Name,
		Description:  p.Description,
		RegularPrice: FormatPrice(p.Price),
		Images:       images,
		Categories:   categories,
		Tags:         tags,
	}
}

// Normalizer converts feed vehicles into catalog payloads.
type Normalizer struct {
	tables  Tables
	profile Profile
}

// NewNormalizer creates a normalizer over the given tables and profile.
func NewNormalizer(tables Tables, profile Profile) *Normalizer {
	if profile.DisplayName == nil {
		profile = ClassicProfile()
	}
	return &Normalizer{tables: tables, profile: profile}
}

// Profile returns the active profile.
func (n *Normalizer) Profile() Profile {
	return n.profile
}

// Normalize derives the catalog payload of a vehicle. It fails only for a
// missing code or a malformed price.
func (n *Normalizer) Normalize(v autogestor.Vehicle) (Payload, error) {
	sku := v.SKU()
	if sku == "" {
		return Payload{}, ErrMissingSKU
	}

	price, err := ParsePrice(v.Price.Sale)
	if err != nil {
		return Payload{}, err
	}

	category, _ := n.tables.Category(v.Brand)

	images := make([]string, len(v.Photos))
	copy(images, v.Photos)

	return Payload{
		SKU:                   sku,
		Name:                  n.profile.DisplayName(v),
		Description:           BuildDescription(v.Description, v.Accessories),
		Price:                 price,
		CategoryID:            category,
		TagIDs:                n.tables.TagIDs(v),
		Images:                images,
		ClearShortDescription: n.profile.CheckShortDescription,
	}, nil
}

// BuildDescription appends the accessory list to the free-text description,
// one "- item" line per accessory.
func BuildDescription(description string, accessories []string) string {
	lines := make([]string, 0, len(accessories))
	for _, a := range accessories {
		lines = append(lines, "- "+a)
	}
	return description + accessoriesHeader + strings.Join(lines, "\n")
}
