package vehicles

import (
	"fmt"
	"slices"
	"strconv"

	"autosync/core/woocommerce"
)

// Compare checks a payload against its catalog product and returns one
// description per mismatching field. Description and images are never
// compared: the catalog reformats HTML and rehosts images.
func Compare(p Payload, product woocommerce.Product, profile Profile) []string {
	mismatches := []string{}

	if p.Name != product.Name {
		mismatches = append(mismatches, fmt.Sprintf("name: src='%s' dst='%s'", p.Name, product.Name))
	}

	if profile.CheckShortDescription && product.ShortDescription != "" {
		mismatches = append(mismatches, fmt.Sprintf("short_description: dst='%s'", product.ShortDescription))
	}

	if p.SKU != product.SKU {
		mismatches = append(mismatches, fmt.Sprintf("sku: src='%s' dst='%s'", p.SKU, product.SKU))
	}

	dstPrice, err := ParseCatalogPrice(product.RegularPrice)
	if err != nil || !p.Price.Equal(dstPrice) {
		mismatches = append(mismatches, fmt.Sprintf("price: src=%s dst='%s'", FormatPrice(p.Price), product.RegularPrice))
	}

	if p.CategoryID != 0 && !slices.Contains(product.CategoryIDs(), p.CategoryID) {
		mismatches = append(mismatches, fmt.Sprintf("category: src=%d dst=%v", p.CategoryID, product.CategoryIDs()))
	}

	dstTags := product.TagIDs()
	for _, id := range p.TagIDs {
		if !slices.Contains(dstTags, id) {
			mismatches = append(mismatches, "tag: missing "+strconv.Itoa(id))
		}
	}

	return mismatches
}

// Equivalent reports whether the product already reflects the payload.
func Equivalent(p Payload, product woocommerce.Product, profile Profile) bool {
	return len(Compare(p, product, profile)) == 0
}
