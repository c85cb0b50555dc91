package vehicles

import (
	"fmt"
	"strconv"
	"strings"

	"autosync/core/autogestor"

	"github.com/spf13/viper"
)

// Tables maps vehicle attributes to catalog taxonomy ids.
// Keys are lower-case; lookups lower-case and trim the source value.
type Tables struct {
	Brands        map[string]int `mapstructure:"brands" json:"brands"`
	Transmissions map[string]int `mapstructure:"transmissions" json:"transmissions"`
	Colors        map[string]int `mapstructure:"colors" json:"colors"`
	Fuels         map[string]int `mapstructure:"fuels" json:"fuels"`
	Doors         map[string]int `mapstructure:"doors" json:"doors"`
}

// DefaultTables returns the production taxonomy ids of the storefront.
func DefaultTables() Tables {
	return Tables{
		Brands: map[string]int{
			"audi":            97,
			"bmw":             98,
			"byd":             100,
			"chery":           101,
			"chevrolet":       102,
			"citroen":         103,
			"fiat":            104,
			"ford":            105,
			"harley davidson": 106,
			"honda":           107,
			"hyundai":         108,
			"jaguar":          109,
			"jeep":            110,
			"kia":             111,
			"land rover":      112,
			"mercedes_benz":   113,
			"mercedes-benz":   113,
			"mitsubishi":      114,
			"nissan":          115,
			"porsche":         116,
			"ram":             117,
			"renault":         118,
			"suzuki":          119,
			"toyota":          120,
			"volkswagen":      99,
			"volvo":           121,
		},
		Transmissions: map[string]int{
			"automatico": 55,
			"manual":     56,
			"cvt":        87,
			"pdk":        88,
		},
		Colors: map[string]int{
			"azul":     71,
			"bege":     72,
			"branco":   73,
			"cinza":    74,
			"dourado":  75,
			"laranja":  76,
			"prata":    77,
			"preto":    78,
			"rosa":     79,
			"verde":    80,
			"vermelho": 81,
		},
		Fuels: map[string]int{
			"diesel":   82,
			"eletrico": 83,
			"flex":     84,
			"gasolina": 85,
			"hibrido":  86,
		},
		Doors: map[string]int{
			"2": 122,
			"4": 90,
		},
	}
}

// LoadTables reads overrides from a YAML or JSON file and merges them over
// DefaultTables. Entries in the file replace or extend the defaults; an empty
// path returns the defaults.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Tables{}, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	var overrides Tables
	if err := v.Unmarshal(&overrides); err != nil {
		return Tables{}, fmt.Errorf("failed to decode mapping file %s: %w", path, err)
	}

	merge(tables.Brands, overrides.Brands)
	merge(tables.Transmissions, overrides.Transmissions)
	merge(tables.Colors, overrides.Colors)
	merge(tables.Fuels, overrides.Fuels)
	merge(tables.Doors, overrides.Doors)
	return tables, nil
}

func merge(dst, src map[string]int) {
	for k, id := range src {
		dst[normalizeKey(k)] = id
	}
}

func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func lookup(table map[string]int, v string) (int, bool) {
	id, ok := table[normalizeKey(v)]
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// Category returns the category id of a brand.
func (t Tables) Category(brand string) (int, bool) {
	return lookup(t.Brands, brand)
}

// Transmission returns the tag id of a transmission type.
func (t Tables) Transmission(v string) (int, bool) {
	return lookup(t.Transmissions, v)
}

// Color returns the tag id of a color.
func (t Tables) Color(v string) (int, bool) {
	return lookup(t.Colors, v)
}

// Fuel returns the tag id of a fuel type.
func (t Tables) Fuel(v string) (int, bool) {
	return lookup(t.Fuels, v)
}

// DoorTag returns the tag id of a door count.
func (t Tables) DoorTag(n int) (int, bool) {
	return lookup(t.Doors, strconv.Itoa(n))
}

// TagIDs derives the tag ids of a vehicle in transmission, color, fuel, doors
// order. Unmapped attributes are skipped.
func (t Tables) TagIDs(v autogestor.Vehicle) []int {
	tags := make([]int, 0, 4)
	if id, ok := t.Transmission(v.Transmission); ok {
		tags = append(tags, id)
	}
	if id, ok := t.Color(v.Color); ok {
		tags = append(tags, id)
	}
	if id, ok := t.Fuel(v.Fuel); ok {
		tags = append(tags, id)
	}
	if id, ok := t.DoorTag(int(v.Doors)); ok {
		tags = append(tags, id)
	}
	return tags
}
