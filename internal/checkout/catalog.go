package checkout

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/catalog.yaml
var catalogYAML embed.FS

// SKUProMonthly is the upgrade product named in free-tier upsells.
const SKUProMonthly = "grants_pro_monthly"

// Product is one purchasable plan. Prices are integer cents.
type Product struct {
	SKU        string `yaml:"sku"`
	Name       string `yaml:"name"`
	PriceCents int    `yaml:"price_cents"`
}

// Catalog is the fixed price list checkout requests are priced against.
type Catalog struct {
	Products []Product `yaml:"products"`

	bySKU map[string]Product
}

// LoadCatalog reads the embedded catalog config.
func LoadCatalog() (*Catalog, error) {
	data, err := catalogYAML.ReadFile("config/catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog config: %w", err)
	}

	c.bySKU = make(map[string]Product, len(c.Products))
	for _, p := range c.Products {
		c.bySKU[p.SKU] = p
	}
	return &c, nil
}

// Price returns the unit price for a SKU, reporting whether the SKU is in
// the catalog.
func (c *Catalog) Price(sku string) (int, bool) {
	p, ok := c.bySKU[sku]
	return p.PriceCents, ok
}
