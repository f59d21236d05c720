package domain

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// PriceInfo carries the monetary state of a record. Current equals Original
// unless a special price applies, in which case SaleTag is set as well.
type PriceInfo struct {
	Current  decimal.Decimal `json:"current"`
	Original decimal.Decimal `json:"original"`
	SaleTag  *string         `json:"sale_tag"`
}

// StockInfo aggregates availability across all variants.
// InStock is true exactly when Count > 0.
type StockInfo struct {
	InStock bool `json:"in_stock"`
	Count   int  `json:"count"`
}

// AssetInfo holds media references. Panorama is always nil: the upstream does
// not expose the feature. ImageSet, when present, starts with MainImage.
type AssetInfo struct {
	MainImage *string  `json:"main_image"`
	ImageSet  []string `json:"image_set"`
	Panorama  *string  `json:"panorama"`
	Video     *string  `json:"video"`
}

// MetadataRecord is the open metadata mapping: a mandatory description plus
// dynamic keys taken from the first variant's attribute set.
type MetadataRecord struct {
	Description string
	Extra       map[string]any
}

// MarshalJSON flattens the record into one object: "description" first,
// extras in sorted key order so output is deterministic.
func (m MetadataRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"description":`)

	desc, err := json.Marshal(m.Description)
	if err != nil {
		return nil, err
	}
	buf.Write(desc)

	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.Extra[k])
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores the flat object form produced by MarshalJSON.
func (m *MetadataRecord) UnmarshalJSON(data []byte) error {
	raw := make(map[string]any)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if desc, ok := raw["description"].(string); ok {
		m.Description = desc
	}
	delete(raw, "description")
	m.Extra = raw
	return nil
}

// CatalogRecord is the normalized output unit, one per fetched item per
// triggering category.
type CatalogRecord struct {
	Timestamp     int64          `json:"timestamp"`
	SKU           string         `json:"sku"`
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	MarketingTags []string       `json:"marketing_tags"`
	Brand         *string        `json:"brand"`
	Section       []string       `json:"section"`
	Price         PriceInfo      `json:"price"`
	Stock         StockInfo      `json:"stock"`
	Assets        AssetInfo      `json:"assets"`
	Metadata      MetadataRecord `json:"metadata"`
	VariantCount  int            `json:"variant_count"`
}
