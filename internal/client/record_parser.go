package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ErrInvalidItem marks a structurally broken item payload: a required field
// is missing so the record is dropped. Callers must not retry these.
var ErrInvalidItem = errors.New("invalid item payload")

// metadataExcludedKeys are the first-variant attributes that never become
// dynamic metadata: they are either structural or already mapped to typed
// record fields.
var metadataExcludedKeys = map[string]struct{}{
	"id":         {},
	"image":      {},
	"title":      {},
	"properties": {},
	"count":      {},
	"price":      {},
	"fixPrice":   {},
}

type recordParser struct {
	siteURL string
}

func newRecordParser(siteURL string) *recordParser {
	return &recordParser{
		siteURL: siteURL,
	}
}

// ParseProduct normalizes one product detail response into a CatalogRecord.
// dateHeader is the raw Date response header; section is the resolved
// category hierarchy of the triggering category. Any missing required field
// fails the single item.
func (p *recordParser) ParseProduct(body []byte, dateHeader string, section []string) (*domain.CatalogRecord, error) {
	var payload domain.ProductPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode product payload: %v", ErrInvalidItem, err)
	}

	timestamp, err := parseDateHeader(dateHeader)
	if err != nil {
		return nil, err
	}

	if payload.SKU == "" {
		return nil, fmt.Errorf("%w: product payload has no sku", ErrInvalidItem)
	}
	if payload.Title == "" {
		return nil, fmt.Errorf("%w: product %s has no title", ErrInvalidItem, payload.SKU)
	}
	if payload.URL == "" {
		return nil, fmt.Errorf("%w: product %s has no url", ErrInvalidItem, payload.SKU)
	}
	if len(payload.Variants) == 0 {
		return nil, fmt.Errorf("%w: product %s has no variants", ErrInvalidItem, payload.SKU)
	}

	price, err := p.parsePrice(&payload)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s: %v", ErrInvalidItem, payload.SKU, err)
	}

	record := &domain.CatalogRecord{
		Timestamp:     timestamp,
		SKU:           payload.SKU,
		URL:           fmt.Sprintf("%s/%s", p.siteURL, payload.URL),
		Title:         payload.Title,
		MarketingTags: []string{},
		Brand:         parseBrand(payload.Brand),
		Section:       section,
		Price:         price,
		Stock:         parseStock(payload.Variants),
		Assets:        parseAssets(&payload),
		Metadata:      parseMetadata(&payload),
		VariantCount:  len(payload.Variants),
	}

	return record, nil
}

// parseDateHeader converts the response Date header to epoch seconds. The
// record timestamp has no fallback: an absent or malformed header drops the
// item.
func parseDateHeader(dateHeader string) (int64, error) {
	if dateHeader == "" {
		return 0, fmt.Errorf("%w: response has no Date header", ErrInvalidItem)
	}
	t, err := time.Parse(time.RFC1123, dateHeader)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid Date header %q: %v", ErrInvalidItem, dateHeader, err)
	}
	return t.Unix(), nil
}

func parseBrand(brand *domain.Brand) *string {
	if brand == nil {
		return nil
	}
	title := brand.Title
	return &title
}

// parsePrice derives the price block from the first variant's listed price
// and the optional special price. The sale tag embeds the discount
// percentage rounded to 2 decimal places.
func (p *recordParser) parsePrice(payload *domain.ProductPayload) (domain.PriceInfo, error) {
	original, err := decimalAttr(payload.Variants[0], "price")
	if err != nil {
		return domain.PriceInfo{}, fmt.Errorf("invalid variant price: %w", err)
	}

	price := domain.PriceInfo{
		Current:  original,
		Original: original,
	}

	if payload.SpecialPrice != nil {
		current, err := decimal.NewFromString(payload.SpecialPrice.Price)
		if err != nil {
			return domain.PriceInfo{}, fmt.Errorf("invalid special price %q: %w", payload.SpecialPrice.Price, err)
		}
		price.Current = current
		if original.IsPositive() {
			percent := original.Sub(current).Div(original).Mul(decimal.NewFromInt(100)).Round(2)
			saleTag := fmt.Sprintf("Скидка %s%%", percent.String())
			price.SaleTag = &saleTag
		}
	}

	return price, nil
}

// parseStock sums variant counts. A variant without a count contributes
// nothing rather than failing the item.
func parseStock(variants []map[string]any) domain.StockInfo {
	count := 0
	for _, variant := range variants {
		if c, err := cast.ToIntE(variant["count"]); err == nil {
			count += c
		}
	}
	return domain.StockInfo{
		InStock: count > 0,
		Count:   count,
	}
}

func parseAssets(payload *domain.ProductPayload) domain.AssetInfo {
	assets := domain.AssetInfo{
		// A missing videoLink key and an explicit null both decode to nil.
		Video: payload.VideoLink,
	}

	if len(payload.Images) > 0 {
		imageSet := make([]string, 0, len(payload.Images))
		for _, image := range payload.Images {
			imageSet = append(imageSet, image.Src)
		}
		assets.MainImage = &imageSet[0]
		assets.ImageSet = imageSet
	}

	return assets
}

// parseMetadata builds the open metadata mapping from the first variant's
// attribute set minus the excluded keys, plus a derived country_of_origin
// when the payload carries a non-empty properties list.
func parseMetadata(payload *domain.ProductPayload) domain.MetadataRecord {
	extra := make(map[string]any)
	for key, value := range payload.Variants[0] {
		if _, excluded := metadataExcludedKeys[key]; excluded {
			continue
		}
		extra[key] = value
	}

	if len(payload.Properties) > 0 {
		extra["country_of_origin"] = payload.Properties[0].Value
	}

	return domain.MetadataRecord{
		Description: payload.Description,
		Extra:       extra,
	}
}

// decimalAttr reads one attribute of an open variant map as a decimal. The
// upstream sends prices as strings but has been seen sending bare numbers.
func decimalAttr(variant map[string]any, key string) (decimal.Decimal, error) {
	value, ok := variant[key]
	if !ok || value == nil {
		return decimal.Decimal{}, fmt.Errorf("missing %s attribute", key)
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("non-scalar %s attribute: %w", key, err)
	}
	return decimal.NewFromString(s)
}
