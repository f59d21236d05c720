package client

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

const testDateHeader = "Wed, 21 Oct 2015 07:28:00 GMT"

func testParser() *recordParser {
	return newRecordParser("https://fix-price.com/catalog")
}

func TestParseProduct_FullPayload(t *testing.T) {
	body := []byte(`{
		"sku": "P12345",
		"url": "igrushki/kukla-masha",
		"title": "Кукла Маша",
		"description": "Кукла для детей от трех лет.",
		"brand": {"title": "Fix Toys"},
		"variants": [
			{"id": 1, "price": "100.00", "count": 3, "barcode": "4600000000000", "dimensions": "10x20"},
			{"id": 2, "price": "100.00", "count": 2}
		],
		"specialPrice": {"price": "75.00"},
		"images": [{"src": "https://img.fix-price.com/1.jpg"}, {"src": "https://img.fix-price.com/2.jpg"}],
		"videoLink": "https://video.fix-price.com/v.mp4",
		"properties": [{"title": "Страна", "value": "Россия"}]
	}`)

	record, err := testParser().ParseProduct(body, testDateHeader, []string{"Toys", "Dolls"})
	if err != nil {
		t.Fatalf("ParseProduct returned error: %v", err)
	}

	if record.Timestamp != 1445412480 {
		t.Errorf("Timestamp = %d, want 1445412480", record.Timestamp)
	}
	if record.SKU != "P12345" {
		t.Errorf("SKU = %q, want P12345", record.SKU)
	}
	if record.URL != "https://fix-price.com/catalog/igrushki/kukla-masha" {
		t.Errorf("URL = %q", record.URL)
	}
	if record.Title != "Кукла Маша" {
		t.Errorf("Title = %q", record.Title)
	}
	if len(record.MarketingTags) != 0 {
		t.Errorf("MarketingTags = %v, want empty", record.MarketingTags)
	}
	if record.Brand == nil || *record.Brand != "Fix Toys" {
		t.Errorf("Brand = %v, want Fix Toys", record.Brand)
	}
	if len(record.Section) != 2 || record.Section[0] != "Toys" {
		t.Errorf("Section = %v", record.Section)
	}

	if !record.Price.Original.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("Price.Original = %s, want 100", record.Price.Original)
	}
	if !record.Price.Current.Equal(decimal.RequireFromString("75.00")) {
		t.Errorf("Price.Current = %s, want 75", record.Price.Current)
	}
	if record.Price.SaleTag == nil || *record.Price.SaleTag != "Скидка 25%" {
		t.Errorf("Price.SaleTag = %v, want Скидка 25%%", record.Price.SaleTag)
	}

	if !record.Stock.InStock || record.Stock.Count != 5 {
		t.Errorf("Stock = %+v, want in stock with count 5", record.Stock)
	}

	if record.Assets.MainImage == nil || *record.Assets.MainImage != "https://img.fix-price.com/1.jpg" {
		t.Errorf("Assets.MainImage = %v", record.Assets.MainImage)
	}
	if len(record.Assets.ImageSet) != 2 || record.Assets.ImageSet[0] != *record.Assets.MainImage {
		t.Errorf("Assets.ImageSet = %v, want first entry equal to main image", record.Assets.ImageSet)
	}
	if record.Assets.Panorama != nil {
		t.Errorf("Assets.Panorama = %v, want nil", record.Assets.Panorama)
	}
	if record.Assets.Video == nil || *record.Assets.Video != "https://video.fix-price.com/v.mp4" {
		t.Errorf("Assets.Video = %v", record.Assets.Video)
	}

	if record.Metadata.Description != "Кукла для детей от трех лет." {
		t.Errorf("Metadata.Description = %q", record.Metadata.Description)
	}
	if record.Metadata.Extra["country_of_origin"] != "Россия" {
		t.Errorf("country_of_origin = %v", record.Metadata.Extra["country_of_origin"])
	}
	if record.Metadata.Extra["barcode"] != "4600000000000" {
		t.Errorf("barcode = %v", record.Metadata.Extra["barcode"])
	}
	if record.Metadata.Extra["dimensions"] != "10x20" {
		t.Errorf("dimensions = %v", record.Metadata.Extra["dimensions"])
	}
	for _, excluded := range []string{"id", "price", "count", "image", "title", "properties", "fixPrice"} {
		if _, ok := record.Metadata.Extra[excluded]; ok {
			t.Errorf("excluded key %q leaked into metadata", excluded)
		}
	}

	if record.VariantCount != 2 {
		t.Errorf("VariantCount = %d, want 2", record.VariantCount)
	}
}

func TestParseProduct_NoSpecialPrice(t *testing.T) {
	body := []byte(`{
		"sku": "P1",
		"url": "u",
		"title": "t",
		"description": "",
		"brand": null,
		"variants": [{"price": "49.50", "count": 0}],
		"specialPrice": null,
		"videoLink": null
	}`)

	record, err := testParser().ParseProduct(body, testDateHeader, nil)
	if err != nil {
		t.Fatalf("ParseProduct returned error: %v", err)
	}

	if !record.Price.Current.Equal(record.Price.Original) {
		t.Errorf("Current = %s, Original = %s, want equal", record.Price.Current, record.Price.Original)
	}
	if record.Price.SaleTag != nil {
		t.Errorf("SaleTag = %q, want nil", *record.Price.SaleTag)
	}
	if record.Brand != nil {
		t.Errorf("Brand = %v, want nil", record.Brand)
	}
	if record.Stock.InStock || record.Stock.Count != 0 {
		t.Errorf("Stock = %+v, want out of stock with count 0", record.Stock)
	}
	if record.Assets.MainImage != nil || record.Assets.ImageSet != nil {
		t.Errorf("Assets = %+v, want nil images", record.Assets)
	}
}

func TestParseProduct_SaleTagRounding(t *testing.T) {
	body := []byte(`{
		"sku": "P1",
		"url": "u",
		"title": "t",
		"variants": [{"price": "3", "count": 1}],
		"specialPrice": {"price": "1"}
	}`)

	record, err := testParser().ParseProduct(body, testDateHeader, nil)
	if err != nil {
		t.Fatalf("ParseProduct returned error: %v", err)
	}

	// (3-1)/3*100 rounded to 2 places
	if record.Price.SaleTag == nil || *record.Price.SaleTag != "Скидка 66.67%" {
		t.Errorf("SaleTag = %v, want Скидка 66.67%%", record.Price.SaleTag)
	}
}

func TestParseProduct_VideoMissingAndNullAreEqual(t *testing.T) {
	missing := []byte(`{"sku": "P1", "url": "u", "title": "t", "variants": [{"price": "1", "count": 1}]}`)
	explicitNull := []byte(`{"sku": "P1", "url": "u", "title": "t", "videoLink": null, "variants": [{"price": "1", "count": 1}]}`)

	for name, body := range map[string][]byte{"missing key": missing, "explicit null": explicitNull} {
		record, err := testParser().ParseProduct(body, testDateHeader, nil)
		if err != nil {
			t.Fatalf("%s: ParseProduct returned error: %v", name, err)
		}
		if record.Assets.Video != nil {
			t.Errorf("%s: Assets.Video = %v, want nil", name, record.Assets.Video)
		}
	}
}

func TestParseProduct_Metadata_NoProperties(t *testing.T) {
	body := []byte(`{
		"sku": "P1",
		"url": "u",
		"title": "t",
		"variants": [{"price": "1", "count": 1}],
		"properties": []
	}`)

	record, err := testParser().ParseProduct(body, testDateHeader, nil)
	if err != nil {
		t.Fatalf("ParseProduct returned error: %v", err)
	}
	if _, ok := record.Metadata.Extra["country_of_origin"]; ok {
		t.Error("country_of_origin present with empty properties list")
	}
}

func TestParseProduct_StructuralFailures(t *testing.T) {
	valid := `{"sku": "P1", "url": "u", "title": "t", "variants": [{"price": "1", "count": 1}]}`

	tests := []struct {
		name       string
		body       string
		dateHeader string
	}{
		{name: "invalid json", body: `{`, dateHeader: testDateHeader},
		{name: "missing date header", body: valid, dateHeader: ""},
		{name: "malformed date header", body: valid, dateHeader: "yesterday"},
		{name: "missing sku", body: `{"url": "u", "title": "t", "variants": [{"price": "1"}]}`, dateHeader: testDateHeader},
		{name: "missing title", body: `{"sku": "P1", "url": "u", "variants": [{"price": "1"}]}`, dateHeader: testDateHeader},
		{name: "missing url", body: `{"sku": "P1", "title": "t", "variants": [{"price": "1"}]}`, dateHeader: testDateHeader},
		{name: "no variants", body: `{"sku": "P1", "url": "u", "title": "t", "variants": []}`, dateHeader: testDateHeader},
		{name: "variant without price", body: `{"sku": "P1", "url": "u", "title": "t", "variants": [{"count": 1}]}`, dateHeader: testDateHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testParser().ParseProduct([]byte(tt.body), tt.dateHeader, nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidItem) {
				t.Errorf("error %v is not ErrInvalidItem", err)
			}
		})
	}
}

func TestParseProduct_NumericPrice(t *testing.T) {
	// The upstream usually sends prices as strings but has sent bare numbers.
	body := []byte(`{"sku": "P1", "url": "u", "title": "t", "variants": [{"price": 42.5, "count": 1}]}`)

	record, err := testParser().ParseProduct(body, testDateHeader, nil)
	if err != nil {
		t.Fatalf("ParseProduct returned error: %v", err)
	}
	if !record.Price.Original.Equal(decimal.RequireFromString("42.5")) {
		t.Errorf("Price.Original = %s, want 42.5", record.Price.Original)
	}
}
