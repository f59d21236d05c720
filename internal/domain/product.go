package domain

// Brand is the optional brand object of a product payload.
type Brand struct {
	Title string `json:"title"`
}

// SpecialPrice is the optional discounted price object of a product payload.
// The upstream sends prices as decimal strings.
type SpecialPrice struct {
	Price string `json:"price"`
}

// ProductImage is one entry of the optional images array.
type ProductImage struct {
	Src string `json:"src"`
}

// ProductProperty is one entry of the optional properties array.
type ProductProperty struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// ProductPayload mirrors the upstream product detail JSON. Variants are kept
// as open maps: besides price/count they carry an arbitrary attribute set
// that feeds the metadata record.
type ProductPayload struct {
	SKU          string            `json:"sku"`
	URL          string            `json:"url"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Brand        *Brand            `json:"brand"`
	SpecialPrice *SpecialPrice     `json:"specialPrice"`
	Images       []ProductImage    `json:"images"`
	VideoLink    *string           `json:"videoLink"`
	Properties   []ProductProperty `json:"properties"`
	Variants     []map[string]any  `json:"variants"`
}
