package domain

// ListingItem is one lightweight item summary from a category listing page.
// URL is the item path fragment used to address the detail endpoint.
type ListingItem struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// CatalogPage is one fetched listing page of a category.
type CatalogPage struct {
	CategorySlug string        `json:"category_slug"`
	PageNumber   int           `json:"page_number"`
	Items        []ListingItem `json:"items"`
}
