package task

// CatalogPageTask describes one listing page to fetch. Paging starts at 1;
// the page is addressed by the category slug it was discovered under.
type CatalogPageTask struct {
	CategorySlug string `json:"category_slug"`
	PageNumber   int    `json:"page_number"`
}

func (t *CatalogPageTask) TaskType() string {
	return "CatalogPageTask"
}

func (t *CatalogPageTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
