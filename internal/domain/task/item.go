package task

// ItemTask describes one product detail to fetch and normalize. ItemURL is
// the path fragment from the listing; CategorySlug records which category's
// crawl reached the item and drives the section hierarchy of the record.
type ItemTask struct {
	CategorySlug string `json:"category_slug"`
	ItemURL      string `json:"item_url"`
}

func (t *ItemTask) TaskType() string {
	return "ItemTask"
}

func (t *ItemTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
