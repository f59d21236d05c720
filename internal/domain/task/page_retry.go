package task

type PageRetryTask struct {
	CategorySlug string `json:"category_slug"`
	PageNumber   int    `json:"page_number"`
	RetryCount   int    `json:"retry_count"`
	Error        string `json:"error"` // Error message from the original failure
}

func (t *PageRetryTask) TaskType() string {
	return "PageRetryTask"
}

func (t *PageRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
