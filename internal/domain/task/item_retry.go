package task

type ItemRetryTask struct {
	CategorySlug string `json:"category_slug"`
	ItemURL      string `json:"item_url"`
	RetryCount   int    `json:"retry_count"`
	Error        string `json:"error"`         // Error message from the original failure
	FailureStage string `json:"failure_stage"` // "fetch" or "save" - which stage failed
}

func (t *ItemRetryTask) TaskType() string {
	return "ItemRetryTask"
}

func (t *ItemRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
