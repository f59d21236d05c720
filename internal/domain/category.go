package domain

// CategoryNode is one node of the category menu returned by the upstream API.
// The menu forms a forest; children live in Items, matching the API field name.
type CategoryNode struct {
	Alias string         `json:"alias"`
	Title string         `json:"title"`
	Items []CategoryNode `json:"items"`
}
