package domain

// City is one entry of the city reference list. The ID is the value passed as
// the x-city header on catalog requests.
type City struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
