package api

type Image struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}
