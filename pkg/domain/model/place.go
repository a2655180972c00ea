package model

// Place is a place search hit. ID is issued by the server per search.
type Place struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
