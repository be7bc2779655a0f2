package api

// Envelope is the {code, message, data} wrapper of every backend response.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Page is the paginated list descriptor found in list payloads.
type Page[T any] struct {
	CurrentPage int `json:"current_page"`
	Data        []T `json:"data"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}
