package entities

// Page wraps a listing with pagination counters.
type Page[T any] struct {
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
	Items []T   `json:"items"`
}
