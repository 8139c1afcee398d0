package domain

// ProductRecord is best-effort product metadata resolved from a barcode. Only
// Title is expected; the other fields are empty when the lookup service does
// not know them.
type ProductRecord struct {
	Title       string `json:"title"`
	Brand       string `json:"brand,omitempty"`
	Description string `json:"description,omitempty"`
	Ingredients string `json:"ingredients,omitempty"`
}
