package models

// MenuItem represents a dish or drink on the menu
type MenuItem struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Price       int64  `json:"price" db:"price"` // smallest currency unit
	Category    string `json:"category" db:"category"`
	Image       string `json:"image" db:"image"`
	Popular     bool   `json:"popular" db:"popular"`
	Available   bool   `json:"available" db:"available"`
}
