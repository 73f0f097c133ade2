package domain

import (
	"time"

	"github.com/google/uuid"
)

// Price - ценовой уровень заведения
type Price string

const (
	PriceLow      Price = "$"
	PriceModerate Price = "$$"
	PriceHigh     Price = "$$$"
	PriceLuxury   Price = "$$$$"
)

// Prices - все допустимые ценовые уровни
var Prices = []Price{PriceLow, PriceModerate, PriceHigh, PriceLuxury}

// Valid проверяет, что цена - один из четырёх уровней
func (p Price) Valid() bool {
	for _, known := range Prices {
		if p == known {
			return true
		}
	}
	return false
}

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Category - категория заведения (alias + человекочитаемое название)
type Category struct {
	Alias string `json:"alias" db:"alias"`
	Title string `json:"title" db:"title"`
}

// Location - заведение (точка интереса). Создаётся при загрузке,
// поиском никогда не изменяется.
type Location struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Alias          string    `json:"alias" db:"alias"`
	ImageURL       string    `json:"image_url" db:"image_url"`
	Neighborhood   string    `json:"neighborhood" db:"neighborhood"`
	Category       *Category `json:"category,omitempty"`
	Price          *Price    `json:"price,omitempty" db:"price"`
	Rating         float64   `json:"rating" db:"rating"`
	ReviewCount    int       `json:"review_count" db:"review_count"`
	URL            string    `json:"url" db:"url"`
	Coordinates    GeoPoint  `json:"coordinates"`
	DisplayPhone   string    `json:"display_phone" db:"display_phone"`
	DisplayAddress []string  `json:"display_address"`
	IsClosed       bool      `json:"is_closed" db:"is_closed"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// LocationPage - страница локаций для пакетной переиндексации
type LocationPage struct {
	Items          []*Location
	IsDone         bool
	ContinueCursor string
}

// CategoryCount - известная категория и её популярность в загруженных данных
type CategoryCount struct {
	Alias string `json:"alias" db:"alias"`
	Title string `json:"title" db:"title"`
	Count int    `json:"count" db:"popularity"`
}
