// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// Filters Фильтры профиля поиска
type Filters struct {
	PriceMin    int  `json:"priceMin"`
	PriceMax    int  `json:"priceMax"`
	MinBedrooms int  `json:"minBedrooms"`
	MaxBedrooms int  `json:"maxBedrooms"`
	MinArea     int  `json:"minArea"`
	PostedToday bool `json:"postedToday"`
}

// Profile Профиль поиска
type Profile struct {
	Name    string  `json:"name"`
	Title   string  `json:"title"`
	Filters Filters `json:"filters"`
}

// Travel Время и расстояние до одного направления одним способом
type Travel struct {
	Destination string   `json:"destination"`
	Mode        string   `json:"mode"`
	DistanceKm  *float64 `json:"distanceKm"`
	DurationMin *float64 `json:"durationMin"`
	Score       float64  `json:"score"`
}

// Listing Оценённое объявление
type Listing struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Price        int       `json:"price"`
	Area         int       `json:"area"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	PricePerArea float64   `json:"pricePerArea"`
	PostedAt     time.Time `json:"postedAt"`
	Travel       []Travel  `json:"travel"`
	Score        float64   `json:"score"`
	Rank         int       `json:"rank"`
}

// Batch Результат одного прогона профиля
type Batch struct {
	RunID      string    `json:"runId"`
	Profile    string    `json:"profile"`
	CreatedAt  time.Time `json:"createdAt"`
	Total      int       `json:"total"`
	Considered int       `json:"considered"`
	Top        []Listing `json:"top"`
	Listings   []Listing `json:"listings"`
}

// RunRequest Запрос на внеплановый прогон
type RunRequest struct {
	Profile string `json:"profile" validate:"required,printascii,excludesall=/"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
