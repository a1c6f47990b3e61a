package entity

import "fmt"

type Filters struct {
	PriceMin    int  `json:"price_min"`
	PriceMax    int  `json:"price_max"`
	MinBedrooms int  `json:"min_bedrooms"`
	MaxBedrooms int  `json:"max_bedrooms"`
	MinArea     int  `json:"min_area"`
	PostedToday bool `json:"posted_today"`
}

func (f Filters) Key() string {
	return fmt.Sprintf("%d-%d:%d-%d:%d:%t",
		f.PriceMin, f.PriceMax, f.MinBedrooms, f.MaxBedrooms, f.MinArea, f.PostedToday)
}

// Profile — один набор фильтров, в дайджесте это отдельная секция.
type Profile struct {
	Name    string
	Title   string
	Filters Filters
}
