package entity

import (
	"bytes"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// RawValue is a listing field that the source sends either as a JSON number
// or as a display string ("$3500", "850ft2").
type RawValue struct {
	Number *float64
	Text   *string
}

func NumberValue(v float64) RawValue {
	return RawValue{Number: &v}
}

func TextValue(v string) RawValue {
	return RawValue{Text: &v}
}

func (v RawValue) IsNull() bool {
	return v.Number == nil && v.Text == nil
}

func (v *RawValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = RawValue{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("raw value: %w", err)
		}
		*v = TextValue(s)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("raw value: %w", err)
		}
		*v = NumberValue(f)
	}

	return nil
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.Number != nil:
		return json.Marshal(*v.Number)
	case v.Text != nil:
		return json.Marshal(*v.Text)
	default:
		return []byte("null"), nil
	}
}

// RawListing — запись в том виде, в каком её отдаёт источник объявлений.
type RawListing struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	Name        string      `json:"name"`
	Body        string      `json:"body"`
	Price       RawValue    `json:"price"`
	Area        RawValue    `json:"area"`
	Bedrooms    *int        `json:"bedrooms"`
	Bathrooms   *float64    `json:"bathrooms"`
	Geotag      *[2]float64 `json:"geotag"`
	Datetime    string      `json:"datetime"`
	Created     string      `json:"created"`
	LastUpdated string      `json:"last_updated"`
}
