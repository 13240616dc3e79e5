package hotels

import "errors"

var (
	// ErrEmptyDataset is returned when selection runs on a dataset with no
	// valid records.
	ErrEmptyDataset = errors.New("hotel dataset contains no valid records")

	// ErrNoCitiesSelected is returned when the configured city limit leaves
	// nothing to analyse.
	ErrNoCitiesSelected = errors.New("city selection produced no cities")

	// ErrDegenerateCity is returned for a city without hotels. Selection never
	// produces one; the check is defensive.
	ErrDegenerateCity = errors.New("city has no hotels")
)

// HotelRecord is a single validated hotel listing. Records are immutable once
// they pass ingestion; duplicates are permitted.
type HotelRecord struct {
	Country   string  `json:"country" validate:"required"`
	City      string  `json:"city" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Dataset is a bounded batch of validated hotel records.
type Dataset struct {
	records []HotelRecord
}

// NewDataset wraps validated records into a dataset. The slice is copied so
// later mutation by the caller cannot leak in.
func NewDataset(records []HotelRecord) Dataset {
	copied := make([]HotelRecord, len(records))
	copy(copied, records)
	return Dataset{records: copied}
}

// Len returns the number of records in the dataset.
func (d Dataset) Len() int {
	return len(d.records)
}

// Records returns the underlying records. Callers must treat the slice as
// read-only.
func (d Dataset) Records() []HotelRecord {
	return d.records
}

// City groups the hotels sharing a (country, city) key. Two cities with the
// same name in different countries are distinct.
type City struct {
	Name    string        `json:"name"`
	Country string        `json:"country"`
	Hotels  []HotelRecord `json:"hotels,omitempty"`
}

// Key returns a canonical string key for indexing this city.
func (c City) Key() string {
	return c.Name + ":" + c.Country
}

// CityCenter is the representative coordinate for a city's hotel
// distribution, used as the query point for weather data.
type CityCenter struct {
	City      City    `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
