package hotels

import (
	"errors"
	"testing"
)

func record(country, city, name string) HotelRecord {
	return HotelRecord{
		Country:   country,
		City:      city,
		Name:      name,
		Latitude:  48.85,
		Longitude: 2.35,
	}
}

func TestSelectTopRanksByHotelCount(t *testing.T) {
	ds := NewDataset([]HotelRecord{
		record("FR", "Marseille", "a"),
		record("FR", "Paris", "b"),
		record("FR", "Paris", "c"),
		record("FR", "Paris", "d"),
		record("UK", "London", "e"),
		record("UK", "London", "f"),
	})

	cities, err := SelectTop(ds, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities) != 3 {
		t.Fatalf("expected 3 cities, got %d", len(cities))
	}
	if cities[0].Name != "Paris" || len(cities[0].Hotels) != 3 {
		t.Fatalf("expected Paris first with 3 hotels, got %s with %d", cities[0].Name, len(cities[0].Hotels))
	}
	if cities[1].Name != "London" {
		t.Fatalf("expected London second, got %s", cities[1].Name)
	}
}

func TestSelectTopKeepsAtMostK(t *testing.T) {
	ds := NewDataset([]HotelRecord{
		record("FR", "Paris", "a"),
		record("FR", "Paris", "b"),
		record("UK", "London", "c"),
		record("DE", "Berlin", "d"),
	})

	cities, err := SelectTop(ds, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities) != 2 {
		t.Fatalf("expected 2 cities, got %d", len(cities))
	}
}

func TestSelectTopTieBreaksLexicographically(t *testing.T) {
	// Same count everywhere; order must not depend on input order.
	ds := NewDataset([]HotelRecord{
		record("UK", "York", "a"),
		record("DE", "Berlin", "b"),
		record("FR", "Paris", "c"),
	})

	cities, err := SelectTop(ds, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Berlin", "Paris", "York"}
	for i, name := range want {
		if cities[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, cities[i].Name)
		}
	}
}

func TestSelectTopSameNameDifferentCountryIsDistinct(t *testing.T) {
	ds := NewDataset([]HotelRecord{
		record("US", "Paris", "a"),
		record("FR", "Paris", "b"),
		record("FR", "Paris", "c"),
	})

	cities, err := SelectTop(ds, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities) != 2 {
		t.Fatalf("expected 2 distinct cities, got %d", len(cities))
	}
	if cities[0].Country != "FR" || len(cities[0].Hotels) != 2 {
		t.Fatalf("expected Paris,FR first with 2 hotels, got %s,%s", cities[0].Name, cities[0].Country)
	}
}

func TestSelectTopEmptyDataset(t *testing.T) {
	_, err := SelectTop(NewDataset(nil), 5)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestSelectTopZeroLimit(t *testing.T) {
	ds := NewDataset([]HotelRecord{record("FR", "Paris", "a")})
	_, err := SelectTop(ds, 0)
	if !errors.Is(err, ErrNoCitiesSelected) {
		t.Fatalf("expected ErrNoCitiesSelected, got %v", err)
	}
}
