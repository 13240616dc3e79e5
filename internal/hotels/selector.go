package hotels

import "sort"

// SelectTop groups the dataset by (country, city) and returns the k cities
// with the most hotels, ordered by hotel count descending. Equal counts are
// broken by city name, then country, ascending, so the result is
// deterministic regardless of input order. Cities beyond the limit are
// dropped; that is expected filtering, not an error.
func SelectTop(ds Dataset, k int) ([]City, error) {
	if ds.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	if k <= 0 {
		return nil, ErrNoCitiesSelected
	}

	groups := make(map[string]*City)
	var order []string

	for _, rec := range ds.Records() {
		key := rec.City + ":" + rec.Country
		city, ok := groups[key]
		if !ok {
			city = &City{Name: rec.City, Country: rec.Country}
			groups[key] = city
			order = append(order, key)
		}
		city.Hotels = append(city.Hotels, rec)
	}

	cities := make([]City, 0, len(order))
	for _, key := range order {
		cities = append(cities, *groups[key])
	}

	sort.SliceStable(cities, func(i, j int) bool {
		if len(cities[i].Hotels) != len(cities[j].Hotels) {
			return len(cities[i].Hotels) > len(cities[j].Hotels)
		}
		if cities[i].Name != cities[j].Name {
			return cities[i].Name < cities[j].Name
		}
		return cities[i].Country < cities[j].Country
	})

	if len(cities) > k {
		cities = cities[:k]
	}
	return cities, nil
}
