package analysis

import "sort"

// RankDaysByCost returns daily costs sorted descending by cost, earlier date first on ties.
func RankDaysByCost(s *Series) ([]DayCost, error) {
	days, err := DailyCost(s)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Cost.GreaterThan(days[j].Cost)
	})
	return days, nil
}
