package wardstore

import "github.com/mr1hm/ward-risk-dashboard/internal/models"

const DefaultPriorityCount = 5

// TopPriority returns at most n wards by descending risk score, ties broken
// by id ascending.
func TopPriority(wards []models.Ward, n int) []models.Ward {
	if n <= 0 {
		return []models.Ward{}
	}
	sorted, _ := SortWards(wards, SortByRiskScore, Desc)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// PriorityList prefers the backend's precomputed list and only derives one
// when the overview omits it.
func PriorityList(overview models.Overview, n int) []models.Ward {
	if overview.PriorityWards != nil {
		return models.CloneWards(overview.PriorityWards)
	}
	return TopPriority(overview.Wards, n)
}

func TotalActiveComplaints(wards []models.Ward) int {
	total := 0
	for _, w := range wards {
		if w.ActiveComplaints > 0 {
			total += w.ActiveComplaints
		}
	}
	return total
}
