package wardstore

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
)

type SortKey string

const (
	SortByRiskScore        SortKey = "riskScore"
	SortByDrainageCapacity SortKey = "drainageCapacity"
	SortByActiveComplaints SortKey = "activeComplaints"
	SortByRiskLevel        SortKey = "riskLevel"
	SortByName             SortKey = "name"
	SortByZone             SortKey = "zone"
	SortByID               SortKey = "id"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case SortByRiskScore, SortByDrainageCapacity, SortByActiveComplaints,
		SortByRiskLevel, SortByName, SortByZone, SortByID:
		return k, nil
	case "":
		return SortByRiskScore, nil
	default:
		return "", &models.ValidationError{Field: "sort", Reason: fmt.Sprintf("unknown key %q", s)}
	}
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "asc":
		return Asc, nil
	case "desc", "":
		return Desc, nil
	default:
		return "", &models.ValidationError{Field: "order", Reason: fmt.Sprintf("unknown order %q", s)}
	}
}

func (k SortKey) textual() bool {
	return k == SortByName || k == SortByZone || k == SortByID
}

// SortState is the table's current sort column. Toggling the active key
// flips the order; choosing a new key starts at descending.
type SortState struct {
	Key   SortKey `json:"key"`
	Order Order   `json:"order"`
}

func DefaultSortState() SortState {
	return SortState{Key: SortByRiskScore, Order: Desc}
}

func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		if s.Order == Asc {
			return SortState{Key: key, Order: Desc}
		}
		return SortState{Key: key, Order: Asc}
	}
	return SortState{Key: key, Order: Desc}
}

// Sorter orders wards with locale-aware collation for text columns. The
// collator itself is not safe for concurrent use, so one is built per call.
type Sorter struct {
	locale language.Tag
}

func NewSorter(locale language.Tag) *Sorter {
	return &Sorter{locale: locale}
}

var defaultSorter = NewSorter(language.English)

// SortWards returns a sorted copy of wards. Ties on the primary key fall back
// to id ascending, then to input order.
func SortWards(wards []models.Ward, key SortKey, order Order) ([]models.Ward, error) {
	return defaultSorter.Sort(wards, key, order)
}

func (s *Sorter) Sort(wards []models.Ward, key SortKey, order Order) ([]models.Ward, error) {
	if _, err := ParseSortKey(string(key)); err != nil || key == "" {
		return nil, &models.ValidationError{Field: "sort", Reason: fmt.Sprintf("unknown key %q", key)}
	}
	if order != Asc && order != Desc {
		return nil, &models.ValidationError{Field: "order", Reason: fmt.Sprintf("unknown order %q", order)}
	}

	var coll *collate.Collator
	if key.textual() {
		coll = collate.New(s.locale)
	}

	out := models.CloneWards(wards)
	slices.SortStableFunc(out, func(a, b models.Ward) int {
		c := comparePrimary(a, b, key, coll)
		if order == Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func comparePrimary(a, b models.Ward, key SortKey, coll *collate.Collator) int {
	switch key {
	case SortByRiskScore:
		return cmp.Compare(a.RiskScore, b.RiskScore)
	case SortByDrainageCapacity:
		return cmp.Compare(a.DrainageCapacity, b.DrainageCapacity)
	case SortByActiveComplaints:
		return cmp.Compare(a.ActiveComplaints, b.ActiveComplaints)
	case SortByRiskLevel:
		return cmp.Compare(a.RiskLevel.Rank(), b.RiskLevel.Rank())
	case SortByName:
		return coll.CompareString(a.Name, b.Name)
	case SortByZone:
		return coll.CompareString(a.Zone, b.Zone)
	case SortByID:
		return coll.CompareString(a.ID, b.ID)
	}
	return 0
}
