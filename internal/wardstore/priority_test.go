package wardstore

import (
	"math/rand"
	"testing"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
)

func TestTopPriority_AtMostN(t *testing.T) {
	wards := sampleWards()
	wards = append(wards,
		models.Ward{ID: "W06", RiskScore: 99},
		models.Ward{ID: "W07", RiskScore: 5},
	)

	got := TopPriority(wards, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 wards, got %d", len(got))
	}
	if got[0].ID != "W06" {
		t.Errorf("expected highest risk first, got %s", got[0].ID)
	}

	returned := map[string]bool{}
	minReturned := got[0].RiskScore
	for _, w := range got {
		returned[w.ID] = true
		if w.RiskScore < minReturned {
			minReturned = w.RiskScore
		}
	}
	for _, w := range wards {
		if !returned[w.ID] && w.RiskScore > minReturned {
			t.Errorf("ward %s (%v) left out while %v was returned", w.ID, w.RiskScore, minReturned)
		}
	}
}

func TestTopPriority_FewerThanN(t *testing.T) {
	got := TopPriority(sampleWards()[:3], 5)
	if len(got) != 3 {
		t.Errorf("expected 3 wards, got %d", len(got))
	}
	if got := TopPriority(nil, 5); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestPriorityList_BackendListWins(t *testing.T) {
	backend := []models.Ward{{ID: "W02", RiskScore: 12}}
	overview := models.Overview{Wards: sampleWards(), PriorityWards: backend}

	got := PriorityList(overview, 5)
	if len(got) != 1 || got[0].ID != "W02" {
		t.Errorf("expected backend priority list, got %v", ids(got))
	}

	overview.PriorityWards = nil
	got = PriorityList(overview, 2)
	if len(got) != 2 || got[0].ID != "W03" {
		t.Errorf("expected derived list, got %v", ids(got))
	}
}

func TestTotalActiveComplaints(t *testing.T) {
	if got := TotalActiveComplaints(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %d", got)
	}

	wards := sampleWards()
	want := TotalActiveComplaints(wards)
	if want != 7 {
		t.Errorf("expected 7 complaints, got %d", want)
	}

	for i := 0; i < 10; i++ {
		rand.Shuffle(len(wards), func(a, b int) { wards[a], wards[b] = wards[b], wards[a] })
		if got := TotalActiveComplaints(wards); got != want {
			t.Fatalf("total changed under reordering: %d vs %d", got, want)
		}
	}
}
