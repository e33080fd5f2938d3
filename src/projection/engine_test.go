package projection

import (
	"errors"
	"reflect"
	"testing"

	"ge-tracker/src/models"
	"ge-tracker/src/store"
)

func fptr(v float64) *float64 { return &v }

// testSnapshot builds a snapshot with three flippable items and one with a
// missing buy side.
func testSnapshot() store.Snapshot {
	return store.Snapshot{
		Mapping: map[int]models.MItemMeta{
			1: {ID: 1, Name: "Abyssal whip"},
			2: {ID: 2, Name: "Ranarr seed"},
			3: {ID: 3, Name: "Yew logs"},
			4: {ID: 4, Name: "Broken item"},
		},
		Latest: map[int]models.MPriceQuote{
			1: {Low: fptr(100), High: fptr(150)}, // profit 50, 50%
			2: {Low: fptr(200), High: fptr(210)}, // profit 10, 5%
			3: {Low: fptr(60), High: fptr(90)},   // profit 30, 50%
			4: {High: fptr(500)},                 // no buy side
		},
		Hourly: map[int]models.MVolume{
			1: {HighPriceVolume: 12, LowPriceVolume: 8}, // 20
			2: {HighPriceVolume: 100, LowPriceVolume: 50},
			3: {HighPriceVolume: 5, LowPriceVolume: 5},
		},
	}
}

func unboundedFilters() models.MFilterConfig {
	return models.MFilterConfig{Sort: models.SortProfit, MaxResults: 100, VolumeMode: models.VolumeModeHourly}
}

// -----------------------------------------------------------------------------

func TestProject_ProfitMath(t *testing.T) {
	payload, err := Project(testSnapshot(), unboundedFilters())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	for _, item := range payload.Items {
		if item.Profit != item.Sell-item.Buy {
			t.Errorf("item %d: profit %v != sell-buy %v", item.ID, item.Profit, item.Sell-item.Buy)
		}
		wantPct := 100 * item.Profit / item.Buy
		if item.ProfitPct != wantPct {
			t.Errorf("item %d: profit_pct %v, want %v", item.ID, item.ProfitPct, wantPct)
		}
	}
}

func TestProject_ExcludesItemsMissingPrices(t *testing.T) {
	payload, err := Project(testSnapshot(), unboundedFilters())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	for _, item := range payload.Items {
		if item.ID == 4 {
			t.Fatal("item without a buy price made it into the result")
		}
	}
	if len(payload.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(payload.Items))
	}
}

func TestProject_ZeroBuyPriceExcluded(t *testing.T) {
	snap := store.Snapshot{
		Latest: map[int]models.MPriceQuote{
			1: {Low: fptr(0), High: fptr(10)},
		},
	}
	payload, err := Project(snap, unboundedFilters())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(payload.Items) != 0 {
		t.Fatal("item with zero buy price should be excluded (profit percent undefined)")
	}
}

// -----------------------------------------------------------------------------

func TestProject_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		filters models.MFilterConfig
		wantIDs []int
	}{
		{
			name:    "no bounds excludes nothing",
			filters: unboundedFilters(),
			wantIDs: []int{1, 3, 2}, // profit desc: 50, 30, 10
		},
		{
			name: "max price",
			filters: models.MFilterConfig{
				MaxPrice: fptr(100), MaxResults: 100,
			},
			wantIDs: []int{1, 3},
		},
		{
			name: "min profit gp",
			filters: models.MFilterConfig{
				MinProfitGP: fptr(30), MaxResults: 100,
			},
			wantIDs: []int{1, 3},
		},
		{
			name: "min profit pct",
			filters: models.MFilterConfig{
				MinProfitPct: fptr(40), MaxResults: 100,
			},
			wantIDs: []int{1, 3},
		},
		{
			name: "min volume",
			filters: models.MFilterConfig{
				MinVolume: fptr(15), MaxResults: 100,
			},
			wantIDs: []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := Project(testSnapshot(), tt.filters)
			if err != nil {
				t.Fatalf("Project failed: %v", err)
			}
			got := make([]int, 0, len(payload.Items))
			for _, item := range payload.Items {
				got = append(got, item.ID)
			}
			if !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("got ids %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestProject_ZeroBoundIsEnforced(t *testing.T) {
	// buy=100 sell=150 -> profit 50; buy=50 sell=40 -> profit -10
	snap := store.Snapshot{
		Mapping: map[int]models.MItemMeta{
			1: {ID: 1, Name: "Item A"},
			2: {ID: 2, Name: "Item B"},
		},
		Latest: map[int]models.MPriceQuote{
			1: {Low: fptr(100), High: fptr(150)},
			2: {Low: fptr(50), High: fptr(40)},
		},
		Hourly: map[int]models.MVolume{
			1: {HighPriceVolume: 15, LowPriceVolume: 5},
		},
	}

	filters := models.MFilterConfig{MinProfitGP: fptr(0), MaxResults: 100}
	payload, err := Project(snap, filters)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	if len(payload.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(payload.Items))
	}
	got := payload.Items[0]
	if got.ID != 1 || got.Profit != 50 || got.ProfitPct != 50.0 {
		t.Errorf("got %+v, want id=1 profit=50 profit_pct=50", got)
	}
}

// -----------------------------------------------------------------------------

func TestProject_SortOrders(t *testing.T) {
	snap := testSnapshot() // profits: 1->50, 3->30, 2->10; buys: 3->60, 1->100, 2->200

	t.Run("profit descending", func(t *testing.T) {
		f := unboundedFilters()
		f.Sort = models.SortProfit
		payload, _ := Project(snap, f)
		profits := []float64{payload.Items[0].Profit, payload.Items[1].Profit, payload.Items[2].Profit}
		if !reflect.DeepEqual(profits, []float64{50, 30, 10}) {
			t.Errorf("got profits %v, want [50 30 10]", profits)
		}
	})

	t.Run("cost ascending", func(t *testing.T) {
		f := unboundedFilters()
		f.Sort = models.SortCost
		payload, _ := Project(snap, f)
		buys := []float64{payload.Items[0].Buy, payload.Items[1].Buy, payload.Items[2].Buy}
		if !reflect.DeepEqual(buys, []float64{60, 100, 200}) {
			t.Errorf("got buys %v, want [60 100 200]", buys)
		}
	})

	t.Run("profit percent descending", func(t *testing.T) {
		f := unboundedFilters()
		f.Sort = models.SortProfitPct
		payload, _ := Project(snap, f)
		// Equal 50% keys keep id order (1 before 3), then 5%.
		got := []int{payload.Items[0].ID, payload.Items[1].ID, payload.Items[2].ID}
		if !reflect.DeepEqual(got, []int{1, 3, 2}) {
			t.Errorf("got ids %v, want [1 3 2]", got)
		}
	})
}

// -----------------------------------------------------------------------------

func TestProject_Idempotent(t *testing.T) {
	snap := testSnapshot()
	f := unboundedFilters()

	first, err := Project(snap, f)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	second, err := Project(snap, f)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two projections of the same snapshot and filters differ")
	}
}

func TestProject_MaxResults(t *testing.T) {
	f := unboundedFilters()
	f.MaxResults = 2
	payload, err := Project(testSnapshot(), f)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(payload.Items) != 2 {
		t.Errorf("got %d items, want 2", len(payload.Items))
	}

	f.MaxResults = 0
	payload, err = Project(testSnapshot(), f)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if len(payload.Items) != 0 {
		t.Errorf("max_results=0: got %d items, want 0", len(payload.Items))
	}
}

func TestProject_NegativeMaxResultsIsError(t *testing.T) {
	f := unboundedFilters()
	f.MaxResults = -1
	if _, err := Project(testSnapshot(), f); !errors.Is(err, models.ErrInvalidFilter) {
		t.Fatalf("got %v, want ErrInvalidFilter", err)
	}
}

// -----------------------------------------------------------------------------

func TestProject_VolumeModes(t *testing.T) {
	f := unboundedFilters()
	hourly, _ := Project(testSnapshot(), f)

	f.VolumeMode = models.VolumeModeDaily
	daily, _ := Project(testSnapshot(), f)

	if hourly.Mode != "hourly" || daily.Mode != "daily" {
		t.Fatalf("payload modes: %q / %q", hourly.Mode, daily.Mode)
	}
	for i := range hourly.Items {
		if daily.Items[i].Volume != hourly.Items[i].Volume*24 {
			t.Errorf("item %d: daily volume %v != hourly %v x24",
				hourly.Items[i].ID, daily.Items[i].Volume, hourly.Items[i].Volume)
		}
	}
}

// -----------------------------------------------------------------------------

func TestProject_SkillTagFilter(t *testing.T) {
	f := unboundedFilters()
	f.Skill = "farming" // "seed" keyword matches Ranarr seed only
	payload, _ := Project(testSnapshot(), f)

	if len(payload.Items) != 1 || payload.Items[0].ID != 2 {
		t.Fatalf("farming tag: got %+v, want only item 2", payload.Items)
	}

	// Unknown tags disable the filter rather than matching nothing.
	f.Skill = "agility"
	payload, _ = Project(testSnapshot(), f)
	if len(payload.Items) != 3 {
		t.Fatalf("unknown tag: got %d items, want 3", len(payload.Items))
	}
}

func TestProject_Search(t *testing.T) {
	f := unboundedFilters()
	f.Search = "WHIP"
	payload, _ := Project(testSnapshot(), f)

	if len(payload.Items) != 1 || payload.Items[0].Name != "Abyssal whip" {
		t.Fatalf("search: got %+v, want only the whip", payload.Items)
	}
}

func TestProject_NameFallsBackToID(t *testing.T) {
	snap := store.Snapshot{
		Latest: map[int]models.MPriceQuote{
			42: {Low: fptr(10), High: fptr(20)},
		},
	}
	payload, _ := Project(snap, unboundedFilters())
	if len(payload.Items) != 1 || payload.Items[0].Name != "42" {
		t.Fatalf("got %+v, want name \"42\"", payload.Items)
	}
}

func TestSkillNames(t *testing.T) {
	names := SkillNames()
	if len(names) != len(skillTags) {
		t.Fatalf("got %d names, want %d", len(names), len(skillTags))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
