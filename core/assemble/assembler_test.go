package assemble_test

import (
	"testing"
	"time"

	"github.com/gaurav-prasanna/reviewpipe/core"
	"github.com/gaurav-prasanna/reviewpipe/core/assemble"
	"github.com/gaurav-prasanna/reviewpipe/core/extract"
)

func rated(ratings ...int) []core.ParsedDish {
	dishes := make([]core.ParsedDish, 0, len(ratings))
	for _, r := range ratings {
		dishes = append(dishes, core.ParsedDish{Name: "dish", Rating: r})
	}
	return dishes
}

func TestOverallRating(t *testing.T) {
	cases := []struct {
		ratings []int
		want    int
	}{
		{[]int{80, 90, 70}, 80}, // exact average
		{[]int{80, 85, 85}, 83}, // round(83.33)
		{[]int{}, 50},           // neutral default, not "unknown"
	}
	for _, tc := range cases {
		if got := assemble.OverallRating(rated(tc.ratings...)); got != tc.want {
			t.Fatalf("OverallRating(%v) = %d, want %d", tc.ratings, got, tc.want)
		}
	}
}

func TestReview(t *testing.T) {
	visit := &extract.VisitInfo{
		Address:   "123 Spadina Ave",
		Location:  "123 Spadina Ave",
		Date:      time.Date(2024, time.November, 6, 0, 0, 0, 0, time.UTC),
		EntryTime: core.TimeOfDay{Hour: 18, Minute: 30},
		PartySize: 2,
		Website:   "https://example.com",
		Notes:     "busy but friendly",
	}
	dishes := rated(80, 90, 70)
	images := []string{"reviews/98765/storefront.jpg"}

	got := assemble.Review("98765", "Golden Duck", visit, dishes, images)

	if got.RestaurantName != "Golden Duck" {
		t.Fatalf("restaurant name = %q", got.RestaurantName)
	}
	if got.SourcePageID != "98765" {
		t.Fatalf("source page id = %q", got.SourcePageID)
	}
	if got.Rating != 80 {
		t.Fatalf("overall rating = %d", got.Rating)
	}
	if len(got.Dishes) != 3 {
		t.Fatalf("dishes = %d", len(got.Dishes))
	}
	if got.Address != visit.Address || got.Location != visit.Location {
		t.Fatalf("address/location not carried: %+v", got)
	}
	if len(got.RestaurantImages) != 1 {
		t.Fatalf("restaurant images = %v", got.RestaurantImages)
	}
}
