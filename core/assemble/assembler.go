// Package assemble combines extracted header fields and dish sections into
// the final normalized record. Pure computation, no I/O.
package assemble

import (
	"math"

	"github.com/gaurav-prasanna/reviewpipe/core"
	"github.com/gaurav-prasanna/reviewpipe/core/extract"
)

// neutralRating is used when no dish carries a rating. It is a deliberate
// neutral default so the overall rating stays non-nullable downstream,
// not a sentinel for "unknown".
const neutralRating = 50

// Review builds the normalized record for one page.
func Review(pageID, title string, visit *extract.VisitInfo, dishes []core.ParsedDish, restaurantImages []string) *core.ParsedReviewData {
	return &core.ParsedReviewData{
		RestaurantName:   title,
		VisitDate:        visit.Date,
		EntryTime:        visit.EntryTime,
		PartySize:        visit.PartySize,
		Rating:           OverallRating(dishes),
		Dishes:           dishes,
		Address:          visit.Address,
		Location:         visit.Location,
		Notes:            visit.Notes,
		Website:          visit.Website,
		SourcePageID:     pageID,
		RestaurantImages: restaurantImages,
	}
}

// OverallRating is the rounded arithmetic mean of the dish ratings.
func OverallRating(dishes []core.ParsedDish) int {
	if len(dishes) == 0 {
		return neutralRating
	}
	total := 0
	for _, d := range dishes {
		total += d.Rating
	}
	return int(math.Round(float64(total) / float64(len(dishes))))
}
