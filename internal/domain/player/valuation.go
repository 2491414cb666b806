package player

const (
	// Revaluation anchors: 5 points per match keeps the price at base,
	// each point above or below moves it 10%.
	revalueAnchorPoints = 5.0
	revalueStepFactor   = 0.1
	revalueFloorFactor  = 0.5
	revalueCeilFactor   = 3.0

	formDecay  = 0.8
	formWeight = 0.2
)

// RevaluedPrice computes the market price from cumulative season form. It is
// a monotonic function of the points-per-match average, not of single-match
// swings, and it is clamped to [0.5, 3.0] times the base price. A player with
// no matches keeps the base price.
func RevaluedPrice(basePrice float64, totalPoints, matchesPlayed int) float64 {
	if basePrice <= 0 {
		return basePrice
	}

	multiplier := 1.0
	if matchesPlayed > 0 {
		avg := float64(totalPoints) / float64(matchesPlayed)
		multiplier = 1.0 + (avg-revalueAnchorPoints)*revalueStepFactor
	}

	price := basePrice * multiplier
	if floor := basePrice * revalueFloorFactor; price < floor {
		price = floor
	}
	if ceil := basePrice * revalueCeilFactor; price > ceil {
		price = ceil
	}

	return price
}

// NextFormRating folds one match result into the display-only form EMA.
func NextFormRating(current float64, matchPoints int) float64 {
	return current*formDecay + float64(matchPoints)*formWeight
}

// Revalue applies the price formula and form update in place after a scoring
// pass. firstScore distinguishes a fresh match from an idempotent replay:
// replays adjust the price but leave the EMA alone, since the smoothed rating
// cannot be rewound.
func (p *Player) Revalue(matchPoints int, firstScore bool) {
	if firstScore {
		p.FormRating = NextFormRating(p.FormRating, matchPoints)
	}
	p.CurrentPrice = RevaluedPrice(p.BasePrice, p.TotalPoints, p.MatchesPlayed)
}
