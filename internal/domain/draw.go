package domain

// maxDrawCount bounds a single draw regardless of deck size.
const maxDrawCount = 10

// DrawCards selects k distinct cards from cards uniformly at random without
// replacement, preserving selection order. A partial Fisher-Yates shuffle
// keeps the work bounded at k swaps no matter how unlucky the RNG is.
func DrawCards(cards []Card, k int, rng RNG) ([]Card, error) {
	if k < 1 || k > maxDrawCount {
		return nil, ErrInvalidDrawCount
	}
	if k > len(cards) {
		return nil, ErrDeckTooSmall
	}

	indices := make([]int, len(cards))
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(indices)-i)
		indices[i], indices[j] = indices[j], indices[i]
	}

	drawn := make([]Card, k)
	for i := 0; i < k; i++ {
		drawn[i] = cards[indices[i]]
	}
	return drawn, nil
}

// GenerateDraw draws the spread's card count and attaches 1-based positions
// and positional labels in selection order.
func GenerateDraw(cards []Card, spread SpreadType, rng RNG) (Draw, error) {
	drawn, err := DrawCards(cards, spread.Count(), rng)
	if err != nil {
		return Draw{}, err
	}

	dc := make([]DrawnCard, len(drawn))
	for i, c := range drawn {
		dc[i] = DrawnCard{
			Card:     c,
			Position: i + 1,
			Label:    spread.PositionLabel(i + 1),
		}
	}
	return Draw{Spread: spread, Cards: dc}, nil
}
