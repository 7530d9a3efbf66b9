package domain

// Currency arithmetic. Prices are stored as a single canonical copper
// amount: 1 gold = 10000 copper, 1 silver = 100 copper.

const (
	CopperPerSilver = 100
	CopperPerGold   = 10000
)

// Price is a three-part in-game amount as supplied by a client.
type Price struct {
	Gold   int
	Silver int
	Copper int
}

// NormalizePrice converts a three-part amount plus an optional pre-computed
// total into the canonical copper amount. When an explicit non-zero total is
// supplied the components are ignored so callers never double-apply the
// conversion. An all-zero input yields 0, meaning "no price set".
func NormalizePrice(p Price, total int) int {
	if total != 0 {
		return total
	}
	return p.Gold*CopperPerGold + p.Silver*CopperPerSilver + p.Copper
}

// DecomposePrice is the inverse of NormalizePrice: it splits a canonical
// copper amount back into gold, silver and copper parts.
func DecomposePrice(total int) Price {
	return Price{
		Gold:   total / CopperPerGold,
		Silver: (total % CopperPerGold) / CopperPerSilver,
		Copper: total % CopperPerSilver,
	}
}
