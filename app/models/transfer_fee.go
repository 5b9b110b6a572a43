package models

// FeeTier charges a flat Fee for amounts within [From, To].
type FeeTier struct {
	ID       int64   `json:"id,omitempty"`
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	Fee      float64 `json:"fee"`
	Position int     `json:"position,omitempty"`
}

// Contains reports whether amount falls inside the tier, both ends inclusive.
func (t FeeTier) Contains(amount float64) bool {
	return t.From <= amount && amount <= t.To
}

// SaveFeeTiersInput is the body of POST /transfer-fees/many.
type SaveFeeTiersInput struct {
	Data []FeeTier `json:"data"`
}

// Branch is a shop location records can be attributed to.
type Branch struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
