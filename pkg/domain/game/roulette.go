package game

// PrizeKind is what a roulette slot pays.
type PrizeKind string

const (
	PrizeKoki     PrizeKind = "koki"
	PrizeNothing  PrizeKind = "nothing"
	PrizeKoTicket PrizeKind = "koticket"
)

// Slot is one segment of the wheel.
type Slot struct {
	Kind   PrizeKind `json:"kind"`
	Amount int64     `json:"amount"`
	Label  string    `json:"label"`
}

var wheel = []Slot{
	{Kind: PrizeKoki, Amount: 5, Label: "5 KOKI"},
	{Kind: PrizeNothing, Label: "Sin premio"},
	{Kind: PrizeKoki, Amount: 10, Label: "10 KOKI"},
	{Kind: PrizeKoTicket, Amount: 1, Label: "1 KoTicket"},
	{Kind: PrizeKoki, Amount: 25, Label: "25 KOKI"},
	{Kind: PrizeNothing, Label: "Sin premio"},
	{Kind: PrizeKoki, Amount: 50, Label: "50 KOKI"},
	{Kind: PrizeKoki, Amount: 2, Label: "2 KOKI"},
}

// Wheel returns a copy of the roulette slots in display order.
func Wheel() []Slot {
	return append([]Slot(nil), wheel...)
}

// Spin picks a slot uniformly and returns its index and prize.
func (g *Generator) Spin() (int, Slot) {
	i := g.src.IntN(len(wheel))
	return i, wheel[i]
}
