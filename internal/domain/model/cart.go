package model

// CartLine is a single buyer-submitted checkout line. ClaimedUnitPrice is the
// price the client displayed at submission time; it is kept for audit only,
// settlement always reprices from the catalog.
type CartLine struct {
	ProductID        int64
	Quantity         int64
	ClaimedUnitPrice int64
}
