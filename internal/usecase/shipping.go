package usecase

// ShippingPolicy computes the shipping fee from the items price. Orders at or
// above FreeThreshold ship free, everything else pays the flat fee. Both
// values are cents and come from configuration.
type ShippingPolicy struct {
	FreeThreshold int64
	FlatFee       int64
}

// Fee returns the shipping price for the given items price.
func (p ShippingPolicy) Fee(itemsPrice int64) int64 {
	if itemsPrice >= p.FreeThreshold {
		return 0
	}
	return p.FlatFee
}
