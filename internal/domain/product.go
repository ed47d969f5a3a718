package domain

// FileRef points at a stored file message that the delivery collaborator
// can copy to the buyer.
type FileRef struct {
	ChannelID string
	MessageID string
}

// Product is a catalog item. Price is a fixed amount when MinPrice equals
// MaxPrice, otherwise a range from which a unique amount is drawn per
// purchase. A product grants either channel access (ResourceID set) or a
// set of files.
type Product struct {
	ItemID     string
	MinPrice   int64 // paise
	MaxPrice   int64 // paise
	ResourceID string
	Files      []FileRef
}

// IsFree reports whether the product is claimable without payment
// (fixed price 0 or range 0-0).
func (p *Product) IsFree() bool {
	return p.MinPrice == 0 && p.MaxPrice == 0
}

// IsChannel reports whether the product grants access to a gated resource
// rather than delivering files.
func (p *Product) IsChannel() bool {
	return p.ResourceID != ""
}
