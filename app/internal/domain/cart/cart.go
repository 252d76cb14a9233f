package cart

// ProductRef is the display part of a product as embedded in a cart read.
type ProductRef struct {
	ID         string
	Title      string
	ImageCover string
	Category   string
	Brand      string
}

type LineItem struct {
	ID       string
	Product  ProductRef
	Price    float64
	Quantity int64
}

// Snapshot is a complete cart as last reported by the upstream.
type Snapshot struct {
	ID         string
	OwnerID    string
	Items      []LineItem
	TotalPrice float64
	ItemCount  int
}

// Clone returns a deep copy so callers can't alter the held snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = make([]LineItem, len(s.Items))
	copy(c.Items, s.Items)
	return &c
}

func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Items) == 0
}

// Ack is the status part of a mutation response; its item data is ignored.
type Ack struct {
	Message string
}
