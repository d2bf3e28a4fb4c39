package order

// Line is one item of an order together with the quantity ordered.
type Line struct {
	Name     string
	Quantity int
}

// Items is the ordered list of lines that make up an order. Line order is
// preserved from placement; reports rely on it to break popularity ties by
// first appearance.
type Items []Line

// Clone returns an independent copy of the item lines.
func (i Items) Clone() Items {
	out := make(Items, len(i))
	copy(out, i)
	return out
}

// Quantity returns the quantity ordered for the named item, or 0 when the
// item is not part of the order.
func (i Items) Quantity(name string) int {
	for _, line := range i {
		if line.Name == name {
			return line.Quantity
		}
	}
	return 0
}
