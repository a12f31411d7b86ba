package store

import "strings"

// SparePartInput carries the mutable spare-part fields as submitted by a form.
type SparePartInput struct {
	Name        string
	Quantity    int
	PurchaseURL string
}

// normalize trims the input and reports whether it may be written.
func (in SparePartInput) normalize() (name string, quantity int, url *string, ok bool) {
	name = strings.TrimSpace(in.Name)
	if name == "" || in.Quantity <= 0 {
		return "", 0, nil, false
	}
	if u := strings.TrimSpace(in.PurchaseURL); u != "" {
		url = &u
	}
	return name, in.Quantity, url, true
}
