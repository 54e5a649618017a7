package composer

import (
	"fmt"
	"strings"
)

// OrderStatusVars is the 8-slot variable set of the shipment notification.
type OrderStatusVars struct {
	CompanyName    string
	SignOffName    string
	Products       string
	MoreProducts   string
	Courier        string
	TrackingNumber string
	Weight         string
	TrackingURL    string
}

// Slots returns the variables in template order.
func (v OrderStatusVars) Slots() [8]string {
	return [8]string{
		v.CompanyName,
		v.SignOffName,
		v.Products,
		v.MoreProducts,
		v.Courier,
		v.TrackingNumber,
		v.Weight,
		v.TrackingURL,
	}
}

// OrderStatusMessage renders the shipment notification body.
func OrderStatusMessage(v OrderStatusVars) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Your order from %s has been shipped.\n\n", v.CompanyName)

	products := v.Products
	if v.MoreProducts != "" {
		products += ", " + v.MoreProducts
	}
	if products != "" {
		fmt.Fprintf(&b, "Items: %s\n", products)
	}

	fmt.Fprintf(&b, "Courier: %s\n", v.Courier)
	fmt.Fprintf(&b, "Tracking Number: %s\n", v.TrackingNumber)
	if v.Weight != "" {
		fmt.Fprintf(&b, "Weight: %s\n", v.Weight)
	}
	fmt.Fprintf(&b, "Track your parcel: %s\n\n", v.TrackingURL)
	fmt.Fprintf(&b, "Thank you for shopping with %s.", v.SignOffName)

	return b.String()
}
