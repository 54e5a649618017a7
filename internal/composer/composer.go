// Package composer renders WhatsApp message bodies from billing facts.
package composer

import (
	"fmt"
	"strings"

	"github.com/kursadbilgin/bill-notifier/internal/textfmt"
)

// Variant selects the layout of an invoice message.
type Variant string

const (
	VariantDefault  Variant = "default"
	VariantCompact  Variant = "compact"
	VariantDetailed Variant = "detailed"
)

func (v Variant) String() string { return string(v) }

// ParseVariant maps a caller supplied tag to a variant. Unknown tags fall back
// to the default layout.
func ParseVariant(tag string) Variant {
	switch v := Variant(strings.ToLower(strings.TrimSpace(tag))); v {
	case VariantCompact, VariantDetailed:
		return v
	}
	return VariantDefault
}

// ShippingMethod is the optional delivery option printed under the address.
type ShippingMethod struct {
	Name string
	Type string
	Cost string
}

func (s ShippingMethod) Line() string {
	return fmt.Sprintf("%s (%s) - %s", s.Name, s.Type, s.Cost)
}

// BillingFacts are the inputs of an invoice message. Items is free text, one
// line per item; Total is printed as given.
type BillingFacts struct {
	CompanyName string
	BillNumber  string
	Items       string
	Total       string
	Address     string
	Shipping    *ShippingMethod
}

// Compose renders an invoice message in the requested variant.
func Compose(facts BillingFacts, variant Variant) string {
	address := textfmt.SplitAddress(facts.Address)

	var b strings.Builder
	switch variant {
	case VariantCompact:
		writeCompact(&b, facts, address)
	case VariantDetailed:
		writeDetailed(&b, facts, address)
	default:
		writeDefault(&b, facts, address)
	}
	return b.String()
}

func writeDefault(b *strings.Builder, facts BillingFacts, address [3]string) {
	fmt.Fprintf(b, "Thank you for shopping with %s!\n\n", facts.CompanyName)
	fmt.Fprintf(b, "Bill No: %s\n", facts.BillNumber)
	fmt.Fprintf(b, "Items:\n%s\n", facts.Items)
	fmt.Fprintf(b, "Total: %s\n\n", facts.Total)
	b.WriteString("Delivery Address:\n")
	writeAddress(b, address)
	writeShipping(b, "Shipping: ", facts.Shipping)
}

func writeCompact(b *strings.Builder, facts BillingFacts, address [3]string) {
	fmt.Fprintf(b, "%s | Bill #%s | Total: %s\n", facts.CompanyName, facts.BillNumber, facts.Total)
	b.WriteString("Ship to:\n")
	writeAddress(b, address)
	writeShipping(b, "Via: ", facts.Shipping)
}

func writeDetailed(b *strings.Builder, facts BillingFacts, address [3]string) {
	const rule = "------------------------------\n"

	b.WriteString("*INVOICE*\n")
	fmt.Fprintf(b, "From: %s\n", facts.CompanyName)
	fmt.Fprintf(b, "Bill No: %s\n", facts.BillNumber)
	b.WriteString(rule)
	fmt.Fprintf(b, "Items:\n%s\n", facts.Items)
	b.WriteString(rule)
	fmt.Fprintf(b, "Total Amount: %s\n\n", facts.Total)
	b.WriteString("Delivery Address:\n")
	writeAddress(b, address)
	writeShipping(b, "Shipping Method: ", facts.Shipping)
	b.WriteString("\nPlease keep this message for your records.")
}

// All three lines are written even when empty so the layout stays fixed.
func writeAddress(b *strings.Builder, address [3]string) {
	for _, line := range address {
		b.WriteString(line)
		b.WriteByte('\n')
	}
}

func writeShipping(b *strings.Builder, label string, shipping *ShippingMethod) {
	if shipping == nil {
		return
	}
	b.WriteString(label)
	b.WriteString(shipping.Line())
	b.WriteByte('\n')
}
