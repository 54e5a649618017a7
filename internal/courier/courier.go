// Package courier derives a shipping carrier from a tracking number prefix.
package courier

import (
	"regexp"
	"strings"
)

const (
	IndiaPost           = "INDIA POST"
	DTDC                = "DTDC"
	STCourier           = "ST COURIER"
	Trackon             = "TRACKON"
	SingPost            = "SINGPOST"
	Ecom                = "ECOM"
	Ekart               = "EKART"
	Xpressbees          = "XPRESSBEES"
	ShipRocket          = "SHIP ROCKET"
	Delhivery           = "DELHIVERY"
	JAndT               = "J&T"
	ProfessionalCourier = "PROFESSIONAL COURIER"
	Unknown             = "Unknown"
	GenericTrackingURL  = "https://www.17track.net/en"
)

// trackonPrefix matches "500", or "10" unless the next three characters are "000".
// RE2 has no lookahead, so the exclusion is checked in matchTrackon.
var trackonPrefix = regexp.MustCompile(`^(500|10)`)

type rule struct {
	match func(string) bool
	name  string
}

// Rules are evaluated top to bottom and the first match wins. Several prefixes
// overlap ("1", "10", "14", "S", "SM", "SR"), so order is significant.
var rules = []rule{
	{match: hasPrefix("CT"), name: IndiaPost},
	{match: hasPrefix("C1"), name: DTDC},
	{match: hasPrefix("58"), name: STCourier},
	{match: matchTrackon, name: Trackon},
	{match: hasPrefix("SM"), name: SingPost},
	{match: hasPrefix("33"), name: Ecom},
	{match: hasPrefix("SR", "EP"), name: Ekart},
	{match: hasPrefix("14"), name: Xpressbees},
	{match: hasPrefix("S", "1"), name: ShipRocket},
	{match: hasPrefix("7"), name: Delhivery},
	{match: hasPrefix("JT"), name: JAndT},
	{match: hasPrefix("TRZ"), name: ProfessionalCourier},
}

var trackingURLs = map[string]string{
	IndiaPost:           "https://www.indiapost.gov.in/_layouts/15/dop.portal.tracking/trackconsignment.aspx",
	DTDC:                "https://www.dtdc.in/tracking.asp",
	STCourier:           "https://stcourier.com/track/shipment",
	Trackon:             "https://trackon.in/Tracking/t2/MultipleTracking",
	SingPost:            "https://www.singpost.com/track-items",
	Ecom:                "https://ecomexpress.in/tracking/",
	Ekart:               "https://ekartlogistics.com/shipmenttrack/",
	Xpressbees:          "https://www.xpressbees.com/shipment/tracking",
	ShipRocket:          "https://www.shiprocket.in/shipment-tracking/",
	Delhivery:           "https://www.delhivery.com/tracking",
	JAndT:               "https://www.jtexpress.in/track",
	ProfessionalCourier: "https://www.tpcindia.com/track.aspx",
}

// Classify returns the courier label for a tracking number, or Unknown.
func Classify(trackingNumber string) string {
	normalized := strings.ToUpper(strings.TrimSpace(trackingNumber))
	if normalized == "" {
		return Unknown
	}

	for _, r := range rules {
		if r.match(normalized) {
			return r.name
		}
	}
	return Unknown
}

// TrackingURL returns the tracking page for a courier label.
func TrackingURL(courier string) string {
	if url, ok := trackingURLs[courier]; ok {
		return url
	}
	return GenericTrackingURL
}

// Lookup classifies a tracking number and resolves its tracking page in one call.
func Lookup(trackingNumber string) (name string, url string) {
	name = Classify(trackingNumber)
	return name, TrackingURL(name)
}

func hasPrefix(prefixes ...string) func(string) bool {
	return func(s string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(s, p) {
				return true
			}
		}
		return false
	}
}

func matchTrackon(s string) bool {
	prefix := trackonPrefix.FindString(s)
	switch prefix {
	case "500":
		return true
	case "10":
		return !strings.HasPrefix(s[len(prefix):], "000")
	}
	return false
}
