package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

const ZoneNotSelected = "Not selected"

type ShippingZone struct {
	Name string          `json:"name"`
	Fee  decimal.Decimal `json:"fee"`
}

// ShippingTable is static configuration: flat delivery fees per zone.
type ShippingTable struct {
	fees map[string]decimal.Decimal
}

func NewShippingTable(fees map[string]int64) ShippingTable {
	t := ShippingTable{fees: make(map[string]decimal.Decimal, len(fees))}
	for name, fee := range fees {
		t.fees[name] = decimal.NewFromInt(fee)
	}
	return t
}

var DefaultShippingTable = NewShippingTable(map[string]int64{
	"Thika Road":    250,
	"Garden Estate": 250,
	"Runda":         300,
	"Muthaiga":      300,
	"Ruaka":         250,
	"Thendegua":     250,
	"Parklands":     250,
	"Westlands":     250,
	"Redhill Road":  400,
	"Sarit Center":  300,
	"Waiyaki Way":   300,
})

func (t ShippingTable) Has(zone string) bool {
	_, ok := t.fees[zone]
	return ok
}

// Fee returns zero for an empty or unknown zone.
func (t ShippingTable) Fee(zone string) decimal.Decimal {
	if fee, ok := t.fees[zone]; ok {
		return fee
	}
	return decimal.Zero
}

// Label is the zone name, or ZoneNotSelected for an empty or unknown zone.
func (t ShippingTable) Label(zone string) string {
	if !t.Has(zone) {
		return ZoneNotSelected
	}
	return zone
}

func (t ShippingTable) Zones() []ShippingZone {
	zones := make([]ShippingZone, 0, len(t.fees))
	for name, fee := range t.fees {
		zones = append(zones, ShippingZone{Name: name, Fee: fee})
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })
	return zones
}
