// Package normalize implements the shipment row normalizer
// Pipeline order per row
// 1 Resolve headers to canonical fields via slugged aliases
// 2 Text pass with country uppercasing
// 3 Derive shipment_id from order_id when absent
// 4 Coerce numerics timestamps mode priority booleans
// 5 Cross field time ordering check
// 6 Required field sweep
package normalize

import "strings"

// Canonical field names in coercion order
const (
	FieldShipmentID         = "shipment_id"
	FieldOrderID            = "order_id"
	FieldOriginName         = "origin_name"
	FieldDestinationName    = "destination_name"
	FieldOriginCountry      = "origin_country"
	FieldDestinationCountry = "destination_country"
	FieldPlannedDeparture   = "planned_departure_ts"
	FieldPlannedArrival     = "planned_arrival_ts"
	FieldMode               = "mode"
	FieldWeightKg           = "weight_kg"
	FieldVolumeCbm          = "volume_cbm"
	FieldCostUsd            = "cost_usd"
	FieldPriority           = "priority"
	FieldCarrierName        = "carrier_name"
	FieldIncoterm           = "incoterm"
	FieldCommodity          = "commodity"
	FieldContainerType      = "container_type"
	FieldHazmatFlag         = "hazmat_flag"
	FieldTemperatureControl = "temperature_control_flag"
)

// RequiredFields must all be present after coercion for a row to pass
var RequiredFields = []string{
	FieldShipmentID,
	FieldOrderID,
	FieldOriginName,
	FieldDestinationName,
	FieldOriginCountry,
	FieldDestinationCountry,
	FieldPlannedDeparture,
	FieldPlannedArrival,
	FieldMode,
	FieldWeightKg,
	FieldVolumeCbm,
	FieldCostUsd,
	FieldPriority,
}

// OptionalFields are carried through when present and never fail a row
var OptionalFields = []string{
	FieldCarrierName,
	FieldIncoterm,
	FieldCommodity,
	FieldContainerType,
	FieldHazmatFlag,
	FieldTemperatureControl,
}

// fieldAliases maps each canonical field to its accepted header aliases
// the canonical name itself always wins resolution and is listed first
var fieldAliases = map[string][]string{
	FieldShipmentID:         {"shipment_id", "shipment", "tracking_number", "tracking_id"},
	FieldOrderID:            {"order_id", "order", "purchase_order", "po", "reference"},
	FieldOriginName:         {"origin_name", "origin", "origin_location", "from_location", "source"},
	FieldDestinationName:    {"destination_name", "destination", "destination_location", "to_location", "end_location"},
	FieldOriginCountry:      {"origin_country", "from_country", "source_country"},
	FieldDestinationCountry: {"destination_country", "to_country", "target_country"},
	FieldPlannedDeparture:   {"planned_departure_ts", "planned_departure", "departure_date", "ship_date"},
	FieldPlannedArrival:     {"planned_arrival_ts", "planned_arrival", "arrival_date", "delivery_date"},
	FieldMode:               {"mode", "mode_of_transport", "transport_mode", "shipping_method", "carrier_type"},
	FieldWeightKg:           {"weight_kg", "weight", "mass", "kg"},
	FieldVolumeCbm:          {"volume_cbm", "volume", "cbm", "volume_m3", "cubic_meters"},
	FieldCostUsd:            {"cost_usd", "cost", "product_cost", "price", "amount", "value", "unit_cost"},
	FieldPriority:           {"priority", "priority_level", "service_level"},
	FieldCarrierName:        {"carrier_name", "carrier", "carrier_id"},
	FieldIncoterm:           {"incoterm", "incoterms"},
	FieldCommodity:          {"commodity", "product_name", "product", "item", "sku", "material"},
	FieldContainerType:      {"container_type", "container", "equipment_type"},
	FieldHazmatFlag:         {"hazmat_flag", "hazmat", "dangerous_goods"},
	FieldTemperatureControl: {"temperature_control_flag", "temperature_control", "cold_chain", "reefer"},
}

// Slugify lowercases value and folds every run of non alphanumerics into a single underscore
// leading and trailing underscores are trimmed so "  Weight (KG) " becomes "weight_kg"
func Slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	lastUnderscore := true // suppress a leading underscore
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// RawRow is a header keyed view of one CSV record, used for quarantine output
type RawRow map[string]string

// NewRawRow zips header and record into a RawRow
// short records leave trailing headers empty and extra cells are dropped,
// duplicate headers resolve to the rightmost cell
func NewRawRow(header, record []string) RawRow {
	raw := make(RawRow, len(header))
	for i, key := range header {
		if i < len(record) {
			raw[key] = record[i]
		} else {
			raw[key] = ""
		}
	}
	return raw
}

// rowLookup slugs every header into a lookup table, preserving header order
// so that the rightmost duplicate slug wins deterministically
func rowLookup(header, record []string) map[string]string {
	lookup := make(map[string]string, len(header))
	for i, key := range header {
		if i >= len(record) {
			break
		}
		lookup[Slugify(key)] = record[i]
	}
	return lookup
}

// resolveField returns the first non blank value among the canonical field
// and its aliases, or "" when every candidate is blank or absent
func resolveField(lookup map[string]string, field string) string {
	for _, alias := range fieldAliases[field] {
		if v, ok := lookup[Slugify(alias)]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
