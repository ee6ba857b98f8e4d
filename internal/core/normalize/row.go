package normalize

import (
	"strings"
	"time"
)

// Diagnostic codes emitted by NormalizeRow
const (
	CodeInvalidNumber     = "invalid_number"
	CodeNegativeValue     = "negative_value"
	CodeInvalidDatetime   = "invalid_datetime"
	CodeInvalidTimeOrder  = "invalid_time_order"
	CodeInvalidMode       = "invalid_mode"
	CodeInvalidPriority   = "invalid_priority"
	CodeInvalidBool       = "invalid_bool"
	CodeMissingRequired   = "missing_required"
	CodeDerivedShipmentID = "derived_shipment_id"
)

// Diagnostic is one error or warning attached to a CSV row
// Value carries the offending input and is null when there is none
type Diagnostic struct {
	RowNumber int    `json:"row_number"`
	Field     string `json:"field"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Value     any    `json:"value"`
}

// Row is a fully normalized shipment record
// every field is a pointer so absent optionals serialize as null
type Row struct {
	ShipmentID             *string  `json:"shipment_id"`
	OrderID                *string  `json:"order_id"`
	OriginName             *string  `json:"origin_name"`
	DestinationName        *string  `json:"destination_name"`
	OriginCountry          *string  `json:"origin_country"`
	DestinationCountry     *string  `json:"destination_country"`
	PlannedDepartureTS     *string  `json:"planned_departure_ts"`
	PlannedArrivalTS       *string  `json:"planned_arrival_ts"`
	Mode                   *string  `json:"mode"`
	WeightKg               *float64 `json:"weight_kg"`
	VolumeCbm              *float64 `json:"volume_cbm"`
	CostUsd                *float64 `json:"cost_usd"`
	Priority               *string  `json:"priority"`
	CarrierName            *string  `json:"carrier_name"`
	Incoterm               *string  `json:"incoterm"`
	Commodity              *string  `json:"commodity"`
	ContainerType          *string  `json:"container_type"`
	HazmatFlag             *bool    `json:"hazmat_flag"`
	TemperatureControlFlag *bool    `json:"temperature_control_flag"`
}

var numericFields = []string{FieldWeightKg, FieldVolumeCbm, FieldCostUsd}
var datetimeFields = []string{FieldPlannedDeparture, FieldPlannedArrival}
var boolFields = []string{FieldHazmatFlag, FieldTemperatureControl}

// NormalizeRow coerces one CSV record into a Row
// It returns (row, nil, warnings) when the row is clean and
// (nil, errors, warnings) when any error fired: rows pass whole or not at all.
// rowNumber is the 1 indexed position in the source file including the header
func NormalizeRow(header, record []string, rowNumber int) (*Row, []Diagnostic, []Diagnostic) {
	var errs, warns []Diagnostic
	lookup := rowLookup(header, record)

	// text pass over every field, countries are uppercased
	// unparseable numerics and datetimes keep their text here so the required
	// sweep does not double report them, unknown mode and priority are nilled
	// so it does
	vals := make(map[string]any, len(RequiredFields)+len(OptionalFields))
	for _, field := range append(append([]string{}, RequiredFields...), OptionalFields...) {
		t, ok := ToText(resolveField(lookup, field))
		if !ok {
			vals[field] = nil
			continue
		}
		if field == FieldOriginCountry || field == FieldDestinationCountry {
			t = strings.ToUpper(t)
		}
		vals[field] = t
	}

	if vals[FieldShipmentID] == nil && vals[FieldOrderID] != nil {
		derived := "derived_" + Slugify(vals[FieldOrderID].(string))
		vals[FieldShipmentID] = derived
		warns = append(warns, Diagnostic{
			RowNumber: rowNumber,
			Field:     FieldShipmentID,
			Code:      CodeDerivedShipmentID,
			Message:   "shipment_id missing; derived from order_id.",
			Value:     derived,
		})
	}

	for _, field := range numericFields {
		s, ok := vals[field].(string)
		if !ok {
			continue
		}
		f, ok := ToFloat(s)
		if !ok {
			errs = append(errs, Diagnostic{
				RowNumber: rowNumber,
				Field:     field,
				Code:      CodeInvalidNumber,
				Message:   field + " must be numeric.",
				Value:     s,
			})
			continue
		}
		vals[field] = f
		if f < 0 {
			errs = append(errs, Diagnostic{
				RowNumber: rowNumber,
				Field:     field,
				Code:      CodeNegativeValue,
				Message:   field + " must be >= 0.",
				Value:     f,
			})
		}
	}

	parsedTS := make(map[string]time.Time, len(datetimeFields))
	for _, field := range datetimeFields {
		s, ok := vals[field].(string)
		if !ok {
			continue
		}
		ts, ok := ToTimestamp(s)
		if !ok {
			errs = append(errs, Diagnostic{
				RowNumber: rowNumber,
				Field:     field,
				Code:      CodeInvalidDatetime,
				Message:   field + " is not a supported datetime format.",
				Value:     s,
			})
			continue
		}
		vals[field] = ts.Format(time.RFC3339)
		parsedTS[field] = ts
	}

	dep, depOK := parsedTS[FieldPlannedDeparture]
	arr, arrOK := parsedTS[FieldPlannedArrival]
	if depOK && arrOK && dep.After(arr) {
		errs = append(errs, Diagnostic{
			RowNumber: rowNumber,
			Field:     FieldPlannedArrival,
			Code:      CodeInvalidTimeOrder,
			Message:   "planned_arrival_ts must be >= planned_departure_ts.",
		})
	}

	if s, ok := vals[FieldMode].(string); ok {
		if m, ok := ToMode(s); ok {
			vals[FieldMode] = m
		} else {
			errs = append(errs, Diagnostic{
				RowNumber: rowNumber,
				Field:     FieldMode,
				Code:      CodeInvalidMode,
				Message:   "mode must be one of road, rail, sea, air, multimodal.",
				Value:     s,
			})
			vals[FieldMode] = nil
		}
	}

	if s, ok := vals[FieldPriority].(string); ok {
		if p, ok := ToPriority(s); ok {
			vals[FieldPriority] = p
		} else {
			errs = append(errs, Diagnostic{
				RowNumber: rowNumber,
				Field:     FieldPriority,
				Code:      CodeInvalidPriority,
				Message:   "priority must be one of critical, high, medium, low.",
				Value:     s,
			})
			vals[FieldPriority] = nil
		}
	}

	for _, field := range boolFields {
		s, ok := vals[field].(string)
		if !ok {
			continue
		}
		if b, ok := ToBool(s); ok {
			vals[field] = b
		} else {
			warns = append(warns, Diagnostic{
				RowNumber: rowNumber,
				Field:     field,
				Code:      CodeInvalidBool,
				Message:   field + " should be true/false; value ignored.",
				Value:     s,
			})
			vals[field] = nil
		}
	}

	for _, field := range RequiredFields {
		if vals[field] == nil {
			errs = append(errs, Diagnostic{
				RowNumber: rowNumber,
				Field:     field,
				Code:      CodeMissingRequired,
				Message:   field + " is required.",
			})
		}
	}

	if len(errs) > 0 {
		return nil, errs, warns
	}
	return buildRow(vals), nil, warns
}

func buildRow(vals map[string]any) *Row {
	return &Row{
		ShipmentID:             strPtr(vals[FieldShipmentID]),
		OrderID:                strPtr(vals[FieldOrderID]),
		OriginName:             strPtr(vals[FieldOriginName]),
		DestinationName:        strPtr(vals[FieldDestinationName]),
		OriginCountry:          strPtr(vals[FieldOriginCountry]),
		DestinationCountry:     strPtr(vals[FieldDestinationCountry]),
		PlannedDepartureTS:     strPtr(vals[FieldPlannedDeparture]),
		PlannedArrivalTS:       strPtr(vals[FieldPlannedArrival]),
		Mode:                   strPtr(vals[FieldMode]),
		WeightKg:               floatPtr(vals[FieldWeightKg]),
		VolumeCbm:              floatPtr(vals[FieldVolumeCbm]),
		CostUsd:                floatPtr(vals[FieldCostUsd]),
		Priority:               strPtr(vals[FieldPriority]),
		CarrierName:            strPtr(vals[FieldCarrierName]),
		Incoterm:               strPtr(vals[FieldIncoterm]),
		Commodity:              strPtr(vals[FieldCommodity]),
		ContainerType:          strPtr(vals[FieldContainerType]),
		HazmatFlag:             boolPtr(vals[FieldHazmatFlag]),
		TemperatureControlFlag: boolPtr(vals[FieldTemperatureControl]),
	}
}

func strPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func floatPtr(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

func boolPtr(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}
