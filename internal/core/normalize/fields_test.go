package normalize

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"shipment_id", "shipment_id"},
		{"Shipment ID", "shipment_id"},
		{"  Weight (KG) ", "weight_kg"},
		{"Mode-of-Transport", "mode_of_transport"},
		{"__order__id__", "order_id"},
		{"PO#", "po"},
		{"", ""},
		{"!!!", ""},
		{"Volume M3", "volume_m3"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveField_AliasesAndPrecedence(t *testing.T) {
	header := []string{"Tracking Number", "shipment_id", "Cost", "value"}
	record := []string{"TRK-1", "SHP-1", "12.5", "99"}
	lookup := rowLookup(header, record)

	// canonical header beats any alias
	if got := resolveField(lookup, FieldShipmentID); got != "SHP-1" {
		t.Errorf("shipment_id = %q, want SHP-1", got)
	}
	// alias order decides when the canonical header is absent
	if got := resolveField(lookup, FieldCostUsd); got != "12.5" {
		t.Errorf("cost_usd = %q, want 12.5 (cost outranks value)", got)
	}
	if got := resolveField(lookup, FieldMode); got != "" {
		t.Errorf("mode = %q, want empty for absent field", got)
	}
}

func TestResolveField_SkipsBlankCandidates(t *testing.T) {
	header := []string{"shipment_id", "tracking_number"}
	record := []string{"   ", "TRK-9"}
	lookup := rowLookup(header, record)

	if got := resolveField(lookup, FieldShipmentID); got != "TRK-9" {
		t.Errorf("shipment_id = %q, want fallback TRK-9 past the blank canonical cell", got)
	}
}

func TestRowLookup_DuplicateSlugLastWins(t *testing.T) {
	header := []string{"Weight KG", "weight_kg"}
	record := []string{"10", "20"}
	lookup := rowLookup(header, record)

	if got := lookup["weight_kg"]; got != "20" {
		t.Errorf("weight_kg = %q, want rightmost duplicate 20", got)
	}
}

func TestNewRawRow(t *testing.T) {
	raw := NewRawRow([]string{"a", "b", "c"}, []string{"1", "2"})
	if raw["a"] != "1" || raw["b"] != "2" {
		t.Fatalf("unexpected raw row: %#v", raw)
	}
	if v, ok := raw["c"]; !ok || v != "" {
		t.Errorf("short record should leave c empty, got %q ok=%v", v, ok)
	}
}
