package enums

import (
	"math"
	"testing"
)

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("delivered")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != OrderStatusDelivered {
		t.Fatalf("expected delivered, got %s", status)
	}
	if _, err := ParseOrderStatus("teleported"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestOrderStatusIsFulfilled(t *testing.T) {
	if !OrderStatusShipped.IsFulfilled() || !OrderStatusDelivered.IsFulfilled() {
		t.Fatalf("shipped and delivered should count as fulfilled")
	}
	if OrderStatusCanceled.IsFulfilled() {
		t.Fatalf("canceled should not count as fulfilled")
	}
}

func TestDeliverySpeedFromDays(t *testing.T) {
	tests := []struct {
		days float64
		want DeliverySpeed
	}{
		{1, DeliverySpeedFast},
		{3, DeliverySpeedFast},
		{5, DeliverySpeedStandard},
		{7, DeliverySpeedStandard},
		{10, DeliverySpeedSlow},
		{math.NaN(), DeliverySpeedUnknown},
	}
	for _, tt := range tests {
		if got := DeliverySpeedFromDays(tt.days); got != tt.want {
			t.Fatalf("days %v expected %s got %s", tt.days, tt.want, got)
		}
	}
}

func TestParseGeoLevel(t *testing.T) {
	level, err := ParseGeoLevel("")
	if err != nil || level != GeoLevelState {
		t.Fatalf("empty input should default to state, got %s err %v", level, err)
	}
	if _, err := ParseGeoLevel("continent"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	cols := GeoLevelZip.GroupColumns()
	if len(cols) != 3 || cols[2] != "customer_zip_code_prefix" {
		t.Fatalf("unexpected zip group columns: %v", cols)
	}
}
