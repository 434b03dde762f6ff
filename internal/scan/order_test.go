package scan

import (
	"slices"
	"testing"
)

func TestOrder(t *testing.T) {
	input := []string{"clip10.mp4", "Clip1.mp4", "clip2.mp4"}
	tests := []struct {
		name string
		rule string
		want []string
	}{
		{"name sorts bytewise", OrderName, []string{"Clip1.mp4", "clip10.mp4", "clip2.mp4"}},
		{"empty rule defaults to name", "", []string{"Clip1.mp4", "clip10.mp4", "clip2.mp4"}},
		{"collate sorts numerically", OrderCollate, []string{"Clip1.mp4", "clip2.mp4", "clip10.mp4"}},
		{"listing keeps input", OrderListing, []string{"clip10.mp4", "Clip1.mp4", "clip2.mp4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Order(input, tt.rule, "und")
			if err != nil {
				t.Fatalf("Order: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Order(%q) = %v, want %v", tt.rule, got, tt.want)
			}
		})
	}
	if input[0] != "clip10.mp4" {
		t.Fatalf("Order must not modify its input, got %v", input)
	}
}

func TestOrderRejectsUnknownRule(t *testing.T) {
	if _, err := Order([]string{"a"}, "shuffle", "und"); err == nil {
		t.Fatal("expected error for unknown rule")
	}
	if _, err := Order([]string{"a"}, OrderCollate, "not a tag!"); err == nil {
		t.Fatal("expected error for invalid collation")
	}
}
