package types

import "testing"

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		address string
		valid   bool
	}{
		{"0x119056cd66a3e7e2a5168893eb839bfd415a779f", true},
		{"0x119056CD66A3E7E2A5168893EB839BFD415A779F", true},
		{"", false},
		{"119056cd66a3e7e2a5168893eb839bfd415a779f", false},
		{"0x119056cd66a3e7e2a5168893eb839bfd415a779", false},
		{"0x119056cd66a3e7e2a5168893eb839bfd415a779f0", false},
		{"0xz19056cd66a3e7e2a5168893eb839bfd415a779f", false},
		{" 0x119056cd66a3e7e2a5168893eb839bfd415a779f", false},
	}
	for _, tt := range tests {
		if got := IsValidAddress(tt.address); got != tt.valid {
			t.Errorf("IsValidAddress(%q) = %v, want %v", tt.address, got, tt.valid)
		}
	}
}

func TestValidatePortfolioAddress(t *testing.T) {
	if err := ValidatePortfolioAddress(""); err == nil || err.Error() != "Portfolio address is required" {
		t.Errorf("unexpected empty-address error: %v", err)
	}
	if err := ValidatePortfolioAddress("0x123"); err == nil ||
		err.Error() != "Invalid portfolio address format. Please provide a valid Ethereum address" {
		t.Errorf("unexpected bad-format error: %v", err)
	}
	if err := ValidatePortfolioAddress("0x119056cd66a3e7e2a5168893eb839bfd415a779f"); err != nil {
		t.Errorf("valid address rejected: %v", err)
	}
}

func TestIsValidScale(t *testing.T) {
	for _, scale := range AllScales {
		if !IsValidScale(string(scale)) {
			t.Errorf("expected %q to be valid", scale)
		}
	}
	for _, s := range []string{"", "year", "month", "ALL"} {
		if IsValidScale(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestConditionWord(t *testing.T) {
	if ConditionAbove.Word() != "above" {
		t.Errorf("unexpected word for gt: %q", ConditionAbove.Word())
	}
	if ConditionBelow.Word() != "below" {
		t.Errorf("unexpected word for lt: %q", ConditionBelow.Word())
	}
}
