package helpers

import "testing"

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"1.5% (up)", "1\\.5% \\(up\\)"},
		{"a-b_c*d", "a\\-b\\_c\\*d"},
		{"[link](url)!", "\\[link\\]\\(url\\)\\!"},
	}
	for _, tt := range tests {
		if got := EscapeMarkdownV2(tt.in); got != tt.want {
			t.Errorf("EscapeMarkdownV2(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromWei(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"0", "0"},
		{"1000000000000000000", "1"},
		{"1500000000000000000", "1.5"},
		{"123450000000000000000", "123.45"},
		{"1", "0.000000000000000001"},
		{"garbage", "0"},
	}
	for _, tt := range tests {
		if got := FromWei(tt.in); got != tt.want {
			t.Errorf("FromWei(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromWeiWithDecimals(t *testing.T) {
	if got := FromWeiWithDecimals("1500000", 6); got != "1.5" {
		t.Errorf("expected 1.5, got %q", got)
	}
	if got := FromWeiWithDecimals("25", 0); got != "25" {
		t.Errorf("expected 25, got %q", got)
	}
}

func TestFormatNAVTiers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0.000000"},
		{"0", "0.000000"},
		{"0.0012345", "0.001235"},
		{"0.009999", "0.009999"},
		{"0.5", "0.5000"},
		{"0.01", "0.0100"},
		{"1", "1.00"},
		{"123.456", "123.46"},
		{"not-a-number", "0.000000"},
	}
	for _, tt := range tests {
		if got := FormatNAV(tt.in); got != tt.want {
			t.Errorf("FormatNAV(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234567.891", "1,234,567.89"},
		{"0.5", "0.50"},
		{"1000", "1,000.00"},
		{"bad", "0.00"},
	}
	for _, tt := range tests {
		if got := FormatCurrency(tt.in); got != tt.want {
			t.Errorf("FormatCurrency(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
