package telegram

import (
	"testing"

	"velvet-portfolio-bot/internal/portfolio"
	"velvet-portfolio-bot/internal/types"
)

const testAddr = "0x119056cd66a3e7e2a5168893eb839bfd415a779f"

func TestCheckSelectedAddress(t *testing.T) {
	storage := portfolio.NewStorage()
	storage.Save(42, testAddr, types.Portfolio{Name: "Alpha Fund", Symbol: "ALPHA", ChainName: "bsc"})
	b := &Bot{Portfolios: storage}

	if err := b.checkSelectedAddress(42, testAddr); err != nil {
		t.Errorf("saved address must be accepted: %v", err)
	}
	if err := b.checkSelectedAddress(42, "0x22e2e2d6e74ccba12a29ccba53c53a53aa75b6a0"); err != nil {
		t.Errorf("well-formed unsaved address must be accepted: %v", err)
	}
	if err := b.checkSelectedAddress(42, "not-an-address"); err == nil {
		t.Error("malformed unsaved address must be rejected")
	}
	if err := b.checkSelectedAddress(7, testAddr); err != nil {
		t.Errorf("well-formed address saved by another chat must still pass format validation: %v", err)
	}
}
