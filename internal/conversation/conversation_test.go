package conversation

import (
	"testing"

	"velvet-portfolio-bot/internal/alert"
	"velvet-portfolio-bot/internal/types"
)

const validAddr = "0x119056cd66a3e7e2a5168893eb839bfd415a779f"

func TestFullFlow(t *testing.T) {
	m := NewManager()
	m.Begin(42)

	if step, ok := m.Step(42); !ok || step != StepAddress {
		t.Fatalf("expected StepAddress, got %v, %v", step, ok)
	}

	address, err := m.SubmitAddress(42, "  "+validAddr+"  ")
	if err != nil {
		t.Fatalf("unexpected address error: %v", err)
	}
	if address != validAddr {
		t.Errorf("expected trimmed address, got %q", address)
	}

	m.PortfolioResolved(42, address, "Alpha Fund", "ALPHA")
	if step, _ := m.Step(42); step != StepCondition {
		t.Fatalf("expected StepCondition, got %v", step)
	}

	if !m.ChooseCondition(42, address, types.ConditionAbove) {
		t.Fatal("expected condition choice to be accepted")
	}
	if step, _ := m.Step(42); step != StepThreshold {
		t.Fatalf("expected StepThreshold, got %v", step)
	}

	done, err := m.SubmitThreshold(42, "25.5")
	if err != nil {
		t.Fatalf("unexpected threshold error: %v", err)
	}
	if done.Address != validAddr || done.PortfolioName != "Alpha Fund" ||
		done.PortfolioSymbol != "ALPHA" || done.Condition != types.ConditionAbove ||
		done.Threshold != 25.5 {
		t.Errorf("unexpected completed alert: %+v", done)
	}
	if _, ok := m.Step(42); ok {
		t.Error("conversation must be gone after completion")
	}
}

func TestCompletedFlowRegistersAlert(t *testing.T) {
	m := NewManager()
	store := alert.NewStore()

	m.Begin(42)
	address, err := m.SubmitAddress(42, validAddr)
	if err != nil {
		t.Fatal(err)
	}
	m.PortfolioResolved(42, address, "Alpha Fund", "ALPHA")
	m.ChooseCondition(42, address, types.ConditionBelow)

	done, err := m.SubmitThreshold(42, "10")
	if err != nil {
		t.Fatal(err)
	}
	store.Add(42, done.Address, done.Threshold, done.Condition)

	alerts := store.List(42)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 stored alert, got %d", len(alerts))
	}
	if alerts[0].PortfolioAddress != validAddr || alerts[0].Threshold != 10 ||
		alerts[0].Condition != types.ConditionBelow {
		t.Errorf("unexpected stored alert: %+v", alerts[0])
	}
}

func TestSubmitAddressValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "   ", "Portfolio address is required"},
		{"no prefix", "119056cd66a3e7e2a5168893eb839bfd415a779f", "Invalid portfolio address format. Please provide a valid Ethereum address"},
		{"too short", "0x1190", "Invalid portfolio address format. Please provide a valid Ethereum address"},
		{"bad characters", "0xZZ9056cd66a3e7e2a5168893eb839bfd415a779f", "Invalid portfolio address format. Please provide a valid Ethereum address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			m.Begin(42)

			_, err := m.SubmitAddress(42, tt.input)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if err.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
			if _, ok := m.Step(42); ok {
				t.Error("validation failure must destroy the conversation")
			}
		})
	}
}

func TestSubmitAddressWithoutConversation(t *testing.T) {
	m := NewManager()
	if _, err := m.SubmitAddress(42, validAddr); err == nil {
		t.Error("expected an error when no conversation is live")
	}
}

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr string
	}{
		{"integer", "25", 25, ""},
		{"fractional", "0.5", 0.5, ""},
		{"padded", " 10 ", 10, ""},
		{"upper boundary accepted", "1000", 1000, ""},
		{"just above boundary", "1000.01", 0, "Threshold must be less than 1000%"},
		{"zero", "0", 0, "Threshold must be greater than 0"},
		{"negative", "-5", 0, "Threshold must be greater than 0"},
		{"not a number", "ten", 0, "Please enter a valid number"},
		{"empty", "", 0, "Please enter a valid number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseThreshold(tt.input)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubmitThresholdFailureDestroysConversation(t *testing.T) {
	m := NewManager()
	m.PortfolioResolved(42, validAddr, "Alpha Fund", "ALPHA")
	m.ChooseCondition(42, validAddr, types.ConditionAbove)

	if _, err := m.SubmitThreshold(42, "nope"); err == nil {
		t.Fatal("expected a validation error")
	}
	if _, ok := m.Step(42); ok {
		t.Error("conversation must be destroyed on threshold failure")
	}
}

func TestCancel(t *testing.T) {
	m := NewManager()
	if m.Cancel(42) {
		t.Error("cancel with no conversation must report false")
	}
	m.Begin(42)
	if !m.Cancel(42) {
		t.Error("cancel with a live conversation must report true")
	}
	if _, ok := m.Step(42); ok {
		t.Error("conversation must be gone after cancel")
	}
}

func TestSavedPortfolioShortCircuit(t *testing.T) {
	m := NewManager()

	// No Begin: the address arrives from a keyboard choice.
	m.PortfolioResolved(42, validAddr, "Alpha Fund", "ALPHA")
	if step, ok := m.Step(42); !ok || step != StepCondition {
		t.Fatalf("expected StepCondition, got %v, %v", step, ok)
	}
}

func TestConversationsAreScopedPerChat(t *testing.T) {
	m := NewManager()
	m.Begin(42)
	m.Begin(7)

	m.Cancel(42)
	if _, ok := m.Step(7); !ok {
		t.Error("cancelling one chat must not touch another")
	}
}

func TestChooseConditionWithoutConversation(t *testing.T) {
	m := NewManager()
	if m.ChooseCondition(42, validAddr, types.ConditionAbove) {
		t.Error("expected rejection when no conversation is live")
	}
}
