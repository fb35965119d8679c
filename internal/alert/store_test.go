package alert

import (
	"testing"

	"velvet-portfolio-bot/internal/types"
)

const (
	addrAlpha = "0x119056cd66a3e7e2a5168893eb839bfd415a779f"
	addrBeta  = "0x22e2e2d6e74ccba12a29ccba53c53a53aa75b6a0"
)

func TestStoreAddListRemove(t *testing.T) {
	store := NewStore()

	id := store.Add(42, addrAlpha, 25, types.ConditionAbove)
	if id == "" {
		t.Fatal("expected non-empty alert id")
	}

	alerts := store.List(42)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Threshold != 25 || alerts[0].Condition != types.ConditionAbove {
		t.Errorf("unexpected alert contents: %+v", alerts[0])
	}
	if alerts[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	if !store.Remove(42, addrAlpha, id) {
		t.Fatal("expected removal to succeed")
	}
	if got := store.List(42); len(got) != 0 {
		t.Errorf("expected empty list after removal, got %d", len(got))
	}
	if len(store.Snapshot()) != 0 {
		t.Error("expected empty bucket to be deleted")
	}
}

func TestStoreRemoveUnknownID(t *testing.T) {
	store := NewStore()
	store.Add(42, addrAlpha, 10, types.ConditionAbove)

	if store.Remove(42, addrAlpha, "no-such-id") {
		t.Error("expected removal of unknown id to fail")
	}
	if store.Remove(42, addrBeta, "no-such-id") {
		t.Error("expected removal from unknown bucket to fail")
	}
	if len(store.List(42)) != 1 {
		t.Error("failed removal must not touch existing alerts")
	}
}

func TestStoreListSortedByThreshold(t *testing.T) {
	store := NewStore()
	store.Add(42, addrAlpha, 50, types.ConditionAbove)
	store.Add(42, addrBeta, 5, types.ConditionBelow)
	store.Add(42, addrAlpha, 20, types.ConditionAbove)

	alerts := store.List(42)
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts))
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i-1].Threshold > alerts[i].Threshold {
			t.Fatalf("alerts not sorted by threshold: %v", alerts)
		}
	}
}

func TestStoreRemoveAllScopedToChat(t *testing.T) {
	store := NewStore()
	store.Add(42, addrAlpha, 10, types.ConditionAbove)
	store.Add(42, addrBeta, 20, types.ConditionBelow)
	store.Add(7, addrAlpha, 30, types.ConditionAbove)

	if count := store.RemoveAll(42); count != 2 {
		t.Errorf("expected 2 removed, got %d", count)
	}
	if len(store.List(42)) != 0 {
		t.Error("expected chat 42 to have no alerts left")
	}
	if len(store.List(7)) != 1 {
		t.Error("removeAll must not touch other chats")
	}
	if count := store.RemoveAll(42); count != 0 {
		t.Errorf("expected 0 removed on second pass, got %d", count)
	}
}

func TestStoreRemoveAllPrefixIsExact(t *testing.T) {
	store := NewStore()
	store.Add(4, addrAlpha, 10, types.ConditionAbove)
	store.Add(42, addrAlpha, 10, types.ConditionAbove)

	if count := store.RemoveAll(4); count != 1 {
		t.Errorf("expected 1 removed for chat 4, got %d", count)
	}
	if len(store.List(42)) != 1 {
		t.Error("chat 42 must be untouched by chat 4 removal")
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	store := NewStore()
	store.Add(42, addrAlpha, 10, types.ConditionAbove)

	snapshot := store.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(snapshot))
	}
	snapshot[0].Alerts[0].Threshold = 999

	if store.List(42)[0].Threshold != 10 {
		t.Error("mutating the snapshot must not affect the store")
	}
}

func TestStoreCount(t *testing.T) {
	store := NewStore()
	if store.Count() != 0 {
		t.Error("expected empty store count 0")
	}
	store.Add(42, addrAlpha, 10, types.ConditionAbove)
	store.Add(7, addrBeta, 20, types.ConditionBelow)
	if store.Count() != 2 {
		t.Errorf("expected count 2, got %d", store.Count())
	}
}
