package alert

import (
	"reflect"
	"testing"
)

func TestAddRecipientDeduplicates(t *testing.T) {
	s := DefaultSettings()

	if !s.AddRecipient("a@example.com") {
		t.Fatal("first add should succeed")
	}
	if s.AddRecipient("a@example.com") {
		t.Fatal("duplicate add should be refused")
	}
	if s.AddRecipient("   ") {
		t.Fatal("blank add should be refused")
	}
	if !s.AddRecipient("b@example.com") {
		t.Fatal("distinct add should succeed")
	}

	want := []string{"a@example.com", "b@example.com"}
	if !reflect.DeepEqual(s.RecipientEmails, want) {
		t.Fatalf("recipients = %v, want %v", s.RecipientEmails, want)
	}
}

func TestRemoveRecipientPreservesOrder(t *testing.T) {
	s := DefaultSettings()
	s.RecipientEmails = []string{"a@x", "b@x", "c@x"}

	if !s.RemoveRecipient("b@x") {
		t.Fatal("remove of present email should succeed")
	}
	if s.RemoveRecipient("b@x") {
		t.Fatal("remove of absent email should report false")
	}

	want := []string{"a@x", "c@x"}
	if !reflect.DeepEqual(s.RecipientEmails, want) {
		t.Fatalf("recipients = %v, want %v", s.RecipientEmails, want)
	}
}

func TestNormalizedDeduplicatesInInsertionOrder(t *testing.T) {
	s := Settings{
		RecipientEmails: []string{"a@x", "b@x", "a@x", "", " b@x "},
		Frequency:       "sometimes",
		Unit:            "carat",
	}

	got := s.Normalized()

	want := []string{"a@x", "b@x"}
	if !reflect.DeepEqual(got.RecipientEmails, want) {
		t.Fatalf("recipients = %v, want %v", got.RecipientEmails, want)
	}
	if got.Frequency != FrequencyDaily {
		t.Fatalf("unknown frequency should coerce to daily, got %s", got.Frequency)
	}
	if got.Unit != UnitOunce {
		t.Fatalf("unknown unit should coerce to ounce, got %s", got.Unit)
	}
}
