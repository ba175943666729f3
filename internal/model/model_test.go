package model

import (
	"testing"
)

func TestStringListScan(t *testing.T) {
	var l StringList

	if err := l.Scan(`["a","b"]`); err != nil {
		t.Fatalf("failed to scan string: %v", err)
	}
	if len(l) != 2 || l[0] != "a" {
		t.Errorf("unexpected value: %v", l)
	}

	if err := l.Scan([]byte(`["c"]`)); err != nil {
		t.Fatalf("failed to scan bytes: %v", err)
	}
	if len(l) != 1 || l[0] != "c" {
		t.Errorf("unexpected value: %v", l)
	}

	// NULL and empty columns read as an empty list, not nil panics
	if err := l.Scan(nil); err != nil {
		t.Fatalf("failed to scan nil: %v", err)
	}
	if l == nil || len(l) != 0 {
		t.Errorf("expected empty list, got %v", l)
	}

	if err := l.Scan(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestStringListValue(t *testing.T) {
	v, err := StringList{"x", "y"}.Value()
	if err != nil {
		t.Fatalf("failed to get value: %v", err)
	}
	if v != `["x","y"]` {
		t.Errorf("unexpected value: %v", v)
	}

	// A nil list stores as an empty array so scans round-trip
	v, err = StringList(nil).Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != `[]` {
		t.Errorf("unexpected nil value: %v", v)
	}
}

func TestValidators(t *testing.T) {
	for _, s := range []string{ProjectStatusPlanning, ProjectStatusBuilding, ProjectStatusCompleted, ProjectStatusError} {
		if !ValidProjectStatus(s) {
			t.Errorf("%s rejected", s)
		}
	}
	if ValidProjectStatus("launching") {
		t.Error("unknown status accepted")
	}

	for _, r := range []string{RoleUser, RoleAssistant, RoleSystem} {
		if !ValidRole(r) {
			t.Errorf("%s rejected", r)
		}
	}
	if ValidRole("robot") {
		t.Error("unknown role accepted")
	}
}
