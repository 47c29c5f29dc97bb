package run

import (
	"testing"

	"sheetdiff/domain/core"
	"sheetdiff/domain/layout"
)

func TestManifestFingerprint_Deterministic(t *testing.T) {
	layouts := layout.DefaultRegistry().Layouts()

	m1 := NewManifest(core.NewRunID(), "/data/recompare", "excelize", layouts, "1.0.0")
	m2 := NewManifest(core.NewRunID(), "/data/recompare", "excelize", layouts, "1.0.0")

	if m1.Fingerprint != m2.Fingerprint {
		t.Errorf("Fingerprints not identical: %s vs %s", m1.Fingerprint, m2.Fingerprint)
	}
	if m1.RunID == m2.RunID {
		t.Errorf("Run ids should differ")
	}
	if len(m1.Layouts) != 3 {
		t.Errorf("Expected 3 layouts, got %d", len(m1.Layouts))
	}
}

func TestManifestFingerprint_Unique(t *testing.T) {
	layouts := layout.DefaultRegistry().Layouts()
	base := NewManifest(core.NewRunID(), "/data/recompare", "excelize", layouts, "1.0.0")

	testCases := []struct {
		name string
		m    Manifest
	}{
		{"different root", NewManifest(core.NewRunID(), "/data/other", "excelize", layouts, "1.0.0")},
		{"different recalc", NewManifest(core.NewRunID(), "/data/recompare", "none", layouts, "1.0.0")},
		{"different layouts", NewManifest(core.NewRunID(), "/data/recompare", "excelize", layouts[:1], "1.0.0")},
		{"different version", NewManifest(core.NewRunID(), "/data/recompare", "excelize", layouts, "1.0.1")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.m.Fingerprint == base.Fingerprint {
				t.Errorf("Fingerprint should change for %s", tc.name)
			}
		})
	}
}

func TestManifest_Validate(t *testing.T) {
	m := NewManifest(core.NewRunID(), "/data", "none", nil, "dev")
	if err := m.Validate(); err != nil {
		t.Fatalf("Valid manifest rejected: %v", err)
	}

	m.Root = ""
	err := m.Validate()
	if err == nil {
		t.Fatal("Expected validation error for empty root")
	}
	if !core.IsValidationError(err) {
		t.Errorf("Expected validation error kind, got %v", err)
	}
}
