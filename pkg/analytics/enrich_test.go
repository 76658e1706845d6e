package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-admin-console/components/console"
)

func TestEnrichSeedReplacesBaselineAndActivity(t *testing.T) {
	mock := NewMockClient(MockData{
		Baseline: console.Baseline{Users: 5, ActiveRoles: 1, SecurityEvents: 2},
		Activity: []console.ActivityItem{
			{ID: "r1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Type: console.ActivityUpdate, User: "Ops", Action: "updated role \"User\""},
			{ID: "r2", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Type: console.ActivityDelete, User: "Ops", Action: "removed user \"X\""},
		},
	})
	doc := console.DefaultSeed()
	if err := EnrichSeed(context.Background(), mock, doc, EnrichOptions{ActivityLimit: 1}); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if doc.Baseline == nil || doc.Baseline.Users != 5 {
		t.Fatalf("expected baseline from client, got %#v", doc.Baseline)
	}
	if len(doc.Activity) != 1 || doc.Activity[0].ID != "r1" {
		t.Fatalf("expected limited activity, got %#v", doc.Activity)
	}
}

func TestEnrichSeedSkipActivity(t *testing.T) {
	mock := NewMockClient(MockData{Baseline: console.Baseline{Users: 1}})
	doc := console.DefaultSeed()
	if err := EnrichSeed(context.Background(), mock, doc, EnrichOptions{SkipActivity: true}); err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if len(doc.Activity) != len(console.DefaultActivity()) {
		t.Fatalf("expected seed activity untouched, got %d", len(doc.Activity))
	}
	if err := EnrichSeed(context.Background(), nil, doc, EnrichOptions{}); err == nil {
		t.Fatalf("expected error without client")
	}
}
