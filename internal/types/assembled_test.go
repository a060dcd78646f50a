package types

import (
	"testing"
	"time"
)

func TestToDict_StableContractShape(t *testing.T) {
	set := &AssembledRecommendationSet{
		UserID:     "user-1",
		PersonaID:  "low_savings",
		TimeWindow: "30d",
		Recommendations: []AssembledRecommendationItem{
			{
				ItemType:           ItemTypeEducation,
				ItemID:             "emergency-fund-basics",
				Content:            map[string]any{"title": "Emergency Fund Basics"},
				Rationale:          "This is suggested because it builds a cushion.",
				PersonaMatchReason: "Selected for you because your savings cushion is thin.",
			},
		},
		Disclaimer:  "disclaimer text",
		Metadata:    SetMetadata{TotalRecommendations: 1, EducationCount: 1, TimeWindow: "30d"},
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	dict := set.ToDict()

	for _, key := range []string{"user_id", "persona_id", "time_window", "recommendations", "disclaimer", "metadata", "generated_at"} {
		if _, ok := dict[key]; !ok {
			t.Fatalf("missing top-level key %q", key)
		}
	}
	recs, ok := dict["recommendations"].([]map[string]any)
	if !ok || len(recs) != 1 {
		t.Fatalf("unexpected recommendations shape: %T", dict["recommendations"])
	}
	if recs[0]["signal_citations"] == nil {
		t.Fatalf("nil citations must serialize as empty slice")
	}
	metadata, ok := dict["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected metadata shape: %T", dict["metadata"])
	}
	for _, key := range []string{"total_recommendations", "education_count", "partner_offer_count", "generation_time_ms", "time_window", "signals_detected", "matching_audit_trail"} {
		if _, present := metadata[key]; !present {
			t.Fatalf("missing metadata key %q", key)
		}
	}
	if _, present := metadata["reason"]; present {
		t.Fatalf("reason must be omitted when empty")
	}
	if dict["generated_at"] != "2026-08-01T12:00:00Z" {
		t.Fatalf("unexpected generated_at: %v", dict["generated_at"])
	}
}

func TestToDict_EmptySetIncludesReason(t *testing.T) {
	set := &AssembledRecommendationSet{
		UserID:          "user-1",
		Recommendations: []AssembledRecommendationItem{},
		Disclaimer:      "disclaimer text",
		Metadata:        SetMetadata{Reason: "user has not opted in"},
	}
	dict := set.ToDict()
	metadata := dict["metadata"].(map[string]any)
	if metadata["reason"] != "user has not opted in" {
		t.Fatalf("expected reason surfaced, got %v", metadata["reason"])
	}
	if metadata["signals_detected"] == nil {
		t.Fatalf("nil signals must serialize as empty slice")
	}
}

func TestSignalMatchCount_CountsDistinctTriggers(t *testing.T) {
	item := RecommendationItem{TriggeringSignals: []string{"low_savings_balance", "high_utilization"}}
	if got := item.SignalMatchCount([]string{"low_savings_balance", "subscription_creep"}); got != 1 {
		t.Fatalf("expected 1 match, got %d", got)
	}
	if got := item.SignalMatchCount(nil); got != 0 {
		t.Fatalf("expected 0 matches, got %d", got)
	}
}
