package main

import (
	"strings"
	"testing"
)

func TestGenerateValidateRequiresTarget(t *testing.T) {
	opts := &generateOptions{novelty: true, sourceRankBoost: -1, freshnessBoost: -1}
	if err := opts.validate(); err == nil {
		t.Fatal("expected error without watchlist or companies")
	}
	opts.watchlist = "wl-1"
	opts.companies = []string{"E1"}
	if err := opts.validate(); err == nil {
		t.Fatal("expected error when combining watchlist and companies")
	}
}

func TestGenerateValidateDates(t *testing.T) {
	opts := &generateOptions{watchlist: "wl-1", sourceRankBoost: -1, freshnessBoost: -1}
	opts.startDate = "01/08/2025"
	if err := opts.validate(); err == nil {
		t.Fatal("expected error for bad date format")
	}
	opts.startDate = "2025-08-07"
	opts.endDate = "2025-08-01"
	if err := opts.validate(); err == nil {
		t.Fatal("expected error for inverted range")
	}
	opts.endDate = "2025-08-14"
	if err := opts.validate(); err != nil {
		t.Fatalf("valid range rejected: %v", err)
	}
}

func TestGenerateValidateTopicPlaceholder(t *testing.T) {
	opts := &generateOptions{watchlist: "wl-1", sourceRankBoost: -1, freshnessBoost: -1}
	opts.topics = []string{"earnings news about {company}"}
	if err := opts.validate(); err != nil {
		t.Fatalf("valid topic rejected: %v", err)
	}
	opts.topics = []string{"general market news"}
	err := opts.validate()
	if err == nil {
		t.Fatal("expected error for topic without placeholder")
	}
	if !strings.Contains(err.Error(), "{company}") {
		t.Fatalf("error should name the placeholder: %v", err)
	}
}

func TestGenerateValidateBoostRange(t *testing.T) {
	for _, boost := range []int{-2, 11, 100} {
		opts := &generateOptions{watchlist: "wl-1", sourceRankBoost: boost, freshnessBoost: -1}
		if err := opts.validate(); err == nil {
			t.Errorf("expected error for boost %d", boost)
		}
	}
	opts := &generateOptions{watchlist: "wl-1", sourceRankBoost: 0, freshnessBoost: 10}
	if err := opts.validate(); err != nil {
		t.Fatalf("boundary boosts rejected: %v", err)
	}
}

func TestGenerateRequestOmitsUnsetBoosts(t *testing.T) {
	opts := &generateOptions{watchlist: "wl-1", sourceRankBoost: -1, freshnessBoost: 7}
	req := opts.request()
	if req.SourceRankBoost != nil {
		t.Fatal("unset boost must stay nil")
	}
	if req.FreshnessBoost == nil || *req.FreshnessBoost != 7 {
		t.Fatalf("set boost lost: %v", req.FreshnessBoost)
	}
	if req.WatchlistID != "wl-1" {
		t.Fatalf("watchlist lost: %q", req.WatchlistID)
	}
}

func TestRootCommandWiring(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"generate", "status", "debug", "db"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
	if cmd.PersistentFlags().Lookup("server") == nil {
		t.Error("missing --server persistent flag")
	}
	if cmd.PersistentFlags().Lookup("log-level") == nil {
		t.Error("missing --log-level persistent flag")
	}
}
