package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestPolicyDelay(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		size   int
		expect time.Duration
	}{
		{0, 200 * time.Millisecond},
		{100 * 1024, 200 * time.Millisecond},
		{1024*1024 - 1, 200 * time.Millisecond},
		{1024 * 1024, 500 * time.Millisecond},
		{50 * 1024 * 1024, 500 * time.Millisecond},
	}
	for _, c := range cases {
		if got := p.Delay(c.size); got != c.expect {
			t.Errorf("Delay(%d): want %s, got %s", c.size, c.expect, got)
		}
	}
}

func TestPolicyTier(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		size   int
		expect Tier
	}{
		{0, TierSmall},
		{100*1024 - 1, TierSmall},
		{100 * 1024, TierMedium},
		{1024*1024 - 1, TierMedium},
		{1024 * 1024, TierLarge},
		{5*1024*1024 - 1, TierLarge},
		{5 * 1024 * 1024, TierWarning},
		{10 * 1024 * 1024, TierWarning},
	}
	for _, c := range cases {
		if got := p.Tier(c.size); got != c.expect {
			t.Errorf("Tier(%d): want %s, got %s", c.size, c.expect, got)
		}
	}
}

func TestPolicyHints(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		size   int
		expect Hints
	}{
		{10, Hints{Tier: TierSmall}},
		{1024 * 1024, Hints{Tier: TierLarge, CollapseNested: true}},
		{6 * 1024 * 1024, Hints{Tier: TierWarning, CollapseNested: true, ShowWarning: true}},
		{10 * 1024 * 1024, Hints{Tier: TierWarning, CollapseNested: true, CollapseAll: true, ShowWarning: true}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.expect, p.Hints(c.size)); diff != "" {
			t.Errorf("Hints(%d) mismatch (-want +got):\n%s", c.size, diff)
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy should be valid: %s", err)
	}

	cases := []struct {
		description string
		edit        func(p *Policy)
		expect      string
	}{
		{"zero small", func(p *Policy) { p.Tiers.Small = 0 }, "Small"},
		{"medium below small", func(p *Policy) { p.Tiers.Medium = p.Tiers.Small }, "Medium"},
		{"warning below medium", func(p *Policy) { p.Tiers.Warning = p.Tiers.Medium - 1 }, "Warning"},
		{"large below warning", func(p *Policy) { p.Tiers.Large = p.Tiers.Warning - 1 }, "Large"},
		{"zero delay", func(p *Policy) { p.FastDelay = 0 }, "FastDelay"},
		{"negative delay", func(p *Policy) { p.SlowDelay = -time.Second }, "SlowDelay"},
	}
	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			p := DefaultPolicy()
			c.edit(&p)
			err := p.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), c.expect) {
				t.Errorf("expected error to mention %q, got %q", c.expect, err)
			}
		})
	}
}

func TestPolicyYAML(t *testing.T) {
	data := []byte(`
tiers:
  small: 10
  medium: 20
  large: 40
  warning: 30
fastDelay: 50ms
slowDelay: 1s
`)
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		t.Fatal(err)
	}
	expect := Policy{
		Tiers:     Tiers{Small: 10, Medium: 20, Large: 40, Warning: 30},
		FastDelay: 50 * time.Millisecond,
		SlowDelay: time.Second,
	}
	if diff := cmp.Diff(expect, p); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if err := p.Validate(); err != nil {
		t.Error(err)
	}
}

// crossing a tier boundary changes scheduling, never the diff
func TestTierPurity(t *testing.T) {
	p := DefaultPolicy()
	below, at := p.Tiers.Medium-1, p.Tiers.Medium
	if p.Delay(below) == p.Delay(at) {
		t.Errorf("expected delay to change across the medium boundary")
	}
}
