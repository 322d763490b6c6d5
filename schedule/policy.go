package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Tier is a coarse classification of input size
type Tier string

const (
	// TierSmall inputs are diffed and rendered in full
	TierSmall = Tier("small")
	// TierMedium inputs render fully but debounce quickly
	TierMedium = Tier("medium")
	// TierLarge inputs debounce slowly and collapse nested output
	TierLarge = Tier("large")
	// TierWarning inputs are large enough that the consumer should warn
	TierWarning = Tier("warning")
)

// Tiers are byte-length thresholds
type Tiers struct {
	Small   int `yaml:"small" json:"small" validate:"gt=0"`
	Medium  int `yaml:"medium" json:"medium" validate:"gtfield=Small"`
	Large   int `yaml:"large" json:"large" validate:"gtefield=Warning"`
	Warning int `yaml:"warning" json:"warning" validate:"gtefield=Medium"`
}

// Policy holds the size thresholds and debounce delays a Scheduler works
// from. The zero value is not usable; start from DefaultPolicy
type Policy struct {
	Tiers     Tiers         `yaml:"tiers" json:"tiers"`
	FastDelay time.Duration `yaml:"fastDelay" json:"fastDelay" validate:"gt=0"`
	SlowDelay time.Duration `yaml:"slowDelay" json:"slowDelay" validate:"gt=0"`
}

// DefaultPolicy returns the stock thresholds: 100KB, 1MB, 10MB with a 5MB
// warning line, debouncing 200ms below 1MB and 500ms above
func DefaultPolicy() Policy {
	return Policy{
		Tiers: Tiers{
			Small:   100 * 1024,
			Medium:  1024 * 1024,
			Large:   10 * 1024 * 1024,
			Warning: 5 * 1024 * 1024,
		},
		FastDelay: 200 * time.Millisecond,
		SlowDelay: 500 * time.Millisecond,
	}
}

var validate = validator.New()

// Validate checks that thresholds are ordered and delays are positive
func (p Policy) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", e.Namespace(), e.Param()))
		case "gtfield":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", e.Namespace(), e.Param()))
		case "gtefield":
			msgs = append(msgs, fmt.Sprintf("%s must not be below %s", e.Namespace(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Namespace()))
		}
	}
	return fmt.Errorf("invalid policy: %s", strings.Join(msgs, "; "))
}

// Delay is the debounce delay for an input of n bytes
func (p Policy) Delay(n int) time.Duration {
	if n < p.Tiers.Medium {
		return p.FastDelay
	}
	return p.SlowDelay
}

// Tier classifies an input of n bytes
func (p Policy) Tier(n int) Tier {
	switch {
	case n < p.Tiers.Small:
		return TierSmall
	case n < p.Tiers.Medium:
		return TierMedium
	case n < p.Tiers.Warning:
		return TierLarge
	}
	return TierWarning
}

// Hints are rendering suggestions for a consumer displaying a result
type Hints struct {
	Tier           Tier `json:"tier"`
	CollapseNested bool `json:"collapseNested"`
	CollapseAll    bool `json:"collapseAll"`
	ShowWarning    bool `json:"showWarning"`
}

// Hints derives rendering suggestions for an input of n bytes. Hints never
// affect the diff itself
func (p Policy) Hints(n int) Hints {
	return Hints{
		Tier:           p.Tier(n),
		CollapseNested: n >= p.Tiers.Medium,
		CollapseAll:    n >= p.Tiers.Large,
		ShowWarning:    n >= p.Tiers.Warning,
	}
}
