// Package ratelimit bounds how often a caller may perform an action.
package ratelimit

//go:generate mockgen -source=ratelimit.go -destination=../mocks/ratelimit_mock.go -package=mocks

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Rule limits an action to Limit calls per Window.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Presets.
var (
	CreateQR      = Rule{Name: "create_qr", Limit: 10, Window: time.Minute}
	CaptureLead   = Rule{Name: "capture_lead", Limit: 5, Window: time.Minute}
	Login         = Rule{Name: "login", Limit: 5, Window: 5 * time.Minute}
	UpdateProfile = Rule{Name: "update_profile", Limit: 3, Window: time.Minute}
	Search        = Rule{Name: "search", Limit: 30, Window: time.Minute}
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAfter is the time until the caller regains capacity.
	ResetAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string, rule Rule) (Decision, error)
}

func bucketKey(key string, rule Rule) string {
	return rule.Name + ":" + key
}

// FormatRemaining renders a wait time as whole seconds below a minute and
// whole minutes above, rounding up.
func FormatRemaining(d time.Duration) string {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 60 {
		return plural(seconds, "second")
	}
	minutes := int(math.Ceil(float64(seconds) / 60))
	return plural(minutes, "minute")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
