// Package platform derives a device capability profile once, at session
// start, so gesture handling never has to sniff the environment at
// runtime.
package platform

import (
	"regexp"
	"time"
)

// Selection timing defaults. iOS resolves text selections measurably
// slower after touch-end, so it gets a shorter long press and a longer
// settle delay.
const (
	DefaultLongPressDuration    = 500 * time.Millisecond
	DefaultSelectionSettleDelay = 50 * time.Millisecond
	IOSLongPressDuration        = 400 * time.Millisecond
	IOSSelectionSettleDelay     = 100 * time.Millisecond
)

// iOS hides several touch capabilities from feature probing, so detection
// goes by user agent, never by capability checks alone.
var (
	iosPattern    = regexp.MustCompile(`iPad|iPhone|iPod`)
	mobilePattern = regexp.MustCompile(`(?i)iPad|iPhone|iPod|Android`)
)

// Profile is an immutable capability snapshot passed explicitly into the
// gesture classifier.
type Profile struct {
	IsTouchCapable bool
	IsIOS          bool
	IsMobile       bool

	LongPressDuration    time.Duration
	SelectionSettleDelay time.Duration
}

// Detect builds a Profile from the session's user agent string and the
// reported touch point count.
func Detect(userAgent string, maxTouchPoints int) Profile {
	p := Profile{
		IsIOS:                iosPattern.MatchString(userAgent),
		IsMobile:             mobilePattern.MatchString(userAgent),
		LongPressDuration:    DefaultLongPressDuration,
		SelectionSettleDelay: DefaultSelectionSettleDelay,
	}
	p.IsTouchCapable = maxTouchPoints > 0 || p.IsMobile

	if p.IsIOS {
		p.LongPressDuration = IOSLongPressDuration
		p.SelectionSettleDelay = IOSSelectionSettleDelay
	}
	return p
}
