// Package level maps cumulative XP to levels. All functions are pure and total.
package level

import "math"

// Progress describes where a user sits inside their current level band
type Progress struct {
	CurrentLevel    int   `json:"current_level"`
	XPIntoLevel     int64 `json:"xp_into_level"`
	XPNeededForNext int64 `json:"xp_needed_for_next"`
	ProgressPercent int   `json:"progress_percent"`
}

// LevelForXP returns the level for a cumulative XP total.
// Starting at level 1 with a threshold of 50, every crossed threshold raises the level
// and adds BandStep * newLevel to the next threshold. Negative XP is treated as 0.
//
// The accumulated threshold for level L is 25*L*(L-1), so L is the largest integer with
// L*(L-1) <= xp/25, which is (isqrt(4*(xp/25)+1)+1)/2.
func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	q := xp / (BandStep / 2)
	return int((isqrt(4*q+1) + 1) / 2)
}

// isqrt returns floor(sqrt(n)) for n >= 0
func isqrt(n int64) int64 {
	u := uint64(n)
	r := uint64(math.Sqrt(float64(n)))
	// float64 loses precision above 2^53, so correct the estimate
	for r > 0 && r*r > u {
		r--
	}
	for (r+1)*(r+1) <= u {
		r++
	}
	return int64(r)
}

// XPRequiredForLevel returns the cumulative XP needed to reach a level.
// Closed form of the LevelForXP accumulation: 25 * L * (L - 1).
// Levels above MaxLevel are reported at MaxLevel's threshold.
func XPRequiredForLevel(level int) int64 {
	if level <= MinLevel {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	l := int64(level)
	return BandStep / 2 * l * (l - 1)
}

// BandWidth returns the XP between the start of a level and the start of the next one
func BandWidth(level int) int64 {
	if level < MinLevel {
		level = MinLevel
	}
	return BandStep * int64(level)
}

// ProgressWithinLevel reports the current level and how far into it the user is.
// ProgressPercent is round(into / needed * 100), clamped to [0, 100].
func ProgressWithinLevel(xp int64) Progress {
	if xp < 0 {
		xp = 0
	}

	current := LevelForXP(xp)
	into := xp - XPRequiredForLevel(current)
	needed := BandWidth(current)

	return Progress{
		CurrentLevel:    current,
		XPIntoLevel:     into,
		XPNeededForNext: needed,
		ProgressPercent: Percent(into, needed),
	}
}

// Percent returns round(part / whole * 100) clamped to [0, 100].
// A non-positive whole yields 100 when part is positive and 0 otherwise.
func Percent(part, whole int64) int {
	if part <= 0 {
		return 0
	}
	if whole <= 0 || part >= whole {
		return 100
	}
	// Half-up rounding in integer arithmetic
	p := (part*200 + whole) / (2 * whole)
	if p > 100 {
		return 100
	}
	return int(p)
}
