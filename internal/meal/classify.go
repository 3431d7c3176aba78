package meal

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/donalcheung/dine-together-sub000/internal/achievement"
	"github.com/donalcheung/dine-together-sub000/internal/domain"
)

// zonedLayouts carry an explicit offset which is taken as the diner's local time
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// localLayouts have no zone and are read in the configured default location
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Classifier turns a completion into a meal record: time buckets, cuisine and city
type Classifier struct {
	catalog  *achievement.Catalog
	location *time.Location
}

// NewClassifier creates a classifier. loc is used for timestamps without a zone; nil means UTC.
func NewClassifier(catalog *achievement.Catalog, loc *time.Location) *Classifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Classifier{
		catalog:  catalog,
		location: loc,
	}
}

// ParseDiningTime parses an ISO-8601 timestamp
func (c *Classifier) ParseDiningTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, c.location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s: %q", domain.ErrInvalidDiningTime, ErrMsgDiningTimeFormat, s)
}

// TimeBuckets reports the non-exclusive buckets a local dining time falls into
func TimeBuckets(t time.Time) (breakfast, late, weekend bool) {
	h := t.Hour()
	wd := t.Weekday()
	return h < BreakfastBeforeHour, h >= LateFromHour, wd == time.Saturday || wd == time.Sunday
}

// ExtractCity picks the city out of a free-form address.
// Parts are split on commas; words containing digits are dropped, as are
// short upper-case codes and country names. The last remaining part wins.
func (c *Classifier) ExtractCity(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < MinAddressParts {
		return ""
	}

	city := ""
	for _, part := range parts {
		if candidate := cityCandidate(part); candidate != "" {
			city = candidate
		}
	}
	if city == "" {
		return ""
	}
	// Casers are stateful, so one per call
	return cases.Title(language.English).String(strings.ToLower(city))
}

func cityCandidate(part string) string {
	words := strings.Fields(part)
	kept := words[:0]
	for _, w := range words {
		if !strings.ContainsFunc(w, unicode.IsDigit) {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	candidate := strings.Join(kept, " ")
	if isRegionCode(candidate) || countryNames[strings.ToLower(strings.Trim(candidate, "."))] {
		return ""
	}
	return candidate
}

// isRegionCode matches state and country codes like "TX", "NSW" or "U.K."
func isRegionCode(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case r == '.':
		case unicode.IsUpper(r):
			letters++
		default:
			return false
		}
	}
	return letters > 0 && letters <= 3
}

// Classify validates the dining time and derives the meal record. It does not touch storage.
func (c *Classifier) Classify(in *domain.MealCompletion) (*domain.MealRecord, error) {
	diningTime, err := c.ParseDiningTime(in.DiningTime)
	if err != nil {
		return nil, err
	}
	breakfast, late, weekend := TimeBuckets(diningTime)

	return &domain.MealRecord{
		UserID:      in.UserID,
		RequestID:   in.RequestID,
		IsHost:      in.IsHost,
		Cuisine:     c.catalog.DetectCuisine(in.RestaurantName, in.Description),
		City:        c.ExtractCity(in.RestaurantAddress),
		IsBreakfast: breakfast,
		IsLate:      late,
		IsWeekend:   weekend,
		PartnerIDs:  partnersExcluding(in.PartnerIDs, in.UserID),
		DiningTime:  diningTime,
	}, nil
}

func partnersExcluding(ids []string, userID string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == userID || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
