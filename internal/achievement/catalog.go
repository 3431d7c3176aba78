// Package achievement holds the static achievement catalog, the evaluator that scores
// a stats snapshot against it, and the read service for per-user achievement state.
package achievement

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/donalcheung/dine-together-sub000/internal/domain"
	"github.com/donalcheung/dine-together-sub000/internal/validation"
)

// Achievement is an immutable catalog entry
type Achievement struct {
	Key         string                     `json:"key"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	Icon        string                     `json:"icon"`
	Category    domain.AchievementCategory `json:"category"`
	Metric      string                     `json:"metric"`
	Cuisine     string                     `json:"cuisine,omitempty"`
	Target      int                        `json:"target"`
	XPBonus     int64                      `json:"xp_bonus"`

	progress progressFunc
	unlocked unlockFunc
}

// Progress returns the raw progress for a snapshot. It may exceed Target.
func (a *Achievement) Progress(s *domain.UserStatsSnapshot) int {
	p := a.progress(s, a)
	if p < 0 {
		return 0
	}
	return p
}

// Unlocked reports whether the snapshot satisfies the entry
func (a *Achievement) Unlocked(s *domain.UserStatsSnapshot) bool {
	if a.unlocked != nil {
		return a.unlocked(s, a)
	}
	return a.Progress(s) >= a.Target
}

// MealRewards are the base XP rates for completing a meal
type MealRewards struct {
	Host  int64 `json:"host"`
	Guest int64 `json:"guest"`
}

type catalogFile struct {
	Version      string         `json:"version"`
	MealRewards  MealRewards    `json:"meal_rewards"`
	Achievements []*Achievement `json:"achievements"`
}

// Catalog is the read-only registry of achievements. Safe for concurrent use.
type Catalog struct {
	version  string
	entries  []*Achievement
	byKey    map[string]*Achievement
	rewards  MealRewards
	cuisines []Cuisine
	matcher  *cuisineMatcher
}

// Load reads, schema-checks and validates the catalog files in fsys
func Load(fsys fs.FS) (*Catalog, error) {
	if err := validation.NewSchemaValidator(fsys).ValidateFile(CatalogFile, CatalogSchemaFile); err != nil {
		return nil, fmt.Errorf("invalid achievement catalog: %w", err)
	}

	raw, err := fs.ReadFile(fsys, CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", CatalogFile, err)
	}
	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", CatalogFile, err)
	}

	cuisines, err := loadCuisines(fsys, CuisineFile)
	if err != nil {
		return nil, err
	}

	return newCatalog(file, cuisines)
}

func newCatalog(file catalogFile, cuisines []Cuisine) (*Catalog, error) {
	if file.MealRewards.Host <= file.MealRewards.Guest || file.MealRewards.Guest <= 0 {
		return nil, fmt.Errorf("%w: %s (host=%d guest=%d)", domain.ErrInvalidInput, ErrMsgMealRewards,
			file.MealRewards.Host, file.MealRewards.Guest)
	}

	knownCuisine := make(map[string]bool, len(cuisines))
	for _, c := range cuisines {
		knownCuisine[c.Key] = true
	}

	c := &Catalog{
		version:  file.Version,
		entries:  make([]*Achievement, 0, len(file.Achievements)),
		byKey:    make(map[string]*Achievement, len(file.Achievements)),
		rewards:  file.MealRewards,
		cuisines: cuisines,
		matcher:  newCuisineMatcher(cuisines),
	}

	var errs []error
	for _, a := range file.Achievements {
		if err := validateEntry(a, c.byKey, knownCuisine); err != nil {
			errs = append(errs, err)
			continue
		}
		m := metrics[a.Metric]
		a.progress = m.progress
		a.unlocked = m.unlocked
		c.entries = append(c.entries, a)
		c.byKey[a.Key] = a
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

func validateEntry(a *Achievement, existing map[string]*Achievement, knownCuisine map[string]bool) error {
	if a.Target <= 0 {
		return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, a.Key, ErrMsgNonPositiveTarget)
	}
	if a.XPBonus < 0 {
		return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, a.Key, ErrMsgNegativeBonus)
	}
	if _, dup := existing[a.Key]; dup {
		return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, a.Key, ErrMsgDuplicateKey)
	}
	m, ok := metrics[a.Metric]
	if !ok {
		return fmt.Errorf("%w: %s: %s %q", domain.ErrInvalidInput, a.Key, ErrMsgUnknownMetric, a.Metric)
	}
	if m.needsCuisine {
		if a.Cuisine == "" {
			return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, a.Key, ErrMsgMissingCuisine)
		}
		if !knownCuisine[a.Cuisine] {
			return fmt.Errorf("%w: %s: %s %q", domain.ErrInvalidInput, a.Key, ErrMsgUnknownCuisine, a.Cuisine)
		}
	}
	return nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// LoadDefault loads the embedded catalog once per process
func LoadDefault() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(DataFS())
		if defaultErr == nil {
			slog.Default().Debug(LogMsgCatalogLoaded,
				"version", defaultCatalog.version,
				"achievements", len(defaultCatalog.entries),
				"cuisines", len(defaultCatalog.cuisines))
		}
	})
	return defaultCatalog, defaultErr
}

// MustDefault returns the embedded catalog and panics if it is invalid.
// Use at start-up only.
func MustDefault() *Catalog {
	c, err := LoadDefault()
	if err != nil {
		panic(fmt.Sprintf("achievement catalog: %v", err))
	}
	return c
}

// Version returns the catalog data version
func (c *Catalog) Version() string {
	return c.version
}

// Lookup returns the entry for key or domain.ErrUnknownAchievement
func (c *Catalog) Lookup(key string) (*Achievement, error) {
	a, ok := c.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownAchievement, key)
	}
	return a, nil
}

// All returns every entry in catalog order. The slice is a copy; entries are shared and read-only.
func (c *Catalog) All() []*Achievement {
	out := make([]*Achievement, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// MealXP returns the base XP for completing a meal in the given role
func (c *Catalog) MealXP(isHost bool) int64 {
	if isHost {
		return c.rewards.Host
	}
	return c.rewards.Guest
}

// MealRewards returns the base meal rates
func (c *Catalog) MealRewards() MealRewards {
	return c.rewards
}

// Cuisines returns the keyword table in match order
func (c *Catalog) Cuisines() []Cuisine {
	out := make([]Cuisine, len(c.cuisines))
	copy(out, c.cuisines)
	return out
}

// DetectCuisine returns the first cuisine whose keywords appear in the texts, or "" when none match
func (c *Catalog) DetectCuisine(texts ...string) string {
	return c.matcher.Detect(texts...)
}
