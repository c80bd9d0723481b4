// Package timezone resolves the configured IANA zone used for server-side
// timestamps such as accepted_at and last_login.
package timezone

import (
	"fmt"
	"sync"
	"time"
)

var cache sync.Map // name -> *time.Location

// Load resolves an IANA zone name. An empty name is an error rather than UTC
// so a blank TIMEZONE is caught at startup.
func Load(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone name is empty")
	}
	if loc, ok := cache.Load(name); ok {
		return loc.(*time.Location), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	cache.Store(name, loc)
	return loc, nil
}

// NowIn returns the current time in zone name. Config validation rejects
// unknown zones, so the UTC fallback only covers hand-built configs.
func NowIn(name string) time.Time {
	loc, err := Load(name)
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
