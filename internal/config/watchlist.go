package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Watchlist is the on-disk form of WATCHLIST_FILE:
//
//	cron: "0 22 * * 1-5"
//	symbols:
//	  - AAPL
//	  - MSFT
type Watchlist struct {
	Cron    string   `yaml:"cron"`
	Symbols []string `yaml:"symbols"`
}

var readFile = os.ReadFile

// LoadWatchlist parses a watchlist file. Symbols are normalized the same way
// as the WATCHLIST variable.
func LoadWatchlist(path string) (*Watchlist, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("parse watchlist %s: %w", path, err)
	}
	wl.Symbols = normalizeAll(wl.Symbols)
	return &wl, nil
}

// ResolveWatchlist merges WATCHLIST_FILE into the config. File symbols are
// appended after WATCHLIST entries; a cron in the file wins over the default
// but not over an explicit WATCHLIST_CRON.
func (c *Config) ResolveWatchlist() error {
	if c.WatchlistFile == "" {
		return nil
	}
	wl, err := LoadWatchlist(c.WatchlistFile)
	if err != nil {
		return err
	}
	c.Watchlist = normalizeAll(append(append([]string(nil), c.Watchlist...), wl.Symbols...))
	if wl.Cron != "" && c.WatchlistCron == DefaultWatchlistCron {
		c.WatchlistCron = wl.Cron
	}
	return nil
}

func normalizeAll(symbols []string) []string {
	return ParseSymbols(strings.Join(symbols, ","))
}
