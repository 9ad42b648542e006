// Package flagscan parses user-submitted flag text and classifies the
// resulting entries against the configured denylists.
package flagscan

import (
	"strings"

	"github.com/spf13/viper"
)

// Scanner holds the immutable scanning configuration loaded at startup.
type Scanner struct {
	primary       []string
	strict        []string
	maxLineBytes  int
	maxSerialized int
}

// Options configures a Scanner.
type Options struct {
	Primary       []string // primary denylist, matched first
	Strict        []string // stricter second pass over primary survivors
	MaxLineBytes  int      // longest line the fallback parser will consider
	MaxSerialized int      // serialized report size cap, in bytes
}

// NewScanner creates a Scanner. Denylist terms are lowercased once here so
// classification only lowercases the keys.
func NewScanner(opts Options) *Scanner {
	sc := &Scanner{
		primary:       make([]string, 0, len(opts.Primary)),
		strict:        make([]string, 0, len(opts.Strict)),
		maxLineBytes:  opts.MaxLineBytes,
		maxSerialized: opts.MaxSerialized,
	}
	for _, term := range opts.Primary {
		sc.primary = append(sc.primary, strings.ToLower(term))
	}
	for _, term := range opts.Strict {
		sc.strict = append(sc.strict, strings.ToLower(term))
	}
	return sc
}

// NewFromConfig builds a Scanner from the loaded viper configuration.
func NewFromConfig() *Scanner {
	return NewScanner(Options{
		Primary:       viper.GetStringSlice("denylist.primary"),
		Strict:        viper.GetStringSlice("denylist.strict"),
		MaxLineBytes:  viper.GetInt("limits.maxLineBytes"),
		MaxSerialized: viper.GetInt("limits.maxSerializedChars"),
	})
}
