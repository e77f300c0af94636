/*
Package settings loads the operator-maintained configuration the engine
reads: the hourly rate bands and the conversion matrix.

PURPOSE:
  Settings are owned externally; the engine never edits them. They are
  layered from a YAML file and PROAGO_-prefixed environment variables via
  koanf, and are hot-reloadable: every Source.Load() re-reads the file, so
  a rate change lands on the next computation without a restart. No caching
  is promised or wanted.

FILE SHAPE (YAML):
  rate_bands:
    - start: "2025-01-01"
      rate: 15.0
    - start: "2025-06-01"
      rate: 17.0
  conversion:
    D2D:
      no:  { box2: 30, box4: 15 }
      yes: { box2: 25, box4: 12 }
    EVENT:
      no:  { box2: 20, box4: 10 }
      yes: { box2: 16, box4: 8 }

SEE ALSO:
  - pay/rates.go: consumes the bands
  - api/handlers.go: exposes reload and read endpoints
*/
package settings

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/pay"
)

// ConversionCell is one leaf of the conversion matrix. The engine only
// looks these values up for ledger consumers; it never computes with them.
type ConversionCell struct {
	Box2 float64 `koanf:"box2" json:"box2"`
	Box4 float64 `koanf:"box4" json:"box4"`
}

// ConversionMatrix maps shiftType -> discount flag ("no"/"yes") -> cell.
type ConversionMatrix map[string]map[string]ConversionCell

// rateBand is the file-side shape; it converts to pay.RateBand on load.
type rateBand struct {
	Start string  `koanf:"start" json:"start"`
	Rate  float64 `koanf:"rate" json:"rate"`
}

// Values is one loaded settings snapshot.
type Values struct {
	RateBands  []pay.RateBand
	Conversion ConversionMatrix
}

type fileShape struct {
	RateBands  []rateBand       `koanf:"rate_bands"`
	Conversion ConversionMatrix `koanf:"conversion"`
}

// Source re-reads settings on demand.
type Source struct {
	mu   sync.RWMutex
	path string
	cur  Values
}

// NewSource creates a source over a settings file path and performs the
// first load. A missing path yields empty settings rather than an error,
// so a fresh install starts without a config file.
func NewSource(path string) (*Source, error) {
	s := &Source{path: path}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load re-reads the file and environment. Precedence (low -> high):
// file, then env (PROAGO_ prefix, e.g. PROAGO_RATE_BANDS is not practical
// for lists, but scalar overrides work).
func (s *Source) Load() error {
	k := koanf.New(".")

	if s.path != "" {
		if _, err := os.Stat(s.path); err == nil {
			if err := k.Load(file.Provider(s.path), yaml.Parser()); err != nil {
				return fmt.Errorf("load settings file: %w", err)
			}
		}
	}

	envProvider := env.Provider("PROAGO_", ".", func(key string) string {
		key = strings.ToLower(key)
		return strings.TrimPrefix(key, "proago_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return fmt.Errorf("load settings env: %w", err)
	}

	var raw fileShape
	if err := k.UnmarshalWithConf("", &raw, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}

	vals := Values{Conversion: raw.Conversion}
	for _, b := range raw.RateBands {
		vals.RateBands = append(vals.RateBands, pay.RateBand{
			StartISO: b.Start,
			Rate:     decimal.NewFromFloat(b.Rate),
		})
	}

	s.mu.Lock()
	s.cur = vals
	s.mu.Unlock()
	return nil
}

// Current returns the last loaded snapshot.
func (s *Source) Current() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Values{
		RateBands:  append([]pay.RateBand(nil), s.cur.RateBands...),
		Conversion: s.cur.Conversion,
	}
	return out
}
