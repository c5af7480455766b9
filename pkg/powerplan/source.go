package powerplan

import (
	"sort"
	"strconv"
	"strings"

	errs "github.com/matzehuels/wallplan/pkg/errors"
	"github.com/matzehuels/wallplan/pkg/wall"
)

// SourceType names a power distribution connector.
type SourceType string

// Supported source types.
const (
	SourceEdison20A SourceType = "EDISON_20A"
	SourceSocapex   SourceType = "SOCAPEX"
	SourceL2130     SourceType = "L21-30"
)

// DefaultSource is used when a wall names no source.
const DefaultSource = SourceSocapex

// DeratingFactor is the share of breaker rating usable for continuous load.
const DeratingFactor = 0.8

// SourceSpec is the fixed electrical layout of one source type.
type SourceSpec struct {
	Type        SourceType `json:"type"`
	Circuits    int        `json:"circuits"`
	BreakerAmps float64    `json:"breaker_amps"`
	Phases      []string   `json:"phases"`
}

// DeratedAmps returns the continuous-load ceiling per circuit.
func (s SourceSpec) DeratedAmps() float64 { return s.BreakerAmps * DeratingFactor }

// Phase returns the phase label of the k-th circuit (0-based). Labels
// repeat across feeds.
func (s SourceSpec) Phase(k int) string {
	if len(s.Phases) == 0 {
		return ""
	}
	return s.Phases[k%len(s.Phases)]
}

var sources = map[SourceType]SourceSpec{
	SourceEdison20A: {Type: SourceEdison20A, Circuits: 1, BreakerAmps: 20, Phases: []string{"A"}},
	SourceSocapex:   {Type: SourceSocapex, Circuits: 6, BreakerAmps: 20, Phases: []string{"A", "B", "C", "A", "B", "C"}},
	SourceL2130:     {Type: SourceL2130, Circuits: 3, BreakerAmps: 30, Phases: []string{"A", "B", "C"}},
}

var sourceAliases = map[string]SourceType{
	"20A":        SourceEdison20A,
	"EDISON":     SourceEdison20A,
	"EDISON_20A": SourceEdison20A,
	"EDISON-20A": SourceEdison20A,
	"SOCAPEX":    SourceSocapex,
	"SOCA":       SourceSocapex,
	"L21-30":     SourceL2130,
	"L21_30":     SourceL2130,
	"L2130":      SourceL2130,
	"L21":        SourceL2130,
}

// LookupSource resolves a source type or alias, case-insensitively.
// The empty string selects DefaultSource.
func LookupSource(name string) (SourceSpec, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	if key == "" {
		key = string(DefaultSource)
	}
	t, ok := sourceAliases[key]
	if !ok {
		return SourceSpec{}, errs.New(errs.ErrCodeUnknownSource, "unknown power source: %q (must be one of: %s)", name, strings.Join(SourceNames(), ", "))
	}
	spec := sources[t]
	spec.Phases = append([]string(nil), spec.Phases...)
	return spec, nil
}

// NormalizeCircuitKey rewrites a recommended-per-circuit key such as
// "20A@120" into its canonical form "EDISON_20A@120". The source part may be
// any alias LookupSource accepts.
func NormalizeCircuitKey(key string) (string, error) {
	i := strings.LastIndex(key, "@")
	if i < 0 {
		return "", errs.New(errs.ErrCodeInvalidVariant, "circuit key %q: want SOURCE@VOLTS", key)
	}
	volts, err := strconv.Atoi(strings.TrimSpace(key[i+1:]))
	if err != nil || volts <= 0 {
		return "", errs.New(errs.ErrCodeInvalidVariant, "circuit key %q: invalid voltage %q", key, key[i+1:])
	}
	if strings.TrimSpace(key[:i]) == "" {
		return "", errs.New(errs.ErrCodeInvalidVariant, "circuit key %q: missing source", key)
	}
	spec, err := LookupSource(key[:i])
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidVariant, err, "circuit key %q", key)
	}
	return wall.CircuitKey(string(spec.Type), wall.Voltage(volts)), nil
}

// SourceNames returns the canonical source type names, sorted.
func SourceNames() []string {
	names := make([]string, 0, len(sources))
	for t := range sources {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}
