package wall

import (
	"sort"
	"strings"

	errs "github.com/matzehuels/wallplan/pkg/errors"
)

// ReceivingCard selects which per-port pixel budget applies.
type ReceivingCard string

// Receiving card types.
const (
	CardA8s  ReceivingCard = "A8s"
	CardA10s ReceivingCard = "A10s"
)

// DefaultCard is the receiving card assumed when none is configured.
const DefaultCard = CardA8s

// ParseReceivingCard parses a receiving card name, case-insensitively.
func ParseReceivingCard(s string) (ReceivingCard, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a8s":
		return CardA8s, nil
	case "a10s":
		return CardA10s, nil
	}
	return "", errs.New(errs.ErrCodeInvalidOptions, "invalid receiving card: %q (must be one of: A8s, A10s)", s)
}

// ProcessorModel describes a video processor's output capacity.
type ProcessorModel struct {
	ID               string                `json:"id" bson:"id"`
	Name             string                `json:"name,omitempty" bson:"name,omitempty"`
	Ports            int                   `json:"ports" bson:"ports"`
	MaxPixelsPerPort map[ReceivingCard]int `json:"max_pixels_per_port" bson:"max_pixels_per_port"`
}

// PortBudget returns the per-port pixel budget for card.
func (p ProcessorModel) PortBudget(card ReceivingCard) (int, bool) {
	n, ok := p.MaxPixelsPerPort[card]
	return n, ok
}

// Validate rejects processors the data planner cannot work with.
func (p ProcessorModel) Validate() error {
	if err := errs.ValidateID("processor", p.ID); err != nil {
		return err
	}
	if err := errs.ValidateAtLeast(errs.ErrCodeInvalidProcessor, "ports", p.Ports, 1); err != nil {
		return err
	}
	if len(p.MaxPixelsPerPort) == 0 {
		return errs.New(errs.ErrCodeInvalidProcessor, "processor %s has no per-port pixel budget", p.ID)
	}
	for card, n := range p.MaxPixelsPerPort {
		if n <= 0 {
			return errs.New(errs.ErrCodeInvalidProcessor, "processor %s: %s budget must be positive", p.ID, card)
		}
	}
	return nil
}

// Catalog is the set of cabinet variants and processors available to a project.
type Catalog struct {
	Variants   map[string]CabinetVariant `json:"variants" bson:"variants"`
	Processors map[string]ProcessorModel `json:"processors" bson:"processors"`
}

// NewCatalog builds a catalog from slices, keyed by id.
func NewCatalog(variants []CabinetVariant, processors []ProcessorModel) Catalog {
	c := Catalog{
		Variants:   make(map[string]CabinetVariant, len(variants)),
		Processors: make(map[string]ProcessorModel, len(processors)),
	}
	for _, v := range variants {
		c.Variants[v.ID] = v
	}
	for _, p := range processors {
		c.Processors[p.ID] = p
	}
	return c
}

// Variant looks up a cabinet variant by id.
func (c Catalog) Variant(id string) (CabinetVariant, error) {
	v, ok := c.Variants[id]
	if !ok {
		return CabinetVariant{}, errs.New(errs.ErrCodeUnknownVariant, "unknown cabinet variant: %q", id)
	}
	return v, nil
}

// Processor looks up a processor model by id.
func (c Catalog) Processor(id string) (ProcessorModel, error) {
	p, ok := c.Processors[id]
	if !ok {
		return ProcessorModel{}, errs.New(errs.ErrCodeUnknownProcessor, "unknown processor: %q", id)
	}
	return p, nil
}

// VariantIDs returns variant ids in sorted order.
func (c Catalog) VariantIDs() []string {
	ids := make([]string, 0, len(c.Variants))
	for id := range c.Variants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ProcessorIDs returns processor ids in sorted order.
func (c Catalog) ProcessorIDs() []string {
	ids := make([]string, 0, len(c.Processors))
	for id := range c.Processors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks every catalog entry, in id order.
func (c Catalog) Validate() error {
	for _, id := range c.VariantIDs() {
		if err := c.Variants[id].Validate(); err != nil {
			return err
		}
	}
	for _, id := range c.ProcessorIDs() {
		if err := c.Processors[id].Validate(); err != nil {
			return err
		}
	}
	return nil
}
