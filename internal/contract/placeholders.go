package contract

import (
	"maps"

	"github.com/huangsam/finscore/schema"
)

// Placeholders holds the seeded scores of the dimensions that are not computed
// from statements (ai_digital, esg, innovation).
type Placeholders struct {
	Default   map[schema.DimensionKey]float64
	Companies map[string]map[schema.DimensionKey]float64
}

// For returns the seeded scores of one company: stock defaults, then configured
// defaults, then the company's own overrides.
func (p Placeholders) For(taxID string) map[schema.DimensionKey]float64 {
	out := schema.GetDefaultPlaceholderScores()
	maps.Copy(out, p.Default)
	maps.Copy(out, p.Companies[taxID])
	return out
}

// Clone returns a deep copy.
func (p Placeholders) Clone() Placeholders {
	out := Placeholders{Default: maps.Clone(p.Default)}
	if p.Companies != nil {
		out.Companies = make(map[string]map[schema.DimensionKey]float64, len(p.Companies))
		for k, v := range p.Companies {
			out.Companies[k] = maps.Clone(v)
		}
	}
	return out
}
