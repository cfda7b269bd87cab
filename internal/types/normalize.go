package types

import "strings"

var exactWaterTypes = map[string]WaterType{
	"pond":         WaterTypePond,
	"private_pond": WaterTypePrivatePond,
	"trout_pond":   WaterTypeTroutPond,
	"carp_pond":    WaterTypeCarpPond,
	"lake":         WaterTypeLake,
	"river":        WaterTypeRiver,
	"canal":        WaterTypeCanal,
	"stream":       WaterTypeStream,
	"reservoir":    WaterTypeReservoir,
}

// waterTypeRules are matched against the lower-cased input. German
// compounds name the kind of water last, so the match ending furthest right
// wins ("Nord-Ostsee-Kanal" is a canal, "Seebach" a stream). On equal end
// positions the earlier rule wins, so more specific substrings must come
// before the generic ones they contain ("forellensee" before "see").
var waterTypeRules = []struct {
	substr string
	typ    WaterType
}{
	{"karpfenteich", WaterTypeCarpPond},
	{"forellenteich", WaterTypeTroutPond},
	{"forellensee", WaterTypeTroutPond},
	{"privatteich", WaterTypePrivatePond},
	{"angelteich", WaterTypePond},
	{"fischteich", WaterTypePond},
	{"teich", WaterTypePond},
	{"weiher", WaterTypePond},
	{"talsperre", WaterTypeReservoir},
	{"stausee", WaterTypeReservoir},
	{"baggersee", WaterTypeLake},
	{"see", WaterTypeLake},
	{"fluss", WaterTypeRiver},
	{"strom", WaterTypeRiver},
	{"kanal", WaterTypeCanal},
	{"bach", WaterTypeStream},
	{"graben", WaterTypeStream},
}

// ParseWaterType normalizes free-text water type labels, German or English,
// into a WaterType. Unrecognized input yields WaterTypeUnknown.
func ParseWaterType(raw string) WaterType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return WaterTypeUnknown
	}
	if t, ok := exactWaterTypes[s]; ok {
		return t
	}
	best, bestEnd := WaterTypeUnknown, -1
	for _, rule := range waterTypeRules {
		i := strings.LastIndex(s, rule.substr)
		if i < 0 {
			continue
		}
		if end := i + len(rule.substr); end > bestEnd {
			best, bestEnd = rule.typ, end
		}
	}
	return best
}

var exactSpecies = map[string]Species{
	"trout":    SpeciesTrout,
	"grayling": SpeciesGrayling,
	"char":     SpeciesChar,
	"pike":     SpeciesPike,
	"zander":   SpeciesZander,
	"perch":    SpeciesPerch,
	"carp":     SpeciesCarp,
	"tench":    SpeciesTench,
	"catfish":  SpeciesCatfish,
	"eel":      SpeciesEel,
	"forelle":  SpeciesTrout,
	"äsche":    SpeciesGrayling,
	"aesche":   SpeciesGrayling,
	"saibling": SpeciesChar,
	"hecht":    SpeciesPike,
	"barsch":   SpeciesPerch,
	"karpfen":  SpeciesCarp,
	"schleie":  SpeciesTench,
	"wels":     SpeciesCatfish,
	"waller":   SpeciesCatfish,
	"aal":      SpeciesEel,
}

// compound German names (Bachforelle, Flussbarsch, Spiegelkarpfen) end in the base name.
var speciesSuffixes = []struct {
	suffix  string
	species Species
}{
	{"forelle", SpeciesTrout},
	{"saibling", SpeciesChar},
	{"barsch", SpeciesPerch},
	{"karpfen", SpeciesCarp},
	{"wels", SpeciesCatfish},
}

// ParseSpecies normalizes a species name. The second return value is false
// when the name is not recognized.
func ParseSpecies(raw string) (Species, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return SpeciesUnknown, false
	}
	if sp, ok := exactSpecies[s]; ok {
		return sp, true
	}
	for _, rule := range speciesSuffixes {
		if strings.HasSuffix(s, rule.suffix) {
			return rule.species, true
		}
	}
	return SpeciesUnknown, false
}

// ParseSpeciesList normalizes names, dropping duplicates. Unrecognized names
// are returned separately so they can be kept as raw text.
func ParseSpeciesList(raw []string) (known []Species, unknown []string) {
	seen := make(map[Species]bool, len(raw))
	for _, name := range raw {
		sp, ok := ParseSpecies(name)
		if !ok {
			if strings.TrimSpace(name) != "" {
				unknown = append(unknown, name)
			}
			continue
		}
		if seen[sp] {
			continue
		}
		seen[sp] = true
		known = append(known, sp)
	}
	return known, unknown
}
