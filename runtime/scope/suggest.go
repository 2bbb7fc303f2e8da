package scope

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest ranks the given variables against the prefix the user has typed so
// far. An empty prefix returns the input unchanged; otherwise fuzzy matches
// are returned best-first, non-matches dropped. The sigil (& or %) is
// ignored when matching so typing "tot" still finds "&total".
func Suggest(prefix string, vars []VariableInfo) []VariableInfo {
	if prefix == "" {
		return vars
	}
	prefix = strings.TrimLeft(prefix, "&%")

	names := make([]string, len(vars))
	byName := make(map[string][]VariableInfo, len(vars))
	for i, v := range vars {
		bare := strings.TrimLeft(v.Name, "&%")
		names[i] = bare
		byName[strings.ToLower(bare)] = append(byName[strings.ToLower(bare)], v)
	}

	ranks := fuzzy.RankFindFold(prefix, names)
	sort.Sort(ranks)

	var out []VariableInfo
	seen := make(map[string]bool)
	for _, r := range ranks {
		key := strings.ToLower(r.Target)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, byName[key]...)
	}
	return out
}
