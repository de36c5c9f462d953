package bleve

import (
	"strings"

	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/pedalfleet/searchd/internal/domain"
	"github.com/pedalfleet/searchd/internal/index"
)

// Tier weights. Prefix relevance dominates the common "start typing a
// name" case; fuzzy is last so typo tolerance never outranks a clean match.
const (
	prefixTierBoost   = 3.0
	matchTierBoost    = 2.0
	wildcardTierBoost = 1.5
	fuzzyTierBoost    = 1.0

	suggestPrefixBoost   = 4.0
	suggestWildcardBoost = 1.0

	// searchText participates only in the match tier, at low weight.
	searchTextWeight = 0.5
	// Wildcard sub-boosts trail the prefix tier's per-field weights.
	wildcardFieldScale = 0.5
)

// buildQuery assembles the composite query for one kind: the tiered
// ranking disjunction AND-ed with the mandatory tenant filter. The filter
// is a hard security boundary, not a ranking signal: an out-of-tenant
// document can never surface regardless of text score.
func buildQuery(cfg domain.KindConfig, q *index.Query) query.Query {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(q.Text)))
	if len(tokens) == 0 {
		return query.NewMatchNoneQuery()
	}

	var rank query.Query
	if q.Variant == index.Suggest {
		rank = suggestClauses(cfg, q.Text, tokens)
	} else {
		rank = rankedClauses(cfg, q.Text, tokens)
	}

	filter := tenantFilter(cfg, q.Scope)
	if filter == nil {
		return rank
	}
	return query.NewConjunctionQuery([]query.Query{rank, filter})
}

// rankedClauses builds the four-tier relevance query: phrase-prefix,
// best-fields match, infix wildcard, and fuzzy fallback, OR-ed with a
// floor of one matching clause.
func rankedClauses(cfg domain.KindConfig, text string, tokens []string) query.Query {
	var clauses []query.Query

	for field, weight := range cfg.FieldWeights {
		clauses = append(clauses,
			prefixClause(field, tokens, prefixTierBoost*weight),
			matchClause(field, text, matchTierBoost*weight, 0),
			wildcardClause(field, tokens, wildcardTierBoost*weight*wildcardFieldScale),
		)
	}
	clauses = append(clauses,
		matchClause(index.FieldSearchText, text, matchTierBoost*searchTextWeight, 0))

	if fuzz := fuzziness(tokens); fuzz > 0 {
		for field := range cfg.FieldWeights {
			clauses = append(clauses, matchClause(field, text, fuzzyTierBoost, fuzz))
		}
	}

	dq := query.NewDisjunctionQuery(clauses)
	dq.SetMin(1)
	return dq
}

// suggestClauses builds the autocomplete query: prefix-dominant, wildcard
// fallback, no fuzzy tier.
func suggestClauses(cfg domain.KindConfig, _ string, tokens []string) query.Query {
	var clauses []query.Query
	for field, weight := range cfg.FieldWeights {
		clauses = append(clauses,
			prefixClause(field, tokens, suggestPrefixBoost*weight),
			wildcardClause(field, tokens, suggestWildcardBoost*weight*wildcardFieldScale),
		)
	}
	dq := query.NewDisjunctionQuery(clauses)
	dq.SetMin(1)
	return dq
}

// prefixClause matches documents whose field starts with the query: every
// token but the last must be a full term, the last is a prefix.
func prefixClause(field string, tokens []string, boost float64) query.Query {
	pq := query.NewPrefixQuery(tokens[len(tokens)-1])
	pq.SetField(field)
	if len(tokens) == 1 {
		pq.SetBoost(boost)
		return pq
	}

	clauses := make([]query.Query, 0, len(tokens))
	for _, tok := range tokens[:len(tokens)-1] {
		tq := query.NewTermQuery(tok)
		tq.SetField(field)
		clauses = append(clauses, tq)
	}
	clauses = append(clauses, pq)

	cq := query.NewConjunctionQuery(clauses)
	cq.SetBoost(boost)
	return cq
}

func matchClause(field, text string, boost float64, fuzz int) query.Query {
	mq := query.NewMatchQuery(text)
	mq.SetField(field)
	mq.SetBoost(boost)
	if fuzz > 0 {
		mq.SetFuzziness(fuzz)
	}
	return mq
}

// wildcardClause catches matches in the middle of a token, e.g. a surname
// fragment.
func wildcardClause(field string, tokens []string, boost float64) query.Query {
	clauses := make([]query.Query, 0, len(tokens))
	for _, tok := range tokens {
		wq := query.NewWildcardQuery("*" + tok + "*")
		wq.SetField(field)
		clauses = append(clauses, wq)
	}
	if len(clauses) == 1 {
		clauses[0].(*query.WildcardQuery).SetBoost(boost)
		return clauses[0]
	}
	dq := query.NewDisjunctionQuery(clauses)
	dq.SetMin(1)
	dq.SetBoost(boost)
	return dq
}

// fuzziness scales edit distance by term length: terms shorter than three
// runes get no typo tolerance, everything else gets one edit.
func fuzziness(tokens []string) int {
	longest := 0
	for _, tok := range tokens {
		if n := len([]rune(tok)); n > longest {
			longest = n
		}
	}
	if longest < 3 {
		return 0
	}
	return 1
}

// tenantFilter builds the mandatory tenant clause: a terms filter on the
// set-valued field for multi-tenant kinds, an equality filter otherwise.
// Returns nil for an unrestricted scope.
func tenantFilter(cfg domain.KindConfig, scope domain.TenantScope) query.Query {
	if scope.Unrestricted() {
		return nil
	}

	field := index.FieldCompanyID
	if cfg.TenantField == domain.TenantMulti {
		field = index.FieldCompanyIDs
	}

	allowed := scope.Allowed()
	if len(allowed) == 0 {
		return query.NewMatchNoneQuery()
	}
	clauses := make([]query.Query, 0, len(allowed))
	for _, id := range allowed {
		tq := query.NewTermQuery(id)
		tq.SetField(field)
		clauses = append(clauses, tq)
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	dq := query.NewDisjunctionQuery(clauses)
	dq.SetMin(1)
	return dq
}
