package wealthlens

import "errors"

// Selection narrows an analysis to a subset of symbols. The zero value
// selects everything, same as SelectAll; an explicit subset can only be
// built through SelectSymbols.
type Selection struct {
	all     bool
	symbols map[string]struct{}
}

// isAll treats both the SelectAll constructor and the zero value as
// the whole-ledger selection, so every entry point agrees on Selection{}.
func (s Selection) isAll() bool {
	return s.all || len(s.symbols) == 0
}

// SelectAll selects every symbol in the ledger.
func SelectAll() Selection {
	return Selection{all: true}
}

// SelectSymbols selects an explicit non-empty set of symbols. The
// sentinel "ALL" anywhere in the list means select everything, matching
// the wire format used by clients.
func SelectSymbols(symbols ...string) (Selection, error) {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		normalized := normalizeSymbol(s)
		if normalized == "" {
			continue
		}
		if normalized == "ALL" {
			return SelectAll(), nil
		}
		set[normalized] = struct{}{}
	}
	if len(set) == 0 {
		return Selection{}, errors.New("selection requires at least one symbol")
	}
	return Selection{symbols: set}, nil
}

// All reports whether the selection covers every symbol.
func (s Selection) All() bool {
	return s.isAll()
}

// Contains reports whether a symbol is part of the selection.
func (s Selection) Contains(symbol string) bool {
	if s.isAll() {
		return true
	}
	_, ok := s.symbols[normalizeSymbol(symbol)]
	return ok
}

// filterTransactions returns transactions whose symbol is selected,
// preserving log order.
func (s Selection) filterTransactions(txs []Transaction) []Transaction {
	if s.isAll() {
		return txs
	}
	var filtered []Transaction
	for _, tx := range txs {
		if s.Contains(tx.Symbol) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// filterHoldings returns holdings whose symbol is selected.
func (s Selection) filterHoldings(holdings []Holding) []Holding {
	if s.isAll() {
		return holdings
	}
	var filtered []Holding
	for _, h := range holdings {
		if s.Contains(h.Symbol) {
			filtered = append(filtered, h)
		}
	}
	return filtered
}
