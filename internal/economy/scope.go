package economy

// Scope pins a balance to a world and currency. An empty Currency means the
// world's default currency. Balances never move across scopes.
type Scope struct {
	World    string
	Currency string
}

// CurrencyOrNil returns the currency as a nullable column value.
func (s Scope) CurrencyOrNil() *string {
	if s.Currency == "" {
		return nil
	}
	currency := s.Currency
	return &currency
}

// String renders the scope for logs.
func (s Scope) String() string {
	if s.Currency == "" {
		return s.World
	}
	return s.World + "/" + s.Currency
}
