package enums

import "fmt"

// LogKind names one of the append-only audit log tables.
type LogKind string

const (
	LogKindPurchase    LogKind = "purchase"
	LogKindTransaction LogKind = "transaction"
	LogKindChanges     LogKind = "changes"
	LogKindOthers      LogKind = "others"
)

var validLogKinds = []LogKind{
	LogKindPurchase,
	LogKindTransaction,
	LogKindChanges,
	LogKindOthers,
}

// String implements fmt.Stringer.
func (k LogKind) String() string {
	return string(k)
}

// IsValid reports whether the kind names a known log table.
func (k LogKind) IsValid() bool {
	for _, candidate := range validLogKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseLogKind converts raw input into a LogKind.
func ParseLogKind(value string) (LogKind, error) {
	for _, candidate := range validLogKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid log kind %q", value)
}
