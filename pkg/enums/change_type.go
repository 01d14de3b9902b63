package enums

import "fmt"

// ChangeType classifies a shop mutation recorded in the change-history log.
type ChangeType string

const (
	ChangeTypeCreated           ChangeType = "CREATED"
	ChangeTypeRemoved           ChangeType = "REMOVED"
	ChangeTypeNameChanged       ChangeType = "NAME_CHANGED"
	ChangeTypePriceChanged      ChangeType = "PRICE_CHANGED"
	ChangeTypeOwnerChanged      ChangeType = "OWNER_CHANGED"
	ChangeTypeTypeChanged       ChangeType = "TYPE_CHANGED"
	ChangeTypeCurrencyChanged   ChangeType = "CURRENCY_CHANGED"
	ChangeTypePermissionChanged ChangeType = "PERMISSION_CHANGED"
)

var validChangeTypes = []ChangeType{
	ChangeTypeCreated,
	ChangeTypeRemoved,
	ChangeTypeNameChanged,
	ChangeTypePriceChanged,
	ChangeTypeOwnerChanged,
	ChangeTypeTypeChanged,
	ChangeTypeCurrencyChanged,
	ChangeTypePermissionChanged,
}

// IsValid reports whether the value matches a known change type.
func (t ChangeType) IsValid() bool {
	for _, candidate := range validChangeTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseChangeType converts raw input into a ChangeType.
func ParseChangeType(value string) (ChangeType, error) {
	for _, candidate := range validChangeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid change type %q", value)
}
