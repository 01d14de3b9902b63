package enums

import "fmt"

// ShopType is the trade direction of a shop. The numeric code is what the
// shop data table stores; log tables store the name.
type ShopType int

const (
	ShopTypeSelling ShopType = iota
	ShopTypeBuying
	ShopTypeFrozen
)

var shopTypeNames = map[ShopType]string{
	ShopTypeSelling: "SELLING",
	ShopTypeBuying:  "BUYING",
	ShopTypeFrozen:  "FROZEN",
}

// String implements fmt.Stringer.
func (t ShopType) String() string {
	if name, ok := shopTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// IsValid reports whether the value is a recognized shop type.
func (t ShopType) IsValid() bool {
	_, ok := shopTypeNames[t]
	return ok
}

// ParseShopType converts a stored name back into a ShopType.
func ParseShopType(value string) (ShopType, error) {
	for candidate, name := range shopTypeNames {
		if name == value {
			return candidate, nil
		}
	}
	return 0, fmt.Errorf("invalid shop type %q", value)
}
