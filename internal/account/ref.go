package account

import "github.com/google/uuid"

// Handle is an opaque player handle supplied by the host. It carries the
// stable id the ledger keys balances on.
type Handle interface {
	UniqueID() uuid.UUID
}

// RefKind tags the shape of an account reference.
type RefKind int

const (
	RefKindUnknown RefKind = iota
	RefKindUUID
	RefKindName
	RefKindHandle
)

// String returns the reference kind name.
func (k RefKind) String() string {
	switch k {
	case RefKindUUID:
		return "uuid"
	case RefKindName:
		return "name"
	case RefKindHandle:
		return "handle"
	default:
		return "unknown"
	}
}

// Ref is a tagged account reference. Callers build one through the
// constructors below; the zero value is invalid and rejected at resolution.
type Ref struct {
	kind   RefKind
	id     uuid.UUID
	name   string
	handle Handle
}

// RefFromUUID references an account by its canonical id.
func RefFromUUID(id uuid.UUID) Ref {
	return Ref{kind: RefKindUUID, id: id}
}

// RefFromName references an account by display name.
func RefFromName(name string) Ref {
	return Ref{kind: RefKindName, name: name}
}

// RefFromHandle references an account through an opaque host handle.
func RefFromHandle(h Handle) Ref {
	return Ref{kind: RefKindHandle, handle: h}
}

// Kind returns the tag of the reference.
func (r Ref) Kind() RefKind {
	return r.kind
}

// UUID returns the referenced id. Only meaningful for RefKindUUID.
func (r Ref) UUID() uuid.UUID {
	return r.id
}

// Name returns the referenced display name. Only meaningful for RefKindName.
func (r Ref) Name() string {
	return r.name
}
