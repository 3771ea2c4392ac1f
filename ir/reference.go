package ir

import "fmt"

// ReferenceKind distinguishes the two shapes a Reference can take.
type ReferenceKind int

const (
	// BuiltinKind names a runtime-provided primitive by name, not hash.
	BuiltinKind ReferenceKind = iota
	// DerivedKind names a user-defined term or constructor by content hash.
	DerivedKind
)

// Reference names either a builtin primitive or a user-defined term or
// data constructor addressed by content hash. Constructors carry a
// ctorIndex (which alternative of the sum type) and an arityTag (how
// many fields that alternative expects); plain term references use 0
// for both, matching the "not a constructor" convention.
type Reference struct {
	kind      ReferenceKind
	name      string
	hash      Hash
	ctorIndex int
	arityTag  int
}

// BuiltinRef names a runtime primitive by a fixed name (e.g. "Nat.+").
func BuiltinRef(name string) Reference {
	return Reference{kind: BuiltinKind, name: name}
}

// DerivedRef names a user-defined term by hash. ctorIndex and arityTag
// are meaningful only when the reference denotes a data constructor;
// pass 0 for both for an ordinary term reference.
func DerivedRef(h Hash, ctorIndex, arityTag int) Reference {
	return Reference{kind: DerivedKind, hash: h, ctorIndex: ctorIndex, arityTag: arityTag}
}

// Kind reports whether the reference is a builtin or a derived (hash-addressed) one.
func (r Reference) Kind() ReferenceKind { return r.kind }

// Name returns the builtin name. Valid only when Kind() == BuiltinKind.
func (r Reference) Name() string { return r.name }

// Hash returns the content hash. Valid only when Kind() == DerivedKind.
func (r Reference) Hash() Hash { return r.hash }

// CtorIndex returns which alternative of a sum type this reference
// names, when it denotes a data constructor.
func (r Reference) CtorIndex() int { return r.ctorIndex }

// ArityTag returns the declared field count for the constructor this
// reference names.
func (r Reference) ArityTag() int { return r.arityTag }

// Equal reports whether two references name the same builtin or the
// same (hash, ctorIndex, arityTag) triple.
func (r Reference) Equal(other Reference) bool {
	if r.kind != other.kind {
		return false
	}
	if r.kind == BuiltinKind {
		return r.name == other.name
	}
	return r.hash == other.hash && r.ctorIndex == other.ctorIndex && r.arityTag == other.arityTag
}

func (r Reference) String() string {
	if r.kind == BuiltinKind {
		return fmt.Sprintf("##%s", r.name)
	}
	if r.ctorIndex == 0 && r.arityTag == 0 {
		return r.hash.String()
	}
	return fmt.Sprintf("%s#%d", r.hash.String(), r.ctorIndex)
}
