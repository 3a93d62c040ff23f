package types

// Kind identifies one of the six entity collections of a project. The value
// doubles as the collection's JSON key and its path segment on the entity
// service (e.g. /projects/{p}/characters).
type Kind string

const (
	KindCharacter Kind = "characters"
	KindWorld     Kind = "worlds"
	KindWriting   Kind = "writings"
	KindEvent     Kind = "timeline"
	KindEra       Kind = "eras"
	KindCatalogue Kind = "catalogue"
)

// Kinds lists all entity kinds for enumeration, in display order.
var Kinds = []Kind{
	KindCharacter,
	KindWorld,
	KindWriting,
	KindEvent,
	KindEra,
	KindCatalogue,
}

// validKinds is the set of recognized kind values.
var validKinds = map[Kind]bool{
	KindCharacter: true,
	KindWorld:     true,
	KindWriting:   true,
	KindEvent:     true,
	KindEra:       true,
	KindCatalogue: true,
}

// Valid reports whether k is a recognized entity kind.
func (k Kind) Valid() bool {
	return validKinds[k]
}

func (k Kind) String() string {
	return string(k)
}
