package piece

import "fmt"

// Kind is the closed set of content kinds a piece can carry
type Kind uint8

const (
	KindUnknown Kind = iota
	KindField
	KindNPC
	KindFaction
	KindSign
	KindGraffiti
	KindVendingMachine
	KindToilet
	KindGasPump
	KindLiquid
	KindIGroup
	KindLoot
	KindMGroup
	KindMonster
	KindVehicle
	KindItem
	KindTrap
	KindFurniture
	KindTerrain
	KindTerFurnTransform
	KindMakeRubble
	KindComputer
	KindSealedItem
	KindTranslate
	KindZone
	KindNested
	KindAltTrap
	KindAltFurniture
	KindAltTerrain
	KindRemoveAll

	kindCount
)

// traits is the per-kind behavior row
type traits struct {
	name string
	// exclusive kinds keep at most one unconstrained instance per resolved entry
	exclusive bool
	// mapping kinds may be placed in palette mappings (the rest only as map objects)
	mapping bool
	// alternatives kinds require a non-empty Values list
	alternatives bool
}

// kindTraits is indexed by Kind; every kind below kindCount must have a row
var kindTraits = [kindCount]traits{
	KindUnknown:          {name: "Unknown"},
	KindField:            {name: "Field", mapping: true},
	KindNPC:              {name: "NPC", mapping: true},
	KindFaction:          {name: "Faction", mapping: true},
	KindSign:             {name: "Sign", mapping: true},
	KindGraffiti:         {name: "Graffiti", mapping: true},
	KindVendingMachine:   {name: "VendingMachine", mapping: true},
	KindToilet:           {name: "Toilet", mapping: true},
	KindGasPump:          {name: "GasPump", mapping: true},
	KindLiquid:           {name: "Liquid", mapping: true},
	KindIGroup:           {name: "IGroup", mapping: true},
	KindLoot:             {name: "Loot"},
	KindMGroup:           {name: "MGroup", mapping: true},
	KindMonster:          {name: "Monster", mapping: true},
	KindVehicle:          {name: "Vehicle", mapping: true},
	KindItem:             {name: "Item", mapping: true},
	KindTrap:             {name: "Trap"},
	KindFurniture:        {name: "Furniture"},
	KindTerrain:          {name: "Terrain"},
	KindTerFurnTransform: {name: "TerFurnTransform", mapping: true},
	KindMakeRubble:       {name: "MakeRubble", mapping: true},
	KindComputer:         {name: "Computer", mapping: true},
	KindSealedItem:       {name: "SealedItem", mapping: true},
	KindTranslate:        {name: "Translate", mapping: true},
	KindZone:             {name: "Zone", mapping: true},
	KindNested:           {name: "Nested", mapping: true},
	KindAltTrap:          {name: "AltTrap", exclusive: true, mapping: true, alternatives: true},
	KindAltFurniture:     {name: "AltFurniture", exclusive: true, mapping: true, alternatives: true},
	KindAltTerrain:       {name: "AltTerrain", exclusive: true, mapping: true, alternatives: true},
	KindRemoveAll:        {name: "RemoveAll", mapping: true},
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		m[kindTraits[k].name] = k
	}
	return m
}()

// Kinds returns every kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Valid reports whether k is a declared kind
func (k Kind) Valid() bool {
	return k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindTraits[k].name
}

// Exclusive reports whether a more specific source replaces this kind instead of adding to it
func (k Kind) Exclusive() bool {
	return k.Valid() && kindTraits[k].exclusive
}

// AvailableAsMapping reports whether the kind can be placed through a palette entry
func (k Kind) AvailableAsMapping() bool {
	return k.Valid() && kindTraits[k].mapping
}

// HasAlternatives reports whether the kind's payload is a weighted list of candidates
func (k Kind) HasAlternatives() bool {
	return k.Valid() && kindTraits[k].alternatives
}

// ParseKind resolves a kind name as produced by Kind.String
func ParseKind(name string) (Kind, error) {
	k, ok := kindByName[name]
	if !ok {
		return KindUnknown, fmt.Errorf("unknown piece kind %q", name)
	}
	return k, nil
}

// MarshalText writes the kind name
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid piece kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
