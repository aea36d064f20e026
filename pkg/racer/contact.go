package racer

// ContactKind identifies the other participant of a collision.
type ContactKind int

const (
	ContactWall ContactKind = iota
	ContactRacer
	ContactRacerBullet
	ContactAIVehicle
	ContactFlatAIVehicle
	ContactPickup
)

// Pickup is an object that gives something to the racer touching it.
type Pickup interface {
	Pick(by Scorer)
}

// Contact describes the other side of a collision.
// Pickup is only set for ContactPickup.
type Contact struct {
	Kind   ContactKind
	Pickup Pickup
}

func PickupContact(p Pickup) Contact {
	return Contact{Kind: ContactPickup, Pickup: p}
}

func KindContact(kind ContactKind) Contact {
	return Contact{Kind: kind}
}
