package model

// CollisionCategory is a bit in the category/mask configuration of a vehicle.
type CollisionCategory uint16

const (
	CategoryWall CollisionCategory = 1 << iota
	CategoryRacer
	CategoryRacerBullet
	CategoryAIVehicle
	CategoryFlatAIVehicle
	CategoryGift
)

// Has reports whether all bits of other are set.
func (c CollisionCategory) Has(other CollisionCategory) bool {
	return c&other == other
}
