package model

const (
	// UnitForPixel converts table units (pixels) to world units.
	UnitForPixel = 1.0 / 20.0
	// PlayerHealth is the initial health of a racer.
	PlayerHealth = 100.0
	// ScoreGiftPick is the score granted when a racer picks a bonus.
	ScoreGiftPick = 100
)
