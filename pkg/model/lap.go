package model

// LapPosition is the progress information of a single point of the track.
// SectionID 0 is the section starting at the start/finish line.
// LapDistance grows along the driving direction and is used to rank racers
// within the same lap.
type LapPosition struct {
	SectionID   int
	LapDistance float64
}
