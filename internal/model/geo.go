package model

// Coordinates is a single GPS coordinate in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// OperationalArea is a rectangular geographic area used for unit placement.
type OperationalArea struct {
	TopLeft     Coordinates
	BottomRight Coordinates
}
