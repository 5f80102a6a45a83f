package models

import "time"

// Reading is a single sensor sample reported by an ESP module.
type Reading struct {
	ID        string    `json:"id"`
	Voltage   float64   `json:"voltage"` // V
	Current   float64   `json:"current"` // A
	Power     float64   `json:"power"`   // W
	EspID     string    `json:"espId"`   // uppercase device identifier
	Timestamp time.Time `json:"timestamp"`
}

// EnergyBucket is one aggregated interval of the range query.
// It is computed on demand and never persisted.
type EnergyBucket struct {
	Time   time.Time `json:"time"`   // earliest reading in the bucket
	Energy float64   `json:"energy"` // Wh, rounded to 2 decimals
}
