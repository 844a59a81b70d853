package models

import "time"

// Watchlist is a saved set of congestion filters
type Watchlist struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name" validate:"required,max=64"`
	VesselClassID int       `json:"vessel_class_id" validate:"gt=0"`
	Ports         []string  `json:"ports" validate:"dive,required"`
	Areas         []string  `json:"areas" validate:"dive,required"`
	CreatedAt     time.Time `json:"created_at"`
}
