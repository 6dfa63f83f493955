package entity

import "time"

// Machine máquina o equipo de planta.
type Machine struct {
	ID            string
	MachineNumber string
	Name          string
	MachineType   string
	Location      string
	Description   string
	CreatedAt     time.Time
}
