package entity

import "time"

// Material representa un material reciclable del catálogo.
// Nome y Unidade son obligatorios; el nombre es único sin distinguir mayúsculas.
type Material struct {
	ID        int64
	Nome      string
	Descricao string
	Unidade   string // kg, un, t, l...
	CreatedAt time.Time
	UpdatedAt time.Time
}
