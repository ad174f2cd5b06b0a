package dto

import "time"

// MaterialRequest entrada para crear o actualizar un material.
type MaterialRequest struct {
	Nome      string `json:"nome" validate:"required,max=120"`
	Descricao string `json:"descricao" validate:"required,max=500"`
	Unidade   string `json:"unidade" validate:"required,max=20"`
}

// MaterialResponse salida de un material.
type MaterialResponse struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Descricao string    `json:"descricao"`
	Unidade   string    `json:"unidade"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
