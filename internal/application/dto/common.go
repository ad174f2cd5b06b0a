package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero o negativos.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP. Details lista las líneas rechazadas de un lote.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []LineErrorResponse `json:"details,omitempty"`
}

// LineErrorResponse fallo de una línea de movimiento, para resaltar la línea en el formulario.
type LineErrorResponse struct {
	Line       int    `json:"line"`
	MaterialID int64  `json:"materialId"`
	Code       string `json:"code"`
	Reason     string `json:"reason"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"mensagem"`
}
