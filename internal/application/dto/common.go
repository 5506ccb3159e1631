package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple con mensaje (clear del carrito).
type MessageResponse struct {
	Message string `json:"message"`
}

// optional convierte "" en nil para los campos que viajan como null (dueño/vencimiento del pedido directo).
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
