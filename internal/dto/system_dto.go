package dto

type HealthResponse struct {
	Status        string          `json:"status"`
	Bot           string          `json:"bot"`
	Version       string          `json:"version"`
	Modo          string          `json:"modo"`
	Catalogo      string          `json:"catalogo"`
	Colaboradores map[string]bool `json:"colaboradores"`
}

type StatsResponse struct {
	Turnos          int            `json:"turnos"`
	Rechazos        map[string]int `json:"rechazos"`
	Reglas          map[string]int `json:"reglas"`
	Temas           map[string]int `json:"temas"`
	Sentimientos    map[string]int `json:"sentimientos"`
	SesionesActivas int            `json:"sesiones_activas"`
}

type LogsQuery struct {
	Level  string `query:"level" validate:"omitempty,oneof=debug info warn error"`
	Limit  int    `query:"limit" validate:"gte=0,lte=500"`
	Offset int    `query:"offset" validate:"gte=0"`
}
