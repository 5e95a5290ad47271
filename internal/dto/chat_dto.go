package dto

import (
	"time"

	"scitech-bot/pkg/nlp"
)

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=64"`
	Mensaje   string `json:"mensaje"`
}

type SentimentDTO struct {
	Label       string  `json:"label"`
	Confianza   float64 `json:"confianza"`
	Descripcion string  `json:"descripcion"`
	Tono        string  `json:"tono"`
}

type ChatResponse struct {
	SessionID       string        `json:"session_id"`
	Respuesta       string        `json:"respuesta"`
	TemaActual      string        `json:"tema_actual"`
	TemasDiscutidos []string      `json:"temas_discutidos"`
	Mensajes        int           `json:"mensajes"`
	Sentimiento     *SentimentDTO `json:"sentimiento,omitempty"`
	Regla           string        `json:"regla,omitempty"`
	Rechazo         string        `json:"rechazo,omitempty"`
}

type AnalysisRequest struct {
	Mensaje string `json:"mensaje" validate:"required,max=1000"`
}

type AnalysisResponse struct {
	Analisis []nlp.TokenRecord `json:"analisis"`
	Tabla    string            `json:"tabla"`
}

type SessionResponse struct {
	SessionID       string        `json:"session_id"`
	Saludo          bool          `json:"saludo"`
	PreguntaEstado  bool          `json:"pregunta_estado"`
	TemaActual      string        `json:"tema_actual"`
	TemasDiscutidos []string      `json:"temas_discutidos"`
	Mensajes        int           `json:"mensajes"`
	Sentimiento     *SentimentDTO `json:"ultimo_sentimiento,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
