package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"bufferSize"`
	Enrichment bool      `json:"enrichment"`
	LastCheck  time.Time `json:"lastCheck"`
}
