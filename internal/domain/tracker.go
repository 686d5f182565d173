package domain

import "time"

// ProgressEntry es un registro antes/despues creado por el usuario.
// El ID es el timestamp de creacion en milisegundos.
type ProgressEntry struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"` // "2025-02-20"
	Notes       string    `json:"notes,omitempty"`
	BeforeImage string    `json:"before_image"`
	AfterImage  string    `json:"after_image"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"

	TimeOfDayMorning = "morning"
	TimeOfDayEvening = "evening"
	TimeOfDayBoth    = "both"

	ProductStatusTried = "tried"
	ProductStatusLiked = "liked"
	ProductStatusAvoid = "avoid"
)

// ValidFrequency indica si la frecuencia es una de las enumeradas.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// ValidTimeOfDay indica si el momento del dia es uno de los enumerados.
func ValidTimeOfDay(t string) bool {
	switch t {
	case TimeOfDayMorning, TimeOfDayEvening, TimeOfDayBoth:
		return true
	}
	return false
}

// ValidProductStatus indica si el estado es uno de los enumerados.
func ValidProductStatus(s string) bool {
	switch s {
	case ProductStatusTried, ProductStatusLiked, ProductStatusAvoid:
		return true
	}
	return false
}

// Product es un producto que el usuario agrega a su rutina.
type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Frequency string `json:"frequency"`
	TimeOfDay string `json:"time_of_day"`
	Status    string `json:"status"`
	Reminder  bool   `json:"reminder"`
}

// Routine es una coleccion ordenada y con nombre de referencias a productos.
type Routine struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	ProductIDs []int64  `json:"product_ids"`
	Schedule   []string `json:"schedule"`
}
