package domain

import "time"

// CapturedImage es la imagen capturada o subida, ya validada.
type CapturedImage struct {
	DataURL     string `json:"data_url"`
	MIME        string `json:"mime"`
	Fingerprint string `json:"fingerprint"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// AppState es el estado serializable de una sesion. Solo se modifica mediante acciones.
type AppState struct {
	SessionID       string           `json:"session_id"`
	Image           *CapturedImage   `json:"image,omitempty"`
	Analysis        *AnalysisResult  `json:"analysis,omitempty"`
	FaceDetails     *FaceDetails     `json:"face_details,omitempty"`
	Recommendations *Recommendations `json:"recommendations,omitempty"`
	ProgressEntries []ProgressEntry  `json:"progress_entries"`
	Products        []Product        `json:"products"`
	Routines        []Routine        `json:"routines"`
	LastID          int64            `json:"last_id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// NewAppState crea un estado vacio para la sesion.
func NewAppState(sessionID string, now time.Time) AppState {
	return AppState{
		SessionID:       sessionID,
		ProgressEntries: []ProgressEntry{},
		Products:        []Product{},
		Routines:        []Routine{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NextID devuelve un id basado en el timestamp, unico dentro de la sesion.
func (s *AppState) NextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.LastID {
		id = s.LastID + 1
	}
	s.LastID = id
	return id
}

// Clone devuelve una copia profunda; las acciones trabajan sobre la copia.
func (s AppState) Clone() AppState {
	out := s
	if s.Image != nil {
		img := *s.Image
		out.Image = &img
	}
	if s.Analysis != nil {
		a := *s.Analysis
		if s.Analysis.Features != nil {
			a.Features = make(map[string]int, len(s.Analysis.Features))
			for k, v := range s.Analysis.Features {
				a.Features[k] = v
			}
		}
		out.Analysis = &a
	}
	if s.FaceDetails != nil {
		fd := *s.FaceDetails
		fd.OtherConcerns = append([]string(nil), s.FaceDetails.OtherConcerns...)
		out.FaceDetails = &fd
	}
	if s.Recommendations != nil {
		r := Recommendations{Makeup: append([]CatalogProduct(nil), s.Recommendations.Makeup...)}
		if s.Recommendations.General != nil {
			r.General = make(map[string][]CatalogProduct, len(s.Recommendations.General))
			for k, v := range s.Recommendations.General {
				r.General[k] = append([]CatalogProduct(nil), v...)
			}
		}
		out.Recommendations = &r
	}
	out.ProgressEntries = append([]ProgressEntry{}, s.ProgressEntries...)
	out.Products = append([]Product{}, s.Products...)
	out.Routines = make([]Routine, len(s.Routines))
	for i, r := range s.Routines {
		r.ProductIDs = append([]int64{}, r.ProductIDs...)
		r.Schedule = append([]string{}, r.Schedule...)
		out.Routines[i] = r
	}
	return out
}
