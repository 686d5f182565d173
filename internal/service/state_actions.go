package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"skincare-advisor/internal/domain"
	"skincare-advisor/internal/imagedata"
)

var (
	ErrInvalidAction   = errors.New("invalid action")
	ErrEntryNotFound   = errors.New("progress entry not found")
	ErrProductNotFound = errors.New("product not found")
	ErrRoutineNotFound = errors.New("routine not found")
)

// Action es una mutacion discreta del estado de sesion. Apply trabaja sobre una copia;
// si devuelve error el estado guardado no cambia.
type Action interface {
	Name() string
	Apply(state *domain.AppState, now time.Time) error
}

// CaptureImage guarda la imagen capturada y descarta el analisis anterior.
type CaptureImage struct {
	Image domain.CapturedImage
}

func (CaptureImage) Name() string { return "capture_image" }

func (a CaptureImage) Apply(s *domain.AppState, _ time.Time) error {
	if a.Image.DataURL == "" {
		return fmt.Errorf("%w: image is required", ErrInvalidAction)
	}
	img := a.Image
	s.Image = &img
	s.Analysis = nil
	s.FaceDetails = nil
	s.Recommendations = nil
	return nil
}

// RecordAnalysis guarda el resultado del analisis y su view-model.
type RecordAnalysis struct {
	Result domain.AnalysisResult
}

func (RecordAnalysis) Name() string { return "record_analysis" }

func (a RecordAnalysis) Apply(s *domain.AppState, _ time.Time) error {
	res := a.Result
	details := BuildFaceDetails(&res)
	s.Analysis = &res
	s.FaceDetails = &details
	s.Recommendations = nil
	return nil
}

// RecordRecommendations guarda las recomendaciones recibidas.
type RecordRecommendations struct {
	Recommendations domain.Recommendations
}

func (RecordRecommendations) Name() string { return "record_recommendations" }

func (a RecordRecommendations) Apply(s *domain.AppState, _ time.Time) error {
	recs := a.Recommendations
	s.Recommendations = &recs
	return nil
}

// AddProgressEntry agrega un registro antes/despues. Ambas imagenes son obligatorias.
type AddProgressEntry struct {
	Date        string
	Notes       string
	BeforeImage string
	AfterImage  string
	MaxBytes    int

	// ID asignado al aplicar la accion.
	Assigned *int64
}

func (AddProgressEntry) Name() string { return "add_progress_entry" }

func (a AddProgressEntry) Apply(s *domain.AppState, now time.Time) error {
	if a.BeforeImage == "" || a.AfterImage == "" {
		return fmt.Errorf("%w: before and after images are required", ErrInvalidAction)
	}
	if _, err := imagedata.Parse(a.BeforeImage, a.MaxBytes); err != nil {
		return fmt.Errorf("before image: %w", err)
	}
	if _, err := imagedata.Parse(a.AfterImage, a.MaxBytes); err != nil {
		return fmt.Errorf("after image: %w", err)
	}
	date := strings.TrimSpace(a.Date)
	if date == "" {
		date = now.UTC().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidAction)
	}

	entry := domain.ProgressEntry{
		ID:          s.NextID(now),
		Date:        date,
		Notes:       strings.TrimSpace(a.Notes),
		BeforeImage: a.BeforeImage,
		AfterImage:  a.AfterImage,
		CreatedAt:   now.UTC(),
	}
	s.ProgressEntries = append(s.ProgressEntries, entry)
	if a.Assigned != nil {
		*a.Assigned = entry.ID
	}
	return nil
}

type DeleteProgressEntry struct {
	ID int64
}

func (DeleteProgressEntry) Name() string { return "delete_progress_entry" }

func (a DeleteProgressEntry) Apply(s *domain.AppState, _ time.Time) error {
	for i, e := range s.ProgressEntries {
		if e.ID == a.ID {
			s.ProgressEntries = append(s.ProgressEntries[:i], s.ProgressEntries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// ProductInput son los campos editables de un producto.
type ProductInput struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Frequency string `json:"frequency"`
	TimeOfDay string `json:"time_of_day"`
	Status    string `json:"status"`
	Reminder  bool   `json:"reminder"`
}

func (in ProductInput) normalize() (domain.Product, error) {
	p := domain.Product{
		Name:      strings.TrimSpace(in.Name),
		Category:  strings.TrimSpace(in.Category),
		Frequency: strings.ToLower(strings.TrimSpace(in.Frequency)),
		TimeOfDay: strings.ToLower(strings.TrimSpace(in.TimeOfDay)),
		Status:    strings.ToLower(strings.TrimSpace(in.Status)),
		Reminder:  in.Reminder,
	}
	if p.Name == "" || p.Category == "" {
		return domain.Product{}, fmt.Errorf("%w: product name and category are required", ErrInvalidAction)
	}
	if p.Frequency == "" {
		p.Frequency = domain.FrequencyDaily
	}
	if p.TimeOfDay == "" {
		p.TimeOfDay = domain.TimeOfDayMorning
	}
	if p.Status == "" {
		p.Status = domain.ProductStatusTried
	}
	if !domain.ValidFrequency(p.Frequency) {
		return domain.Product{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidAction, p.Frequency)
	}
	if !domain.ValidTimeOfDay(p.TimeOfDay) {
		return domain.Product{}, fmt.Errorf("%w: unknown time of day %q", ErrInvalidAction, p.TimeOfDay)
	}
	if !domain.ValidProductStatus(p.Status) {
		return domain.Product{}, fmt.Errorf("%w: unknown status %q", ErrInvalidAction, p.Status)
	}
	return p, nil
}

type AddProduct struct {
	Input    ProductInput
	Assigned *int64
}

func (AddProduct) Name() string { return "add_product" }

func (a AddProduct) Apply(s *domain.AppState, now time.Time) error {
	p, err := a.Input.normalize()
	if err != nil {
		return err
	}
	p.ID = s.NextID(now)
	s.Products = append(s.Products, p)
	if a.Assigned != nil {
		*a.Assigned = p.ID
	}
	return nil
}

type UpdateProduct struct {
	ID    int64
	Input ProductInput
}

func (UpdateProduct) Name() string { return "update_product" }

func (a UpdateProduct) Apply(s *domain.AppState, _ time.Time) error {
	p, err := a.Input.normalize()
	if err != nil {
		return err
	}
	for i := range s.Products {
		if s.Products[i].ID == a.ID {
			p.ID = a.ID
			s.Products[i] = p
			return nil
		}
	}
	return ErrProductNotFound
}

// DeleteProduct elimina el producto y sus referencias en las rutinas.
type DeleteProduct struct {
	ID int64
}

func (DeleteProduct) Name() string { return "delete_product" }

func (a DeleteProduct) Apply(s *domain.AppState, _ time.Time) error {
	idx := -1
	for i, p := range s.Products {
		if p.ID == a.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrProductNotFound
	}
	s.Products = append(s.Products[:idx], s.Products[idx+1:]...)
	for i := range s.Routines {
		ids := s.Routines[i].ProductIDs[:0]
		for _, id := range s.Routines[i].ProductIDs {
			if id != a.ID {
				ids = append(ids, id)
			}
		}
		s.Routines[i].ProductIDs = ids
	}
	return nil
}

// AddRoutine crea una rutina; requiere nombre y al menos un producto existente.
type AddRoutine struct {
	RoutineName string
	ProductIDs  []int64
	Schedule    []string
	Assigned    *int64
}

func (AddRoutine) Name() string { return "add_routine" }

func (a AddRoutine) Apply(s *domain.AppState, now time.Time) error {
	name := strings.TrimSpace(a.RoutineName)
	if name == "" || len(a.ProductIDs) == 0 {
		return fmt.Errorf("%w: routine name and at least one product are required", ErrInvalidAction)
	}
	known := make(map[int64]bool, len(s.Products))
	for _, p := range s.Products {
		known[p.ID] = true
	}
	for _, id := range a.ProductIDs {
		if !known[id] {
			return fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
	}
	schedule := make([]string, 0, len(a.Schedule))
	for _, slot := range a.Schedule {
		if slot = strings.TrimSpace(slot); slot != "" {
			schedule = append(schedule, slot)
		}
	}
	r := domain.Routine{
		ID:         s.NextID(now),
		Name:       name,
		ProductIDs: append([]int64{}, a.ProductIDs...),
		Schedule:   schedule,
	}
	s.Routines = append(s.Routines, r)
	if a.Assigned != nil {
		*a.Assigned = r.ID
	}
	return nil
}

type DeleteRoutine struct {
	ID int64
}

func (DeleteRoutine) Name() string { return "delete_routine" }

func (a DeleteRoutine) Apply(s *domain.AppState, _ time.Time) error {
	for i, r := range s.Routines {
		if r.ID == a.ID {
			s.Routines = append(s.Routines[:i], s.Routines[i+1:]...)
			return nil
		}
	}
	return ErrRoutineNotFound
}

// Reset vuelve la sesion al estado inicial conservando su id.
type Reset struct{}

func (Reset) Name() string { return "reset" }

func (Reset) Apply(s *domain.AppState, now time.Time) error {
	created := s.CreatedAt
	lastID := s.LastID
	*s = domain.NewAppState(s.SessionID, now)
	s.CreatedAt = created
	s.LastID = lastID
	return nil
}
