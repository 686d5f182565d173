package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Claves del vector de caracteristicas, en orden canonico.
const (
	FeatureNormal       = "normal"
	FeatureDry          = "dry"
	FeatureOily         = "oily"
	FeatureCombination  = "combination"
	FeatureAcne         = "acne"
	FeatureSensitive    = "sensitive"
	FeatureFineLines    = "fine lines"
	FeatureWrinkles     = "wrinkles"
	FeatureRedness      = "redness"
	FeatureDull         = "dull"
	FeaturePore         = "pore"
	FeaturePigmentation = "pigmentation"
	FeatureBlackheads   = "blackheads"
	FeatureWhiteheads   = "whiteheads"
	FeatureBlemishes    = "blemishes"
	FeatureDarkCircles  = "dark circles"
	FeatureEyeBags      = "eye bags"
	FeatureDarkSpots    = "dark spots"
)

var featureKeys = [...]string{
	FeatureNormal, FeatureDry, FeatureOily, FeatureCombination, FeatureAcne,
	FeatureSensitive, FeatureFineLines, FeatureWrinkles, FeatureRedness, FeatureDull,
	FeaturePore, FeaturePigmentation, FeatureBlackheads, FeatureWhiteheads,
	FeatureBlemishes, FeatureDarkCircles, FeatureEyeBags, FeatureDarkSpots,
}

// FeatureCount es la dimension fija del vector.
const FeatureCount = len(featureKeys)

var primaryTypes = [...]string{FeatureNormal, FeatureDry, FeatureOily, FeatureCombination}

var featureIndex = func() map[string]int {
	idx := make(map[string]int, FeatureCount)
	for i, k := range featureKeys {
		idx[k] = i
	}
	return idx
}()

var ErrInvalidFeatureVector = errors.New("invalid feature vector")

// FeatureKeys devuelve una copia de las claves en orden canonico.
func FeatureKeys() []string {
	out := make([]string, FeatureCount)
	copy(out, featureKeys[:])
	return out
}

// PrimaryTypes devuelve los cuatro tipos de piel principales.
func PrimaryTypes() []string {
	out := make([]string, len(primaryTypes))
	copy(out, primaryTypes[:])
	return out
}

// IsFeatureKey indica si la clave pertenece al conjunto enumerado.
func IsFeatureKey(key string) bool {
	_, ok := featureIndex[key]
	return ok
}

// IsPrimaryType indica si la clave es un tipo de piel principal.
func IsPrimaryType(key string) bool {
	for _, t := range primaryTypes {
		if t == key {
			return true
		}
	}
	return false
}

// FeatureVector es un mapeo binario de esquema fijo sobre los atributos de piel.
// Es inmutable: solo se construye con FeatureVectorBuilder o se decodifica de JSON.
type FeatureVector struct {
	bits [FeatureCount]uint8
}

// Get devuelve el valor de la clave (0 si la clave no existe).
func (v FeatureVector) Get(key string) int {
	i, ok := featureIndex[key]
	if !ok {
		return 0
	}
	return int(v.bits[i])
}

// Values devuelve los valores en orden canonico.
func (v FeatureVector) Values() []int {
	out := make([]int, FeatureCount)
	for i, b := range v.bits {
		out[i] = int(b)
	}
	return out
}

// Float32 devuelve el vector como embedding para busquedas por similitud.
func (v FeatureVector) Float32() []float32 {
	out := make([]float32, FeatureCount)
	for i, b := range v.bits {
		out[i] = float32(b)
	}
	return out
}

// Map devuelve una copia como mapa clave -> 0/1.
func (v FeatureVector) Map() map[string]int {
	out := make(map[string]int, FeatureCount)
	for i, k := range featureKeys {
		out[k] = int(v.bits[i])
	}
	return out
}

// Active devuelve las claves con valor 1, en orden canonico.
func (v FeatureVector) Active() []string {
	var out []string
	for i, k := range featureKeys {
		if v.bits[i] == 1 {
			out = append(out, k)
		}
	}
	return out
}

// MarshalJSON escribe las claves en orden canonico.
func (v FeatureVector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range featureKeys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteByte('0' + v.bits[i])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON exige exactamente el conjunto enumerado con valores 0/1.
func (v *FeatureVector) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFeatureVector, err)
	}
	var out FeatureVector
	for k, val := range raw {
		i, ok := featureIndex[k]
		if !ok {
			return fmt.Errorf("%w: unknown key %q", ErrInvalidFeatureVector, k)
		}
		if val != 0 && val != 1 {
			return fmt.Errorf("%w: key %q has value %d", ErrInvalidFeatureVector, k, val)
		}
		out.bits[i] = uint8(val)
	}
	if len(raw) != FeatureCount {
		return fmt.Errorf("%w: expected %d keys, got %d", ErrInvalidFeatureVector, FeatureCount, len(raw))
	}
	*v = out
	return nil
}

// FeatureVectorBuilder es la unica forma de producir un FeatureVector fuera de JSON.
type FeatureVectorBuilder struct {
	v FeatureVector
}

// Set marca la clave con 1; claves fuera del conjunto se ignoran.
func (b *FeatureVectorBuilder) Set(key string) *FeatureVectorBuilder {
	if i, ok := featureIndex[key]; ok {
		b.v.bits[i] = 1
	}
	return b
}

// Build devuelve el vector construido.
func (b *FeatureVectorBuilder) Build() FeatureVector {
	return b.v
}
