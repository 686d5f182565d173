package imagedata

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/crypto/blake2b"
)

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"

	// DefaultMaxBytes limita el tamaño decodificado de una imagen.
	DefaultMaxBytes = 8 << 20
)

var (
	ErrMalformed         = errors.New("malformed data url")
	ErrUnsupportedFormat = errors.New("unsupported image format, please upload a JPEG or PNG image")
	ErrInvalidImage      = errors.New("uploaded file is not a valid JPEG or PNG image, please try another photo")
	ErrTooLarge          = errors.New("image too large")
)

// Image es una imagen decodificada desde un data URL.
type Image struct {
	MIME        string
	Data        []byte
	Width       int
	Height      int
	Fingerprint string
}

// DataURL vuelve a codificar la imagen.
func (i Image) DataURL() string {
	return Encode(i.MIME, i.Data)
}

// Parse valida un data URL JPEG/PNG y decodifica su contenido.
// maxBytes <= 0 usa DefaultMaxBytes.
func Parse(dataURL string, maxBytes int) (Image, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	dataURL = strings.TrimSpace(dataURL)
	comma := strings.IndexByte(dataURL, ',')
	if comma < 0 {
		return Image{}, ErrMalformed
	}
	if !supportedMediaType(dataURL[:comma]) {
		return Image{}, ErrUnsupportedFormat
	}

	payload := fixPadding(strings.TrimSpace(dataURL[comma+1:]))
	if base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return Image{}, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) > maxBytes {
		return Image{}, ErrTooLarge
	}

	mime := mimetype.Detect(data).String()
	if mime != MIMEJPEG && mime != MIMEPNG {
		return Image{}, fmt.Errorf("%w: detected %s", ErrInvalidImage, mime)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return Image{
		MIME:        mime,
		Data:        data,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Fingerprint: Fingerprint(data),
	}, nil
}

// supportedMediaType exige "data:image/jpeg" o "data:image/png" seguido de ";" o fin.
func supportedMediaType(prefix string) bool {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if !strings.HasPrefix(prefix, "data:") {
		return false
	}
	mediaType, _, _ := strings.Cut(prefix[len("data:"):], ";")
	return mediaType == MIMEJPEG || mediaType == MIMEPNG
}

// Encode arma un data URL base64.
func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FromFile lee una imagen del disco y devuelve su data URL.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mime := mimetype.Detect(data).String()
	if mime != MIMEJPEG && mime != MIMEPNG {
		return "", fmt.Errorf("%w: %s is %s", ErrUnsupportedFormat, path, mime)
	}
	return Encode(mime, data), nil
}

// Fingerprint es el hash BLAKE2b-256 en hex del contenido.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func fixPadding(s string) string {
	if missing := len(s) % 4; missing != 0 {
		s += strings.Repeat("=", 4-missing)
	}
	return s
}
