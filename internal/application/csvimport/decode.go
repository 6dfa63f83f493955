package csvimport

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// Codificaciones admitidas del archivo subido.
const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// NormalizeEncoding devuelve el nombre canónico o "" si no se admite.
func NormalizeEncoding(enc string) string {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "utf-8", "utf8", "utf-8-sig":
		return EncodingUTF8
	case "shift_jis", "shift-jis", "sjis", "cp932":
		return EncodingShiftJIS
	}
	return ""
}

// decoder envuelve el contenido en un lector UTF-8. En UTF-8 descarta el BOM si viene.
func decoder(content []byte, enc string) (io.Reader, error) {
	var t transform.Transformer
	switch NormalizeEncoding(enc) {
	case EncodingUTF8:
		t = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	case EncodingShiftJIS:
		t = japanese.ShiftJIS.NewDecoder()
	default:
		return nil, fmt.Errorf("codificación no soportada: %q", enc)
	}
	return transform.NewReader(bytes.NewReader(content), t), nil
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02",
	"2006/01/02",
}

var truthy = map[string]bool{"true": true, "1": true, "yes": true, "t": true, "はい": true}

// convertValue convierte el texto de una celda según el tipo de la columna destino.
func convertValue(kind entity.FieldKind, raw string) (any, error) {
	switch kind {
	case entity.FieldInt:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("no es un número")
		}
		return int64(f), nil
	case entity.FieldBool:
		return truthy[strings.ToLower(raw)], nil
	case entity.FieldDate, entity.FieldDateTime:
		for _, layout := range dateLayouts {
			t, err := time.Parse(layout, raw)
			if err != nil {
				continue
			}
			if kind == entity.FieldDate {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
			}
			return t, nil
		}
		return nil, fmt.Errorf("formato de fecha no reconocido")
	default:
		return raw, nil
	}
}
