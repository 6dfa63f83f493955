package csvimport

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

func TestNormalizeEncoding(t *testing.T) {
	cases := map[string]string{
		"":          EncodingUTF8,
		"UTF-8":     EncodingUTF8,
		"utf-8-sig": EncodingUTF8,
		"Shift_JIS": EncodingShiftJIS,
		"cp932":     EncodingShiftJIS,
		"latin1":    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeEncoding(in), in)
	}
}

func TestDecoder_QuitaBOM(t *testing.T) {
	r, err := decoder([]byte("\xef\xbb\xbf品番,数量\n"), "utf-8")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "品番,数量\n", string(out))
}

func TestDecoder_ShiftJIS(t *testing.T) {
	raw, err := japanese.ShiftJIS.NewEncoder().String("品番,品名\nA-1,ボルト\n")
	require.NoError(t, err)

	r, err := decoder([]byte(raw), "sjis")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "品番,品名\nA-1,ボルト\n", string(out))
}

func TestDecoder_CodificacionNoSoportada(t *testing.T) {
	_, err := decoder([]byte("x"), "ebcdic")
	assert.Error(t, err)
}

func TestConvertValue(t *testing.T) {
	v, err := convertValue(entity.FieldInt, "12.0")
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	_, err = convertValue(entity.FieldInt, "doce")
	assert.Error(t, err)

	v, err = convertValue(entity.FieldBool, "Yes")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, _ = convertValue(entity.FieldBool, "no")
	assert.Equal(t, false, v)

	v, err = convertValue(entity.FieldDate, "2024/03/05 10:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), v)

	v, err = convertValue(entity.FieldDateTime, "2024-03-05 10:30:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 30, 15, 0, time.UTC), v)

	_, err = convertValue(entity.FieldDate, "05.03.2024")
	assert.Error(t, err)

	v, err = convertValue(entity.FieldText, " tal cual ")
	require.NoError(t, err)
	assert.Equal(t, " tal cual ", v)
}
