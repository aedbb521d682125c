package numeric

import (
	"errors"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		def     float64
		want    float64
		wantErr bool
	}{
		{"nil uses default", nil, 42.0, 42.0, false},
		{"float64 passthrough", 3.14, 0, 3.14, false},
		{"float32", float32(2.5), 0, 2.5, false},
		{"int", 7, 0, 7.0, false},
		{"int32", int32(-3), 0, -3.0, false},
		{"int64", int64(1000), 0, 1000.0, false},
		{"numeric string", "6.5", 0, 6.5, false},
		{"numeric string with spaces", "  120.25 ", 0, 120.25, false},
		{"empty string uses default", "", 9.0, 9.0, false},
		{"byte slice", []byte("88"), 0, 88.0, false},
		{"garbage string", "well drained", 5.0, 5.0, true},
		{"unsupported type", struct{}{}, 1.0, 1.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Float(tt.input, tt.def)
			if tt.wantErr {
				require.Error(t, err)
				var formatErr *FormatError
				assert.True(t, errors.As(err, &formatErr), "error should be *FormatError")
			} else {
				require.NoError(t, err)
			}
			// Even on error the default comes back, never a surprise value
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFloatPgNumeric(t *testing.T) {
	// 123.45 as NUMERIC: 12345 * 10^-2
	n := pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}

	got, err := Float(n, 0)
	require.NoError(t, err)
	assert.InDelta(t, 123.45, got, 1e-9)

	// Pointer form
	got, err = Float(&n, 0)
	require.NoError(t, err)
	assert.InDelta(t, 123.45, got, 1e-9)

	// Invalid (NULL) numeric uses default
	got, err = Float(pgtype.Numeric{}, 17.0)
	require.NoError(t, err)
	assert.Equal(t, 17.0, got)

	var nilNumeric *pgtype.Numeric
	got, err = Float(nilNumeric, 5.0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)
}

func TestFloatPgFloat8(t *testing.T) {
	got, err := Float(pgtype.Float8{Float64: 31.5, Valid: true}, 0)
	require.NoError(t, err)
	assert.Equal(t, 31.5, got)

	got, err = Float(pgtype.Float8{}, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestFloatOrNeverErrors(t *testing.T) {
	assert.Equal(t, 10.0, FloatOr("not a number", 10.0))
	assert.Equal(t, 6.5, FloatOr("6.5", 0))
	assert.Equal(t, 0.0, FloatOr(nil, 0))
}
