package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
		code   int
	}{
		{"validation", Validation("bad input"), 400, 40000},
		{"unauthorized", Unauthorized("no token"), 401, 40100},
		{"forbidden", Forbidden("wrong role"), 403, 40300},
		{"not found", NotFound("missing %s", "thing"), 404, 40400},
		{"duplicate", DuplicateEntry("again"), 409, 40900},
		{"insufficient stock", InsufficientStock("SP-1", "Delhi", 5, 2), 422, 42200},
		{"over issuance", OverIssuance("SP-1", 3), 422, 42201},
		{"internal", Internal("boom"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestInsufficientStockMessage(t *testing.T) {
	err := InsufficientStock("SP-9", "South", 5, 2)
	assert.Contains(t, err.Message, "SP-9")
	assert.Contains(t, err.Message, "South")
}

func TestFromUnwrapsTypedErrors(t *testing.T) {
	typed := NotFound("gone")
	wrapped := fmt.Errorf("loading record: %w", typed)

	got := From(wrapped)
	assert.Equal(t, 40400, got.Code)
}

func TestFromTranslatesDuplicateKey(t *testing.T) {
	wrapped := fmt.Errorf("insert dispatch item: %w", gorm.ErrDuplicatedKey)

	got := From(wrapped)
	assert.Equal(t, 409, got.Status)
	assert.Equal(t, 40900, got.Code)
}

func TestFromOpaqueError(t *testing.T) {
	got := From(errors.New("pq: connection refused"))
	assert.Equal(t, 500, got.Status)
	assert.Equal(t, 50000, got.Code)
}
