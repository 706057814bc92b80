package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("gone"), http.StatusNotFound},
		{InsufficientStock("Paracetamol", "S1", 3, 1), http.StatusConflict},
		{Conflict("dup"), http.StatusConflict},
		{Forbidden("nope"), http.StatusForbidden},
		{Unauthenticated("who"), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("order")), http.StatusNotFound},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), c.err.Error())
	}
}

func TestInsufficientStockNamesMedicineAndStore(t *testing.T) {
	err := InsufficientStock("Paracetamol", "Koramangala", 6, 5)
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.Contains(t, err.Error(), "Paracetamol")
	assert.Contains(t, err.Error(), "Koramangala")

	err = InsufficientStock("Ibuprofen", "", 2, 0)
	assert.Equal(t, "insufficient stock for Ibuprofen: requested 2, available 0", err.Error())
}

func TestPublicMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(errors.New("pq: connection refused")))
	assert.Equal(t, "order not found", PublicMessage(NotFound("order not found")))
}
