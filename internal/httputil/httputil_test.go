package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neboloop/mindsort/internal/model"
)

type parseTarget struct {
	ID     string `path:"id" json:"-"`
	Period string `form:"period" json:"period"`
	Input  string `json:"input"`
}

func TestParse(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/tasks/abc?period=weekly", strings.NewReader(`{"input":"hello"}`))
	r.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "abc")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	var got parseTarget
	require.NoError(t, Parse(r, &got))
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, "weekly", got.Period)
	assert.Equal(t, "hello", got.Input)
}

func TestParse_BadJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"input":`))
	var got parseTarget
	err := Parse(r, &got)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestParse_BodyTooLarge(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"input":"`+strings.Repeat("a", 64)+`"}`))
	w := httptest.NewRecorder()
	r.Body = http.MaxBytesReader(w, r.Body, 16)

	var got parseTarget
	err := Parse(r, &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidInput)
	assert.Equal(t, http.StatusRequestEntityTooLarge, StatusFor(err))

	WriteError(w, r, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("%w: task 1", model.ErrForbidden), http.StatusForbidden},
		{model.ErrNotFound, http.StatusNotFound},
		{model.ErrInvalidInput, http.StatusBadRequest},
		{model.ErrSessionFinalized, http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), "%v", tt.err)
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	WriteError(w, r, errors.New("sqlite: database is locked"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, GenericFailure, resp.Message)

	w = httptest.NewRecorder()
	WriteError(w, r, fmt.Errorf("%w: task 1", model.ErrForbidden))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "task 1")
}
