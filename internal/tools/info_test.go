// internal/tools/info_test.go
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-sales-assistant/internal/knowledge"
)

// fakeStore returns scripted passages for every query.
type fakeStore struct {
	passages []knowledge.Passage
	err      error
	lastTopK int
}

func (f *fakeStore) Search(_ context.Context, _ string, topK int, _ map[string]string) ([]knowledge.Passage, error) {
	f.lastTopK = topK
	return f.passages, f.err
}

func TestCompanyInfoTool_Invoke(t *testing.T) {
	store := &fakeStore{passages: []knowledge.Passage{
		{Content: "Ofrecemos garantía de 3 meses en todos los autos.", Score: 0.91},
	}}
	tool := NewCompanyInfoTool(store, 1500)

	out, err := tool.Invoke(context.Background(), json.RawMessage(`{"query": "garantía"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "garantía de 3 meses")
	assert.Equal(t, 1, store.lastTopK)
}

func TestCompanyInfoTool_NoResultsSignalsEmpty(t *testing.T) {
	tool := NewCompanyInfoTool(&fakeStore{}, 1500)

	// An empty string is the deliberate "retrieval found nothing" signal.
	out, err := tool.Invoke(context.Background(), json.RawMessage(`{"query": "algo rarísimo"}`))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCompanyInfoTool_StoreErrorBecomesApology(t *testing.T) {
	tool := NewCompanyInfoTool(&fakeStore{err: errors.New("connection refused")}, 1500)

	out, err := tool.Invoke(context.Background(), json.RawMessage(`{"query": "sucursales"}`))
	require.NoError(t, err)
	assert.Contains(t, out, "⚠️")
	assert.NotEmpty(t, out)
}

func TestCompanyInfoTool_TruncatesAtSentence(t *testing.T) {
	long := strings.Repeat("La empresa tiene muchas sucursales en México. ", 50)
	tool := NewCompanyInfoTool(&fakeStore{passages: []knowledge.Passage{{Content: long}}}, 500)

	out, err := tool.Invoke(context.Background(), json.RawMessage(`{"query": "sucursales"}`))
	require.NoError(t, err)

	assert.Less(t, len(out), len(long))
	assert.Contains(t, out, "¿Te gustaría que profundice en algún aspecto en particular?")
	// The cut lands on a sentence boundary, not mid-word.
	idx := strings.Index(out, ".\n\n")
	require.Greater(t, idx, 0)
	assert.Equal(t, "México", out[idx-len("México"):idx])
}

func TestAppointmentTool_Invoke(t *testing.T) {
	out, err := NewAppointmentTool().Invoke(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Contains(t, out, "Agenda tu Cita")
	assert.Contains(t, out, "Identificación oficial")
}
