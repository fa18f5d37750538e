package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/ivrit/internal/lookup"
	"codeberg.org/snonux/ivrit/internal/testutil"
)

type stubSource map[string]lookup.Result

func (s stubSource) Translate(ctx context.Context, word string) lookup.Result {
	if r, ok := s[word]; ok {
		return r
	}
	return lookup.NotFound()
}

func TestFallback_FoundSkipsExternal(t *testing.T) {
	api := &testutil.MockTranslator{}
	f := NewFallback(stubSource{"שלום": lookup.Found("мир")}, api, "iw", "ru", nil)

	got := f.Translate(context.Background(), "שלום")

	assert.Equal(t, lookup.Found("мир"), got)
	assert.Empty(t, api.Calls)
}

func TestFallback_NotFoundAsksExternal(t *testing.T) {
	api := &testutil.MockTranslator{Translations: map[string]string{"גדול/ה": " большой/ая "}}
	f := NewFallback(stubSource{}, api, "iw", "ru", nil)

	got := f.Translate(context.Background(), "גדול/ה")

	require.True(t, got.IsFound())
	assert.Equal(t, "большой/ая", got.Value)
	assert.Equal(t, []string{"Translate: גדול/ה (iw->ru)"}, api.Calls)
}

func TestFallback_FailurePassesThrough(t *testing.T) {
	api := &testutil.MockTranslator{}
	primaryErr := errors.New("connection reset")
	f := NewFallback(stubSource{"שלום": lookup.Failed(primaryErr)}, api, "iw", "ru", nil)

	got := f.Translate(context.Background(), "שלום")

	assert.Equal(t, lookup.StatusFailed, got.Status)
	assert.ErrorIs(t, got.Err, primaryErr)
	assert.Empty(t, api.Calls)
}

func TestFallback_ExternalError(t *testing.T) {
	apiErr := errors.New("quota exceeded")
	api := &testutil.MockTranslator{Errors: map[string]error{"שלום": apiErr}}
	f := NewFallback(stubSource{}, api, "iw", "ru", nil)

	got := f.Translate(context.Background(), "שלום")

	require.Equal(t, lookup.StatusFailed, got.Status)
	assert.ErrorIs(t, got.Err, apiErr)
	assert.Contains(t, got.Err.Error(), "mock translation failed")
}

func TestFallback_ExternalEmpty(t *testing.T) {
	api := &testutil.MockTranslator{Translations: map[string]string{"שלום": "  "}}
	f := NewFallback(stubSource{}, api, "iw", "ru", nil)

	got := f.Translate(context.Background(), "שלום")

	assert.Equal(t, lookup.StatusNotFound, got.Status)
}

func TestFallback_NilExternal(t *testing.T) {
	f := NewFallback(stubSource{}, nil, "iw", "ru", nil)

	got := f.Translate(context.Background(), "שלום")

	assert.Equal(t, lookup.StatusNotFound, got.Status)
}
