package lookup

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	found := Found("шалом")
	assert.True(t, found.IsFound())
	assert.Equal(t, "шалом", found.Text())
	assert.NoError(t, found.Err)

	missing := NotFound()
	assert.False(t, missing.IsFound())
	assert.Equal(t, "", missing.Text())
	assert.Equal(t, StatusNotFound, missing.Status)

	cause := errors.New("boom")
	failed := Failed(cause)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.ErrorIs(t, failed.Err, cause)
	assert.Equal(t, "", failed.Text())

	assert.Error(t, Failed(nil).Err)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "found", StatusFound.String())
	assert.Equal(t, "not found", StatusNotFound.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", Status(42).String())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{"clean found", Found("x"), ""},
		{"partial found", Found("x").WithErr(errors.New("b: status 500")), "partial: b: status 500"},
		{"not found", NotFound(), "not found"},
		{"failed", Failed(errors.New("status 503")), "failed: status 503"},
		{"multi line error", Failed(errors.Join(errors.New("a"), errors.New("b"))), "failed: a; b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Describe())
		})
	}
}

func TestJoin(t *testing.T) {
	skipped := errors.New("skipped")
	cause := errors.New("status 502")

	tests := []struct {
		name       string
		parts      []Result
		wantStatus Status
		wantValue  string
		wantErr    bool
	}{
		{
			name:       "all found",
			parts:      []Result{Found("гадоль"), Found("гдола")},
			wantStatus: StatusFound,
			wantValue:  "гадоль / гдола",
		},
		{
			name:       "partial errors are kept",
			parts:      []Result{Found("гадоль").WithErr(skipped), Found("гдола")},
			wantStatus: StatusFound,
			wantValue:  "гадоль / гдола",
			wantErr:    true,
		},
		{
			name:       "first part not found",
			parts:      []Result{NotFound(), Failed(cause)},
			wantStatus: StatusNotFound,
		},
		{
			name:       "second part failed",
			parts:      []Result{Found("гадоль"), Failed(cause)},
			wantStatus: StatusFailed,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Join(" / ", tt.parts...)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantValue, got.Value)
			assert.Equal(t, tt.wantErr, got.Err != nil)
		})
	}
}
