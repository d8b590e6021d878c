package service

import (
	"testing"
)

func TestResolveCode(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantCode     string
		wantTestMode bool
	}{
		{
			name:         "plain code",
			raw:          "emma",
			wantCode:     "emma",
			wantTestMode: false,
		},
		{
			name:         "test suffix stripped",
			raw:          "emmatest",
			wantCode:     "emma",
			wantTestMode: true,
		},
		{
			name:         "suffix check is case-insensitive",
			raw:          "emmaTEST",
			wantCode:     "emma",
			wantTestMode: true,
		},
		{
			name:         "bare suffix is test mode with an empty code",
			raw:          "test",
			wantCode:     "",
			wantTestMode: true,
		},
		{
			name:         "surrounding whitespace trimmed",
			raw:          "  emma  ",
			wantCode:     "emma",
			wantTestMode: false,
		},
		{
			name:         "code one longer than suffix",
			raw:          "xtest",
			wantCode:     "x",
			wantTestMode: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, testMode := ResolveCode(tt.raw)
			if code != tt.wantCode {
				t.Errorf("ResolveCode(%q) code = %q, want %q", tt.raw, code, tt.wantCode)
			}
			if testMode != tt.wantTestMode {
				t.Errorf("ResolveCode(%q) testMode = %v, want %v", tt.raw, testMode, tt.wantTestMode)
			}
		})
	}
}
