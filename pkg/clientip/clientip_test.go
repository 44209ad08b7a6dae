package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/salesdesk/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "forwarded for takes the first entry",
			headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"},
			want:    "1.2.3.4",
		},
		{
			name:    "forwarded for single entry trimmed",
			headers: map[string]string{"X-Forwarded-For": "  10.0.0.1  "},
			want:    "10.0.0.1",
		},
		{
			name:    "real ip when no forwarded for",
			headers: map[string]string{"X-Real-IP": "9.9.9.9"},
			want:    "9.9.9.9",
		},
		{
			name: "forwarded for wins over real ip",
			headers: map[string]string{
				"X-Forwarded-For": "1.2.3.4",
				"X-Real-IP":       "9.9.9.9",
			},
			want: "1.2.3.4",
		},
		{
			name:    "no headers",
			headers: nil,
			want:    clientip.Unknown,
		},
		{
			name: "blank forwarded for resolves to unknown, not real ip",
			headers: map[string]string{
				"X-Forwarded-For": "  ,5.6.7.8",
				"X-Real-IP":       "9.9.9.9",
			},
			want: clientip.Unknown,
		},
		{
			name:    "real ip is returned verbatim",
			headers: map[string]string{"X-Real-IP": " 9.9.9.9 "},
			want:    " 9.9.9.9 ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}
