package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduceWebApplicationType(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		values  map[string]string
		present []string
		want    WebApplicationType
		wantErr bool
	}{
		{
			name:    "servlet marker wins",
			present: []string{"confboot.web.servlet.Dispatcher", "confboot.web.reactive.HTTPHandler"},
			want:    WebApplicationServlet,
		},
		{
			name:    "reactive only",
			present: []string{"confboot.web.reactive.HTTPHandler"},
			want:    WebApplicationReactive,
		},
		{
			name:    "no markers",
			present: nil,
			want:    WebApplicationNone,
		},
		{
			name:    "override beats markers",
			values:  map[string]string{WebApplicationTypeProperty: "none"},
			present: []string{"confboot.web.servlet.Dispatcher"},
			want:    WebApplicationNone,
		},
		{
			name:    "invalid override",
			values:  map[string]string{WebApplicationTypeProperty: "graphql"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := DeduceWebApplicationType(binderOver(tc.values), classifierOf(tc.present...))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestOnWebApplication(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		required WebApplicationType
		actual   WebApplicationType
		want     bool
	}{
		{name: "exact servlet match", required: WebApplicationServlet, actual: WebApplicationServlet, want: true},
		{name: "servlet against reactive", required: WebApplicationServlet, actual: WebApplicationReactive, want: false},
		{name: "any accepts servlet", required: WebApplicationAny, actual: WebApplicationServlet, want: true},
		{name: "any accepts reactive", required: WebApplicationAny, actual: WebApplicationReactive, want: true},
		{name: "any rejects none", required: WebApplicationAny, actual: WebApplicationNone, want: false},
		{name: "empty required defaults to any", required: "", actual: WebApplicationServlet, want: true},
		{name: "none matches none", required: WebApplicationNone, actual: WebApplicationNone, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			outcome := OnWebApplication{Required: tc.required}.Matches(
				&Context{WebApplicationType: tc.actual})
			assert.Equal(t, tc.want, outcome.Matched)
		})
	}
}
