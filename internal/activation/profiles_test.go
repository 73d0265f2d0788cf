package activation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/confboot/internal/binder"
	"github.com/vk/confboot/internal/propsource"
)

func binderOver(values map[string]string) *binder.Binder {
	src := propsource.NewMapSource("test")
	for k, v := range values {
		src.Add(k, v, propsource.DescribedOrigin("test"))
	}
	return binder.New([]propsource.Source{src})
}

func TestBindProfiles(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		values       map[string]string
		additional   []string
		wantAccepted []string
	}{
		{
			name:         "defaults when nothing activated",
			values:       nil,
			wantAccepted: []string{"default"},
		},
		{
			name:         "active list",
			values:       map[string]string{"profiles.active": "dev,local"},
			wantAccepted: []string{"dev", "local"},
		},
		{
			name:         "include appended after active",
			values:       map[string]string{"profiles.active": "dev", "profiles.include": "debug"},
			wantAccepted: []string{"dev", "debug"},
		},
		{
			name:         "additional profiles appended",
			values:       map[string]string{"profiles.active": "dev"},
			additional:   []string{"extra"},
			wantAccepted: []string{"dev", "extra"},
		},
		{
			name:         "custom defaults",
			values:       map[string]string{"profiles.default": "base"},
			wantAccepted: []string{"base"},
		},
		{
			name: "groups expand after their group",
			values: map[string]string{
				"profiles.active":        "prod",
				"profiles.group.prod":    "proddb,prodmq",
				"profiles.group.proddb":  "metrics",
			},
			wantAccepted: []string{"prod", "proddb", "metrics", "prodmq"},
		},
		{
			name: "group cycles visit once",
			values: map[string]string{
				"profiles.active":    "a",
				"profiles.group.a":   "b",
				"profiles.group.b":   "a",
			},
			wantAccepted: []string{"a", "b"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			profiles, err := BindProfiles(binderOver(tc.values), tc.additional)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAccepted, profiles.Accepted())
		})
	}
}

func TestProfiles_IsAcceptedIsRelaxed(t *testing.T) {
	t.Parallel()

	profiles, err := BindProfiles(binderOver(map[string]string{"profiles.active": "cloud-dev"}), nil)
	require.NoError(t, err)
	assert.True(t, profiles.IsAccepted("clouddev"), "profile comparison goes through canonical names")
	assert.False(t, profiles.IsAccepted("prod"))
}

func TestDetectCloudPlatform(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		values map[string]string
		want   CloudPlatform
	}{
		{name: "none detected", values: nil, want: CloudPlatformNone},
		{
			name: "kubernetes from service env",
			values: map[string]string{
				"kubernetes.service.host": "10.0.0.1",
				"kubernetes.service.port": "443",
			},
			want: CloudPlatformKubernetes,
		},
		{
			name:   "cloud foundry from vcap",
			values: map[string]string{"vcap.application": "{}"},
			want:   CloudPlatformCloudFoundry,
		},
		{
			name:   "heroku from dyno",
			values: map[string]string{"dyno": "web.1"},
			want:   CloudPlatformHeroku,
		},
		{
			name: "override wins over detection",
			values: map[string]string{
				"main.cloud-platform":     "heroku",
				"kubernetes.service.host": "10.0.0.1",
				"kubernetes.service.port": "443",
			},
			want: CloudPlatformHeroku,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			platform, err := DetectCloudPlatform(binderOver(tc.values))
			require.NoError(t, err)
			assert.Equal(t, tc.want, platform)
		})
	}
}

func TestDetectCloudPlatform_InvalidOverride(t *testing.T) {
	t.Parallel()

	_, err := DetectCloudPlatform(binderOver(map[string]string{"main.cloud-platform": "lunar"}))
	require.Error(t, err)
}
