package domain_test

import (
	"testing"

	"github.com/GrinlexGH/deps/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() *domain.Settings {
	s := domain.DefaultSettings().Resolve("/work")
	return &s
}

func TestRegistry_Add(t *testing.T) {
	tests := []struct {
		name        string
		job         domain.Job
		errContains string
	}{
		{
			name: "valid cmake",
			job:  domain.NewCMakeJob("SDL", "SDL3", "build", nil),
		},
		{
			name:        "empty source",
			job:         domain.NewCMakeJob("", "SDL3", "build", nil),
			errContains: domain.ErrEmptySourceSubdir.Error(),
		},
		{
			name:        "absolute install",
			job:         domain.NewCMakeJob("SDL", "/usr/local", "build", nil),
			errContains: domain.ErrPathEscapesRoot.Error(),
		},
		{
			name:        "escaping source",
			job:         domain.NewManualJob("../outside", "x", []domain.InstallRule{{Include: "*"}}),
			errContains: domain.ErrPathEscapesRoot.Error(),
		},
		{
			name:        "build folder escapes source",
			job:         domain.NewCMakeJob("SDL", "SDL3", "../build", nil),
			errContains: domain.ErrPathEscapesRoot.Error(),
		},
		{
			name:        "header without patterns",
			job:         domain.NewHeaderOnlyJob("glm", "glm", nil),
			errContains: domain.ErrNoPatterns.Error(),
		},
		{
			name:        "manual without rules",
			job:         domain.NewManualJob("sdk", "sdk", nil),
			errContains: domain.ErrNoInstallRules.Error(),
		},
		{
			name: "manual destination escapes",
			job: domain.NewManualJob("sdk", "sdk", []domain.InstallRule{
				{Include: "*.dll", Destination: "../../etc"},
			}),
			errContains: domain.ErrPathEscapesRoot.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.NewRegistry()
			err := r.Add(tt.job)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errContains)
				assert.Equal(t, 0, r.Len())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, r.Len())
		})
	}
}

func TestRegistry_AddDuplicate(t *testing.T) {
	r := domain.NewRegistry()
	require.NoError(t, r.Add(domain.NewCMakeJob("SDL", "SDL3", "build", nil)))
	err := r.Add(domain.NewCMakeJob("./SDL", "SDL3/", "other", nil))
	assert.ErrorContains(t, err, domain.ErrDuplicateJob.Error())
}

func TestRegistry_ValidateConflicts(t *testing.T) {
	tests := []struct {
		name    string
		jobs    []domain.Job
		wantErr bool
	}{
		{
			name: "disjoint roots",
			jobs: []domain.Job{
				domain.NewCMakeJob("SDL", "SDL3", "build", nil),
				domain.NewCMakeJob("glfw", "glfw", "build", nil),
				domain.NewHeaderOnlyJob("tinyobjloader", ".", []string{"tiny_obj_loader.h"}),
			},
		},
		{
			name: "manual jobs may share a root",
			jobs: []domain.Job{
				domain.NewManualJob("a", "shared", []domain.InstallRule{{Include: "*"}}),
				domain.NewManualJob("b", "shared", []domain.InstallRule{{Include: "*"}}),
			},
		},
		{
			name: "cmake into install dir itself",
			jobs: []domain.Job{
				domain.NewCMakeJob("SDL", ".", "build", nil),
			},
			wantErr: true,
		},
		{
			name: "cmake root shared with manual",
			jobs: []domain.Job{
				domain.NewCMakeJob("SDL", "SDL3", "build", nil),
				domain.NewManualJob("extra", "SDL3", []domain.InstallRule{{Include: "*"}}),
			},
			wantErr: true,
		},
		{
			name: "manual nested below cmake",
			jobs: []domain.Job{
				domain.NewCMakeJob("SDL", "SDL3", "build", nil),
				domain.NewManualJob("extra", "SDL3/plugins", []domain.InstallRule{{Include: "*"}}),
			},
			wantErr: true,
		},
		{
			name: "manual at install dir writing beside cmake",
			jobs: []domain.Job{
				domain.NewCMakeJob("SDL", "SDL3", "build", nil),
				domain.NewManualJob("SteamworksSDK", "", []domain.InstallRule{
					{Include: "public/steam/*.h", Destination: "include/steam"},
				}),
			},
		},
		{
			name: "manual at install dir writing into cmake root",
			jobs: []domain.Job{
				domain.NewCMakeJob("SDL", "SDL3", "build", nil),
				domain.NewManualJob("SteamworksSDK", ".", []domain.InstallRule{
					{Include: "public/steam/*.h", Destination: "include/steam"},
					{Include: "redistributable_bin/*.dll", Destination: "SDL3/bin"},
				}),
			},
			wantErr: true,
		},
		{
			name: "manual rule writing to install dir itself",
			jobs: []domain.Job{
				domain.NewCMakeJob("SDL", "SDL3", "build", nil),
				domain.NewManualJob("SteamworksSDK", "", []domain.InstallRule{{Include: "*.txt"}}),
			},
			wantErr: true,
		},
		{
			name: "cmake nested in header root",
			jobs: []domain.Job{
				domain.NewCMakeJob("glm", "header-only/glm", "build", nil),
				domain.NewHeaderOnlyJob("stb", ".", []string{"*.h"}),
			},
			wantErr: true,
		},
		{
			name: "prefix of name is not nesting",
			jobs: []domain.Job{
				domain.NewCMakeJob("SDL", "SDL3", "build", nil),
				domain.NewCMakeJob("SDL_image", "SDL3_image", "build", nil),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.NewRegistry()
			for _, j := range tt.jobs {
				require.NoError(t, r.Add(j))
			}
			err := r.Validate(testSettings())
			if tt.wantErr {
				assert.ErrorContains(t, err, domain.ErrConflictingInstallRoot.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRegistry_ValidateEmpty(t *testing.T) {
	err := domain.NewRegistry().Validate(testSettings())
	assert.ErrorContains(t, err, domain.ErrNoJobs.Error())
}

func TestRegistry_Lanes(t *testing.T) {
	r := domain.NewRegistry()
	require.NoError(t, r.Add(domain.NewCMakeJob("SDL", "SDL3", "build", nil)))
	require.NoError(t, r.Add(domain.NewHeaderOnlyJob("tinyobjloader", ".", []string{"tiny_obj_loader.h"})))
	require.NoError(t, r.Add(domain.NewManualJob("a", "shared", []domain.InstallRule{{Include: "*"}})))
	require.NoError(t, r.Add(domain.NewHeaderOnlyJob("stb", "stb", []string{"*.h"})))
	require.NoError(t, r.Add(domain.NewManualJob("b", "shared/sub", []domain.InstallRule{{Include: "*"}})))
	require.NoError(t, r.Add(domain.NewCMakeJob("glfw", "glfw", "build", nil)))

	lanes := r.Lanes(testSettings())
	assert.Equal(t, [][]int{{0}, {1, 3}, {2, 4}, {5}}, lanes)
}

func TestRegistry_LanesFollowRuleDestinations(t *testing.T) {
	r := domain.NewRegistry()
	require.NoError(t, r.Add(domain.NewCMakeJob("SDL", "SDL3", "build", nil)))
	require.NoError(t, r.Add(domain.NewManualJob("SteamworksSDK", "", []domain.InstallRule{
		{Include: "public/steam/*.h", Destination: "include/steam"},
	})))
	require.NoError(t, r.Add(domain.NewManualJob("imgui", "", []domain.InstallRule{
		{Include: "*.h", Destination: "include"},
	})))

	require.NoError(t, r.Validate(testSettings()))
	assert.Equal(t, [][]int{{0}, {1, 2}}, r.Lanes(testSettings()))
}

func TestRegistry_ValidateCacheInsideInstallRoot(t *testing.T) {
	settings := testSettings()
	settings.CacheDir = settings.InstallDir + "/SDL3/cache"

	r := domain.NewRegistry()
	require.NoError(t, r.Add(domain.NewCMakeJob("SDL", "SDL3", "build", nil)))

	err := r.Validate(settings)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCacheInsideInstallRoot.Error())

	settings.CacheDir = settings.InstallDir + "/SDL3-cache"
	require.NoError(t, r.Validate(settings))
}
