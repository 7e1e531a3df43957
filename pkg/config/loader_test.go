package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/telegraph/pkg/config"
)

type defaultsConfig struct {
	Name         string        `env:"FSM_DEFAULT_NAME" envDefault:"telegraph"`
	IdleInterval time.Duration `env:"FSM_DEFAULT_IDLE" envDefault:"1s"`
	Buffer       int           `env:"FSM_DEFAULT_BUFFER" envDefault:"16"`
}

type cachedConfig struct {
	Value string `env:"FSM_CACHED_VALUE" envDefault:"first"`
}

type requiredConfig struct {
	Path string `env:"FSM_REQUIRED_PATH,required"`
}

type fileConfig struct {
	Name     string        `env:"FSM_TEST_NAME"`
	Idle     time.Duration `env:"FSM_TEST_IDLE"`
	Priority string        `env:"FSM_TEST_PRIORITY"`
	Unique   string        `env:"FSM_TEST_UNIQUE"`
}

func TestLoad_Defaults(t *testing.T) {
	config.ResetCache()

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "telegraph", cfg.Name)
	assert.Equal(t, time.Second, cfg.IdleInterval)
	assert.Equal(t, 16, cfg.Buffer)
}

func TestLoad_Cached(t *testing.T) {
	config.ResetCache()
	t.Setenv("FSM_CACHED_VALUE", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("FSM_CACHED_VALUE", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value, "second Load should be served from cache")

	var reloaded cachedConfig
	require.NoError(t, config.ForceReload(&reloaded))
	assert.Equal(t, "second", reloaded.Value)
}

func TestLoad_Required(t *testing.T) {
	config.ResetCache()
	os.Unsetenv("FSM_REQUIRED_PATH")

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)

	assert.Panics(t, func() {
		var again requiredConfig
		config.MustLoad(&again)
	})

	t.Setenv("FSM_REQUIRED_PATH", "graph.yaml")
	require.NoError(t, config.ForceReload(&cfg))
	assert.Equal(t, "graph.yaml", cfg.Path)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	assert.ErrorIs(t, config.ForceReload(cfg), config.ErrNilPointer)
}

func TestLoadEnv_Files(t *testing.T) {
	for _, k := range []string{"FSM_TEST_NAME", "FSM_TEST_IDLE", "FSM_TEST_PRIORITY", "FSM_TEST_UNIQUE"} {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range []string{"FSM_TEST_NAME", "FSM_TEST_IDLE", "FSM_TEST_PRIORITY", "FSM_TEST_UNIQUE"} {
			os.Unsetenv(k)
		}
	})
	config.ResetCache()

	require.NoError(t, config.LoadEnv("testdata/.env.custom", "testdata/.env.override"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, 250*time.Millisecond, cfg.Idle)
	assert.Equal(t, "override value", cfg.Priority)
	assert.Equal(t, "unique_to_override", cfg.Unique)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	err := config.LoadEnv("testdata/does_not_exist.env")
	require.ErrorIs(t, err, config.ErrLoadingEnvFile)

	assert.Panics(t, func() {
		config.MustLoadEnv("testdata/does_not_exist.env")
	})
}
