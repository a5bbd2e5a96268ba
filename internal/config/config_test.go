package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("INGREDIENT_MAX_AMOUNT", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 50, cfg.IngredientMaxAmount)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, "foodgram.db", cfg.DatabaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("INGREDIENT_MAX_AMOUNT", "50000")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50000, cfg.IngredientMaxAmount)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"bad duration":   {"JWT_TTL", "soon"},
		"zero amount":    {"INGREDIENT_MAX_AMOUNT", "0"},
		"non-int amount": {"INGREDIENT_MAX_AMOUNT", "fifty"},
		"zero page size": {"PAGE_SIZE", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
