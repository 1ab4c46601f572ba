package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "PORT", "STORE_BACKEND", "CALENDAR_TIMEZONE", "DASHBOARD_ALLOWED_ORIGINS", "APPOINTMENT_EVENTS_MAXLEN"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, time.UTC, cfg.CalendarLocation)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:4173"}, cfg.DashboardAllowedOrigins)
	assert.Equal(t, int64(10000), cfg.Events.MaxLen)
	assert.False(t, cfg.IsProd())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "Postgres")
	t.Setenv("CALENDAR_TIMEZONE", "Asia/Shanghai")
	t.Setenv("DASHBOARD_ALLOWED_ORIGINS", " https://admin.example.com , ,http://localhost:3000")
	t.Setenv("APPOINTMENT_EVENTS_MAXLEN", "25")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	require.NotNil(t, cfg.CalendarLocation)
	assert.Equal(t, "Asia/Shanghai", cfg.CalendarLocation.String())
	assert.Equal(t, []string{"https://admin.example.com", "http://localhost:3000"}, cfg.DashboardAllowedOrigins)
	assert.Equal(t, int64(25), cfg.Events.MaxLen)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("CALENDAR_TIMEZONE", "Mars/Olympus")
	t.Setenv("APPOINTMENT_EVENTS_MAXLEN", "lots")

	cfg := Load()
	assert.Equal(t, time.UTC, cfg.CalendarLocation)
	assert.Equal(t, int64(10000), cfg.Events.MaxLen)
}

func TestLoad_MaxLenOutOfRangeFallsBack(t *testing.T) {
	for _, v := range []string{"99999999999999999999", "-5"} {
		t.Setenv("APPOINTMENT_EVENTS_MAXLEN", v)
		assert.Equal(t, int64(10000), Load().Events.MaxLen, v)
	}
}
