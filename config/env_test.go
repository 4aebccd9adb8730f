package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, 99, MaxQuantityPerItem())
	assert.Equal(t, "products", ProductUploadPath())
	assert.Equal(t, 2*time.Hour, SessionTTL())
}

func TestAppKeyHasNoBuiltInDefault(t *testing.T) {
	t.Setenv("APP_KEY", "")
	assert.Empty(t, AppKey())

	t.Setenv("APP_KEY", "s3cret")
	assert.Equal(t, "s3cret", AppKey())
}

func TestDatabaseDriverFallsBackToSQLite(t *testing.T) {
	Set("DB_DRIVER", "oracle")
	t.Cleanup(func() { Set("DB_DRIVER", defaultDatabaseDriver) })

	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
}

func TestDatabaseDSNPerDriver(t *testing.T) {
	Set("DB_DRIVER", "postgres")
	t.Cleanup(func() { Set("DB_DRIVER", defaultDatabaseDriver) })

	assert.Equal(t, defaultPostgresDSN, DatabaseDSN())
}

func TestLoadFromFilesLayersEnvOverJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"PRODUCT_UPLOAD_PATH":"from-json","MAX_QUANTITY_PER_ITEM":"12"}`), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("MAX_QUANTITY_PER_ITEM=7\n"), 0o600))

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() {
		Set("PRODUCT_UPLOAD_PATH", "products")
		Set("MAX_QUANTITY_PER_ITEM", 99)
	})

	assert.Equal(t, "from-json", ProductUploadPath())
	assert.Equal(t, 7, MaxQuantityPerItem())
}

func TestLoadFromFilesIgnoresMissing(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))
}
