package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hotel-backoffice/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "s3cret")
	path := writeConfig(t, `
app:
  name: front-desk
database:
  driver: sqlite
  dsn: "file:hotel.db"
auth:
  jwt_secret: ${TEST_JWT_SECRET}
  lock_duration: 15m
mail:
  workers: 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "front-desk", cfg.App.Name)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockDuration)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 4, cfg.Mail.Workers)
	assert.Equal(t, 3, cfg.Mail.MaxRetries)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "hotel.lifecycle", cfg.Kafka.Topic)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestValidate(t *testing.T) {
	t.Run("MissingSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		cfg := &Config{Database: DatabaseConfig{Driver: "mongo"}, Auth: AuthConfig{JWTSecret: "x"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("SqliteNeedsDSN", func(t *testing.T) {
		cfg := &Config{Database: DatabaseConfig{Driver: "sqlite"}, Auth: AuthConfig{JWTSecret: "x"}}
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "app: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestMySQLDSNFromURL(t *testing.T) {
	dsn, name, err := mysqlDSNFromURL("mysql://hotel:pw@db.internal/hotel_db")
	require.NoError(t, err)
	assert.Equal(t, "hotel_db", name)
	assert.Contains(t, dsn, "hotel:pw@tcp(db.internal:3306)/hotel_db?")
	assert.Contains(t, dsn, "parseTime=True")

	_, _, err = mysqlDSNFromURL("mysql://hotel:pw@db.internal/")
	assert.Error(t, err)
}

func TestResolveMySQLDSNFromParts(t *testing.T) {
	t.Setenv("MYSQL_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASS", "pw")
	t.Setenv("DB_HOST", "mysql")
	t.Setenv("DB_NAME", "frontdesk")

	dsn, name, err := resolveMySQLDSN()
	require.NoError(t, err)
	assert.Equal(t, "frontdesk", name)
	assert.Equal(t, "app:pw@tcp(mysql:3306)/frontdesk?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
}

func TestMigrateAndSeed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:seedtest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDatabase(db) })

	require.NoError(t, Migrate(db))

	auth := AuthConfig{AdminEmail: "Boss@Hotel.Local", AdminPassword: "changeme"}
	SeedDatabase(db, auth, zerolog.Nop())
	SeedDatabase(db, auth, zerolog.Nop())

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "boss@hotel.local", admins[0].Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("changeme")))

	var types []models.RoomType
	require.NoError(t, db.Find(&types).Error)
	assert.Len(t, types, 4)
	assert.Contains(t, []string(types[0].Amenities), "wifi")
}
