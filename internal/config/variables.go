package config

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/meetcute/meetcute-setup/internal/envstore"
)

// Variable names recognised by the backend.
const (
	NodeEnv       = "NODE_ENV"
	Port          = "PORT"
	JWTSecret     = "JWT_SECRET"
	FrontendURL   = "FRONTEND_URL"
	DBHost        = "DB_HOST"
	DBPort        = "DB_PORT"
	DBName        = "DB_NAME"
	DBUser        = "DB_USER"
	DBPassword    = "DB_PASSWORD"
	DatabaseURL   = "DATABASE_URL"
	EmailHost     = "EMAIL_HOST"
	EmailPort     = "EMAIL_PORT"
	EmailUser     = "EMAIL_USER"
	EmailPassword = "EMAIL_PASSWORD"
	EmailFrom     = "EMAIL_FROM"
)

// ProductionMode is the NODE_ENV value that turns on TLS for database
// connections.
const ProductionMode = "production"

// VariableSpec describes one recognised variable. It is documentation for
// the menu and the wizard; parsing never enforces it.
type VariableSpec struct {
	Name        string
	Default     string
	Required    bool
	Description string
}

// RequiredKeys is the fixed set checked by Validate, in report order.
var RequiredKeys = []string{
	NodeEnv, Port, JWTSecret, FrontendURL,
	DBHost, DBPort, DBName, DBUser, DBPassword,
}

// Variables returns the recognised variables. JWT_SECRET gets a freshly
// generated default on every call.
func Variables() []VariableSpec {
	return []VariableSpec{
		{NodeEnv, "development", true, "runtime mode (development|production)"},
		{Port, "5000", true, "HTTP listen port"},
		{JWTSecret, generateSecret(), true, "HMAC key for signing tokens"},
		{FrontendURL, "http://localhost:5173", true, "allowed CORS origin"},
		{DBHost, "localhost", true, "PostgreSQL host"},
		{DBPort, "5432", true, "PostgreSQL port"},
		{DBName, "meetcute", true, "application database"},
		{DBUser, "postgres", true, "database role"},
		{DBPassword, "postgres", true, "database password"},
		{DatabaseURL, "", false, "postgres:// URL, overrides the DB_* fields"},
		{EmailHost, "smtp.gmail.com", false, "SMTP host"},
		{EmailPort, "587", false, "SMTP port"},
		{EmailUser, "", false, "SMTP user"},
		{EmailPassword, "", false, "SMTP password"},
		{EmailFrom, "noreply@meetcute.app", false, "sender address"},
	}
}

// ApplyDefaults sets every required variable that is absent or empty in m to
// its default and returns the names it filled, in RequiredKeys order.
func ApplyDefaults(m *envstore.Map) []string {
	var filled []string
	for _, v := range Variables() {
		if !v.Required {
			continue
		}
		if cur, ok := m.Get(v.Name); ok && cur != "" {
			continue
		}
		m.Set(v.Name, v.Default)
		filled = append(filled, v.Name)
	}
	return filled
}

// generateSecret returns 32 random bytes hex-encoded.
func generateSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read does not fail on supported platforms
		panic(err)
	}
	return hex.EncodeToString(b)
}
