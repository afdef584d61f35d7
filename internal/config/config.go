package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	// Base URL of the public validation page; the certificate QR encodes
	// ValidationBaseURL + "?code=<code>".
	ValidationBaseURL string

	// Where rendered certificate PDFs are archived.
	ArchiveDriver   string // fs|none
	ArchiveBasePath string

	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt

	// Operator notifications on certificate issuance.
	SendgridAPIKey string
	OpsInboxEmail  string
	FromEmail      string
	FromName       string

	CORSOrigins []string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	pub := envOr("PUBLIC_URL", "https://arsenal.ativbrasil.com.br")
	return Config{
		HTTPAddr:          addr,
		PublicURL:         pub,
		DBDriver:          envOr("DB_DRIVER", "sqlite"),
		DBDSN:             envOr("DB_DSN", ""),
		ValidationBaseURL: envOr("VALIDATION_BASE_URL", strings.TrimSuffix(pub, "/")+"/validar"),
		ArchiveDriver:     envOr("ARCHIVE_DRIVER", "fs"),
		ArchiveBasePath:   envOr("ARCHIVE_BASE_PATH", "./data/certificados"),
		AuthSecret:        envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:         envOr("ADMIN_USER", "admin"),
		AdminPassHash:     envOr("ADMIN_PASS_HASH", ""),
		SendgridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		OpsInboxEmail:     envOr("OPS_INBOX_EMAIL", "operacoes@ativbrasil.com.br"),
		FromEmail:         envOr("FROM_EMAIL", "no-reply@ativbrasil.com.br"),
		FromName:          envOr("FROM_NAME", "ATIV Brasil Arsenal"),
		CORSOrigins:       csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
