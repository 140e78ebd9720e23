package config

type DatabaseConfig interface {
	GetDatabaseURL() string
	GetTokenStoreBackend() string
}

type Database struct{}

var _ DatabaseConfig = Database{}

func (Database) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}

// GetTokenStoreBackend selects where moderator refresh tokens are kept:
// "postgres" (default) or "memory" for local development without a database.
func (Database) GetTokenStoreBackend() string {
	return GetEnv("MODTOKEN_BACKEND", "postgres")
}
