package config

// RedisConfig contains Redis configuration for the shared session store.
type RedisConfig struct {
	// URI is either host:port or a redis:// / rediss:// URL.
	URI      string `env:"URI"      envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
