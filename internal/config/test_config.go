package config

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8081,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "passport_test",
			User:     "test_user",
			Password: "test_password",
		},
		JWT: JWTConfig{
			Secret: "test-signing-secret",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		},
		Audit: AuditConfig{
			Buffer:           16,
			ArchiveAfterDays: 1,
		},
	}
}
