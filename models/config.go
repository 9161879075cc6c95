package models

type Config struct {
	GoogleSecretManager GoogleSecretManagerConfig `yaml:"google_secret_manager" json:"google_secret_manager"`
	HealthCheck         HealthCheckConfig         `yaml:"health_check" json:"health_check"`
	Logger              LoggerConfig              `yaml:"logger" json:"logger"`
	MongoDB             MongoConfig               `yaml:"mongodb" json:"mongo_db"`
	Redis               RedisConfig               `yaml:"redis" json:"redis"`
	API                 APIConfig                 `yaml:"api" json:"api"`
	Program             ProgramConfig             `yaml:"program" json:"program"`
	ContributorSweeper  ServiceConfig             `yaml:"contributor_sweeper" json:"contributor_sweeper"`
}

type GoogleSecretManagerConfig struct {
	Enabled         bool   `yaml:"enabled" json:"enabled"`
	ProjectID       string `yaml:"project_id" json:"project_id"`
	MongoSecretName string `yaml:"mongo_secret_name" json:"mongo_secret_name"`
	RedisSecretName string `yaml:"redis_secret_name" json:"redis_secret_name"`
}

type HealthCheckConfig struct {
	IntervalMillis int64 `yaml:"interval_ms" json:"interval_ms"`
	ReadLastHealth bool  `yaml:"read_last_health" json:"read_last_health"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type MongoConfig struct {
	URI           string `yaml:"uri" json:"uri"`
	Database      string `yaml:"database" json:"database"`
	TimeoutMillis int64  `yaml:"timeout_ms" json:"timeout_ms"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Channel  string `yaml:"channel" json:"channel"`
}

type APIConfig struct {
	Enabled               bool   `yaml:"enabled" json:"enabled"`
	ListenAddr            string `yaml:"listen_addr" json:"listen_addr"`
	ReadTimeoutMillis     int64  `yaml:"read_timeout_ms" json:"read_timeout_ms"`
	WriteTimeoutMillis    int64  `yaml:"write_timeout_ms" json:"write_timeout_ms"`
	SignatureTTLMillis    int64  `yaml:"signature_ttl_ms" json:"signature_ttl_ms"`
	ShutdownTimeoutMillis int64  `yaml:"shutdown_timeout_ms" json:"shutdown_timeout_ms"`
}

type ProgramConfig struct {
	ProgramID  string `yaml:"program_id" json:"program_id"`
	InstanceID string `yaml:"instance_id" json:"instance_id"`
}

type ServiceConfig struct {
	Enabled        bool  `yaml:"enabled" json:"enabled"`
	IntervalMillis int64 `yaml:"interval_ms" json:"interval_ms"`
}
