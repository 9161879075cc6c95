package app

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func readConfigFromENV(envFile string) {
	if envFile != "" {
		log.Debug("[ENV] Loading env file: ", envFile)
		err := godotenv.Load(envFile)
		if err != nil {
			log.Warn("[ENV] Error loading .env file: ", err.Error())
		}
	}

	// mongodb
	if os.Getenv("MONGODB_URI") != "" {
		Config.MongoDB.URI = os.Getenv("MONGODB_URI")
	}
	if os.Getenv("MONGODB_DATABASE") != "" {
		Config.MongoDB.Database = os.Getenv("MONGODB_DATABASE")
	}
	if os.Getenv("MONGODB_TIMEOUT_MS") != "" {
		timeoutMillis, err := strconv.ParseInt(os.Getenv("MONGODB_TIMEOUT_MS"), 10, 64)
		if err != nil {
			log.Warn("[ENV] Error parsing MONGODB_TIMEOUT_MS: ", err.Error())
		} else {
			Config.MongoDB.TimeoutMillis = timeoutMillis
		}
	}

	// redis
	if os.Getenv("REDIS_ENABLED") != "" {
		enabled, err := strconv.ParseBool(os.Getenv("REDIS_ENABLED"))
		if err != nil {
			log.Warn("[ENV] Error parsing REDIS_ENABLED: ", err.Error())
		} else {
			Config.Redis.Enabled = enabled
		}
	}
	if os.Getenv("REDIS_ADDR") != "" {
		Config.Redis.Addr = os.Getenv("REDIS_ADDR")
	}
	if os.Getenv("REDIS_PASSWORD") != "" {
		Config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
	if os.Getenv("REDIS_DB") != "" {
		db, err := strconv.Atoi(os.Getenv("REDIS_DB"))
		if err != nil {
			log.Warn("[ENV] Error parsing REDIS_DB: ", err.Error())
		} else {
			Config.Redis.DB = db
		}
	}
	if os.Getenv("REDIS_CHANNEL") != "" {
		Config.Redis.Channel = os.Getenv("REDIS_CHANNEL")
	}

	// api
	if os.Getenv("API_ENABLED") != "" {
		enabled, err := strconv.ParseBool(os.Getenv("API_ENABLED"))
		if err != nil {
			log.Warn("[ENV] Error parsing API_ENABLED: ", err.Error())
		} else {
			Config.API.Enabled = enabled
		}
	}
	if os.Getenv("API_LISTEN_ADDR") != "" {
		Config.API.ListenAddr = os.Getenv("API_LISTEN_ADDR")
	}
	if os.Getenv("API_SIGNATURE_TTL_MS") != "" {
		ttl, err := strconv.ParseInt(os.Getenv("API_SIGNATURE_TTL_MS"), 10, 64)
		if err != nil {
			log.Warn("[ENV] Error parsing API_SIGNATURE_TTL_MS: ", err.Error())
		} else {
			Config.API.SignatureTTLMillis = ttl
		}
	}

	// program
	if os.Getenv("PROGRAM_ID") != "" {
		Config.Program.ProgramID = os.Getenv("PROGRAM_ID")
	}
	if os.Getenv("INSTANCE_ID") != "" {
		Config.Program.InstanceID = os.Getenv("INSTANCE_ID")
	}

	// contributor sweeper
	if os.Getenv("CONTRIBUTOR_SWEEPER_ENABLED") != "" {
		enabled, err := strconv.ParseBool(os.Getenv("CONTRIBUTOR_SWEEPER_ENABLED"))
		if err != nil {
			log.Warn("[ENV] Error parsing CONTRIBUTOR_SWEEPER_ENABLED: ", err.Error())
		} else {
			Config.ContributorSweeper.Enabled = enabled
		}
	}
	if os.Getenv("CONTRIBUTOR_SWEEPER_INTERVAL_MS") != "" {
		intervalMillis, err := strconv.ParseInt(os.Getenv("CONTRIBUTOR_SWEEPER_INTERVAL_MS"), 10, 64)
		if err != nil {
			log.Warn("[ENV] Error parsing CONTRIBUTOR_SWEEPER_INTERVAL_MS: ", err.Error())
		} else {
			Config.ContributorSweeper.IntervalMillis = intervalMillis
		}
	}

	// health check
	if os.Getenv("HEALTH_CHECK_INTERVAL_MS") != "" {
		intervalMillis, err := strconv.ParseInt(os.Getenv("HEALTH_CHECK_INTERVAL_MS"), 10, 64)
		if err != nil {
			log.Warn("[ENV] Error parsing HEALTH_CHECK_INTERVAL_MS: ", err.Error())
		} else {
			Config.HealthCheck.IntervalMillis = intervalMillis
		}
	}
	if os.Getenv("HEALTH_CHECK_READ_LAST_HEALTH") != "" {
		readLastHealth, err := strconv.ParseBool(os.Getenv("HEALTH_CHECK_READ_LAST_HEALTH"))
		if err != nil {
			log.Warn("[ENV] Error parsing HEALTH_CHECK_READ_LAST_HEALTH: ", err.Error())
		} else {
			Config.HealthCheck.ReadLastHealth = readLastHealth
		}
	}

	// logging
	if os.Getenv("LOG_LEVEL") != "" {
		Config.Logger.Level = os.Getenv("LOG_LEVEL")
	}
	if os.Getenv("LOG_FORMAT") != "" {
		Config.Logger.Format = os.Getenv("LOG_FORMAT")
	}

	// google secret manager
	if os.Getenv("GOOGLE_SECRET_MANAGER_ENABLED") != "" {
		enabled, err := strconv.ParseBool(os.Getenv("GOOGLE_SECRET_MANAGER_ENABLED"))
		if err != nil {
			log.Warn("[ENV] Error parsing GOOGLE_SECRET_MANAGER_ENABLED: ", err.Error())
		} else {
			Config.GoogleSecretManager.Enabled = enabled
		}
	}
	if os.Getenv("GOOGLE_PROJECT_ID") != "" {
		Config.GoogleSecretManager.ProjectID = os.Getenv("GOOGLE_PROJECT_ID")
	}
	if os.Getenv("GOOGLE_MONGO_SECRET_NAME") != "" {
		Config.GoogleSecretManager.MongoSecretName = os.Getenv("GOOGLE_MONGO_SECRET_NAME")
	}
	if os.Getenv("GOOGLE_REDIS_SECRET_NAME") != "" {
		Config.GoogleSecretManager.RedisSecretName = os.Getenv("GOOGLE_REDIS_SECRET_NAME")
	}
}
