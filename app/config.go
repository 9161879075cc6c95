package app

import (
	"os"

	"github.com/dan13ram/fundraiser-escrow/common"
	"github.com/dan13ram/fundraiser-escrow/models"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

var (
	Config models.Config
)

func readConfigFromConfigFile(configFile string) bool {
	if configFile == "" {
		log.Debug("[CONFIG] No config file provided")
		return false
	}

	log.Debug("[CONFIG] Reading config file: ", configFile)
	yamlFile, err := os.ReadFile(configFile)
	if err != nil {
		log.Fatalf("[CONFIG] Error reading config file %q: %s\n", configFile, err.Error())
	}

	err = yaml.Unmarshal(yamlFile, &Config)
	if err != nil {
		log.Fatalf("[CONFIG] Error unmarshalling config file %q: %s\n", configFile, err.Error())
	}

	log.Debug("[CONFIG] Config loaded from file")
	return true
}

func InitConfig(configFile string, envFile string) {
	log.Debug("[CONFIG] Initializing config")
	readConfigFromConfigFile(configFile)
	readConfigFromENV(envFile)
	readSecretsFromGSM()
	applyDefaults()
	validateConfig()
	log.Info("[CONFIG] Config initialized")
}

func applyDefaults() {
	if Config.MongoDB.TimeoutMillis == 0 {
		Config.MongoDB.TimeoutMillis = 2000
	}
	if Config.Redis.Channel == "" {
		Config.Redis.Channel = "fundraiser-events"
	}
	if Config.API.ListenAddr == "" {
		Config.API.ListenAddr = ":8080"
	}
	if Config.API.SignatureTTLMillis == 0 {
		Config.API.SignatureTTLMillis = 5 * 60 * 1000
	}
	if Config.API.ShutdownTimeoutMillis == 0 {
		Config.API.ShutdownTimeoutMillis = 5000
	}
	if Config.Program.InstanceID == "" {
		hostname, _ := os.Hostname()
		Config.Program.InstanceID = hostname
	}
}

func validateConfig() {
	log.Debug("[CONFIG] Validating config")
	// mongodb
	if Config.MongoDB.URI == "" {
		log.Fatal("[CONFIG] MongoDB.URI is required")
	}
	if Config.MongoDB.Database == "" {
		log.Fatal("[CONFIG] MongoDB.Database is required")
	}
	if Config.MongoDB.TimeoutMillis <= 0 {
		log.Fatal("[CONFIG] MongoDB.TimeoutMillis is invalid")
	}

	// program
	if Config.Program.ProgramID == "" {
		log.Fatal("[CONFIG] Program.ProgramID is required")
	}
	if !common.IsValidAddress(Config.Program.ProgramID) {
		log.Fatal("[CONFIG] Program.ProgramID is invalid")
	}

	// redis
	if Config.Redis.Enabled && Config.Redis.Addr == "" {
		log.Fatal("[CONFIG] Redis.Addr is required")
	}

	// api
	if Config.API.Enabled {
		if Config.API.SignatureTTLMillis <= 0 {
			log.Fatal("[CONFIG] API.SignatureTTLMillis is invalid")
		}
	}

	// contributor sweeper
	if Config.ContributorSweeper.Enabled && Config.ContributorSweeper.IntervalMillis <= 0 {
		log.Fatal("[CONFIG] ContributorSweeper.IntervalMillis is invalid")
	}

	// health check
	if Config.HealthCheck.IntervalMillis <= 0 {
		log.Fatal("[CONFIG] HealthCheck.IntervalMillis is invalid")
	}

	log.Debug("[CONFIG] Config validated")
}
