package app

import (
	"context"
	"os"
	"time"

	"github.com/dan13ram/fundraiser-escrow/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	HealthServiceName = "HEALTH"
)

type HealthCheckRunner struct {
	instanceID string
	hostname   string
	programID  string
	services   []Service
}

func (x *HealthCheckRunner) Run() {
	x.PostHealth()
}

func (x *HealthCheckRunner) Status() models.RunnerStatus {
	return models.RunnerStatus{}
}

func (x *HealthCheckRunner) FindLastHealth() (models.Health, error) {
	var health models.Health
	filter := bson.M{
		"instance_id": x.instanceID,
		"hostname":    x.hostname,
	}
	err := DB.FindOne(context.Background(), models.CollectionHealthChecks, filter, &health)
	return health, err
}

func (x *HealthCheckRunner) ServiceHealths() []models.ServiceHealth {
	var serviceHealths []models.ServiceHealth
	for _, service := range x.services {
		health := service.Health()
		if health.Name == EmptyServiceName {
			continue
		}
		serviceHealths = append(serviceHealths, health)
	}
	return serviceHealths
}

func (x *HealthCheckRunner) PostHealth() bool {
	log.Debug("[HEALTH] Posting health")

	filter := bson.M{
		"instance_id": x.instanceID,
		"hostname":    x.hostname,
	}

	onInsert := bson.M{
		"instance_id": x.instanceID,
		"hostname":    x.hostname,
		"created_at":  time.Now(),
	}

	serviceHealths := x.ServiceHealths()
	healthy := true
	for _, health := range serviceHealths {
		healthy = healthy && health.Healthy
	}

	onUpdate := bson.M{
		"program_id":      x.programID,
		"healthy":         healthy,
		"service_healths": serviceHealths,
		"updated_at":      time.Now(),
	}

	update := bson.M{"$set": onUpdate, "$setOnInsert": onInsert}

	if _, err := DB.UpsertOne(context.Background(), models.CollectionHealthChecks, filter, update); err != nil {
		log.Error("[HEALTH] Error posting health: ", err)
		return false
	}

	log.Info("[HEALTH] Posted health")
	return true
}

func (x *HealthCheckRunner) SetServices(services []Service) {
	x.services = services
}

func NewHealthCheck() *HealthCheckRunner {
	log.Debug("[HEALTH] Initializing health")

	hostname, err := os.Hostname()
	if err != nil {
		log.Fatal("[HEALTH] Error getting hostname: ", err)
	}

	x := &HealthCheckRunner{
		instanceID: Config.Program.InstanceID,
		hostname:   hostname,
		programID:  Config.Program.ProgramID,
	}

	log.Info("[HEALTH] Initialized health")

	return x
}
