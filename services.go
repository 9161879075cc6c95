package main

import (
	"sync"

	"github.com/dan13ram/fundraiser-escrow/api"
	"github.com/dan13ram/fundraiser-escrow/app"
	"github.com/dan13ram/fundraiser-escrow/fundraiser"
	"github.com/dan13ram/fundraiser-escrow/models"
)

func CreateService(
	wg *sync.WaitGroup,
	serviceName string,
	serviceHealthMap map[string]models.ServiceHealth,
	createService func(*sync.WaitGroup) app.Service,
	createServiceWithLastHealth func(*sync.WaitGroup, models.ServiceHealth) app.Service,
) app.Service {
	serviceHealth, ok := serviceHealthMap[serviceName]
	if ok {
		return createServiceWithLastHealth(wg, serviceHealth)
	} else {
		return createService(wg)
	}
}

type ServiceFactory struct {
	CreateService               func(*sync.WaitGroup) app.Service
	CreateServiceWithLastHealth func(*sync.WaitGroup, models.ServiceHealth) app.Service
}

func GetServiceFactories() map[string]ServiceFactory {
	services := map[string]ServiceFactory{
		fundraiser.ContributorSweeperName: {
			CreateService:               fundraiser.NewContributorSweeper,
			CreateServiceWithLastHealth: fundraiser.NewContributorSweeperWithLastHealth,
		},
		api.ServerName: {
			CreateService:               api.NewServer,
			CreateServiceWithLastHealth: api.NewServerWithLastHealth,
		},
	}

	return services
}
