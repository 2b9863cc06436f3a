package health

import (
	"todo-api/internal/domain/gateway/cache"
	"todo-api/internal/domain/gateway/db"
	"todo-api/internal/domain/model"
)

type healthUseCase struct {
	dbGateway    db.HealthDBGateway
	cacheGateway cache.HealthCacheGateway
}

func NewHealthUseCase(dbGateway db.HealthDBGateway, cacheGateway cache.HealthCacheGateway) UseCase {
	return &healthUseCase{
		dbGateway:    dbGateway,
		cacheGateway: cacheGateway,
	}
}

func (useCase *healthUseCase) CheckHealth() model.HealthResponse {
	dbHealth := useCase.dbGateway.Health()
	cacheHealth := useCase.cacheGateway.Health()

	// A disabled cache reports UNKNOWN and does not drag the service down.
	overallStatus := model.StatusUp
	if dbHealth.Status != model.StatusUp || cacheHealth.Status == model.StatusDown {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status:   overallStatus,
		Database: dbHealth,
		Cache:    cacheHealth,
	}
}
