package service

import (
	"go.uber.org/zap"

	"github.com/AlineIradukunda/dusangire-backend/config"
	"github.com/AlineIradukunda/dusangire-backend/internal/repository"
	"github.com/AlineIradukunda/dusangire-backend/pkg/jwt"
	"github.com/AlineIradukunda/dusangire-backend/pkg/redis"
)

// Service aggregates all business-logic interfaces.
type Service struct {
	Auth         AuthService
	School       SchoolService
	Transfer     TransferService
	Distribution DistributionService
	Report       ReportService
}

// NewService wires the service implementations.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		School:       NewSchoolService(repo, logger),
		Transfer:     NewTransferService(cfg, repo, logger),
		Distribution: NewDistributionService(repo, logger),
		Report:       NewReportService(repo, logger),
	}
}
