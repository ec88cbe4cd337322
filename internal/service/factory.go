package service

import (
	"github.com/billforge/billforge/internal/cache"
	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/domain/account"
	"github.com/billforge/billforge/internal/domain/sequence"
	"github.com/billforge/billforge/internal/domain/usage"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Cache  cache.Cache

	// Repositories
	AccountRepo          account.Repository
	UsageRepo            usage.Repository
	SequenceRepo         sequence.Repository
	SequenceSettingsRepo sequence.SettingsRepository
}

// NewServiceParams assembles the common service dependencies
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	accountRepo account.Repository,
	usageRepo usage.Repository,
	sequenceRepo sequence.Repository,
	sequenceSettingsRepo sequence.SettingsRepository,
) ServiceParams {
	return ServiceParams{
		Logger:               logger,
		Config:               config,
		DB:                   db,
		Cache:                cache,
		AccountRepo:          accountRepo,
		UsageRepo:            usageRepo,
		SequenceRepo:         sequenceRepo,
		SequenceSettingsRepo: sequenceSettingsRepo,
	}
}
