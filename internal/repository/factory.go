package repository

import (
	"github.com/billforge/billforge/internal/domain/account"
	"github.com/billforge/billforge/internal/domain/sequence"
	"github.com/billforge/billforge/internal/domain/usage"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/postgres"
	postgresRepo "github.com/billforge/billforge/internal/repository/postgres"
)

func NewAccountRepository(client postgres.IClient, logger *logger.Logger) account.Repository {
	return postgresRepo.NewAccountRepository(client, logger)
}

func NewUsageRepository(client postgres.IClient, logger *logger.Logger) usage.Repository {
	return postgresRepo.NewUsageRepository(client, logger)
}

func NewSequenceRepository(client postgres.IClient, logger *logger.Logger) sequence.Repository {
	return postgresRepo.NewSequenceRepository(client, logger)
}

func NewSequenceSettingsRepository(client postgres.IClient, logger *logger.Logger) sequence.SettingsRepository {
	return postgresRepo.NewSequenceSettingsRepository(client, logger)
}
