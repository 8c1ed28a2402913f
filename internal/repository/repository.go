package repository

import "gorm.io/gorm"

// Repository aggregates all data-access interfaces.
type Repository struct {
	School       SchoolRepository
	Transfer     TransferRepository
	Distribution DistributionRepository
	Report       ReportRepository
	User         UserRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		School:       NewSchoolRepo(db),
		Transfer:     NewTransferRepo(db),
		Distribution: NewDistributionRepo(db),
		Report:       NewReportRepo(db),
		User:         NewUserRepo(db),
	}
}
