package handlers

import (
	"go.uber.org/zap"

	"printflow/configurator"
	"printflow/datatable"
	"printflow/services"
)

// Deps holds what the design handlers need. One value is built at startup and
// shared by every route.
type Deps struct {
	Catalog  *services.CatalogStore
	Designs  *services.DesignStore
	Sessions *WizardSessions
	Logger   *zap.Logger

	PageSize int
	Policy   configurator.ClassificationPolicy
}

func (d *Deps) pageSize() int {
	if d.PageSize <= 0 {
		return datatable.DefaultPageSize
	}
	return d.PageSize
}

func (d *Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
