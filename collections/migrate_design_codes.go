package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

// CodeGenerator returns the next design code for a design record.
type CodeGenerator func(app core.App, design *core.Record) (string, error)

// MigrateMissingDesignCodes assigns a code to every design saved without one, in
// creation order. Safe to call on every startup -- returns early if nothing to
// migrate.
func MigrateMissingDesignCodes(app core.App, logger *zap.Logger, generate CodeGenerator) error {
	designs, err := app.FindRecordsByFilter(
		Designs,
		"code = ''",
		"created",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query designs without code: %w", err)
	}

	if len(designs) == 0 {
		return nil
	}

	logger.Info("migrate: designs without code, assigning", zap.Int("count", len(designs)))

	for _, design := range designs {
		code, err := generate(app, design)
		if err != nil {
			logger.Warn("migrate: failed to generate code",
				zap.String("design_id", design.Id), zap.Error(err))
			continue
		}

		design.Set("code", code)
		if err := app.Save(design); err != nil {
			logger.Warn("migrate: failed to save code",
				zap.String("design_id", design.Id), zap.String("code", code), zap.Error(err))
			continue
		}

		logger.Debug("migrate: design code assigned",
			zap.String("design_id", design.Id), zap.String("code", code))
	}

	logger.Info("migrate: design code migration complete")
	return nil
}
