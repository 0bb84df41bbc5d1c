package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"printflow/collections"
	"printflow/configurator"
)

// nextSequence returns one more than the highest sequence among codes that start
// with prefix. Codes whose last segment is not a number are ignored.
func nextSequence(codes []string, prefix string) int {
	max := 0
	for _, code := range codes {
		if !strings.HasPrefix(code, prefix+"-") {
			continue
		}
		i := strings.LastIndex(code, "-")
		seq, err := strconv.Atoi(code[i+1:])
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max + 1
}

// GenerateDesignCode creates the next code for a design.
// Format: {prefix}-{L}x{W}[x{H}]-{sequence}
// - prefix: the category code, or derived from the category name
// - sequence: 4-digit zero-padded, per prefix, never reused after deletes
func GenerateDesignCode(app core.App, d configurator.Draft) (string, error) {
	record, err := app.FindRecordById(collections.Categories, d.CategoryID)
	if err != nil {
		return "", fmt.Errorf("category not found: %w", err)
	}
	prefix := configurator.CategoryPrefix(recordToCategory(record))

	existing, err := app.FindRecordsByFilter(
		collections.Designs,
		"code ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "-%"},
	)
	if err != nil {
		// If no records match, start at 1
		existing = nil
	}

	codes := make([]string, 0, len(existing))
	for _, r := range existing {
		codes = append(codes, r.GetString("code"))
	}

	return configurator.DesignCode(prefix, d, nextSequence(codes, prefix)), nil
}

// DesignCodeFor generates a code for a stored design record. It satisfies
// collections.CodeGenerator.
func DesignCodeFor(app core.App, design *core.Record) (string, error) {
	return GenerateDesignCode(app, recordToDraft(design))
}

var _ collections.CodeGenerator = DesignCodeFor
