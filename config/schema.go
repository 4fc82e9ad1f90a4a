package config

import (
	"gorm.io/gorm"
)

// SchemaCapabilities records which optional history columns the deployed
// schema actually has. Some long-lived installations predate the cost
// breakdown and mechanic columns, so the history synchronizer omits
// those fields instead of failing the whole write.
//
// Capabilities are resolved once at startup, never re-probed per request.
type SchemaCapabilities struct {
	HistoryCostBreakdown bool
	HistoryMechanic      bool
}

var schemaCaps = SchemaCapabilities{
	HistoryCostBreakdown: true,
	HistoryMechanic:      true,
}

// ResolveSchemaCapabilities inspects the history table through the GORM
// migrator and records which optional columns are present.
func ResolveSchemaCapabilities(db *gorm.DB) SchemaCapabilities {
	m := db.Migrator()
	caps := SchemaCapabilities{
		HistoryCostBreakdown: m.HasColumn("history_entries", "total_cost"),
		HistoryMechanic:      m.HasColumn("history_entries", "mechanic"),
	}
	schemaCaps = caps
	return caps
}

// GetSchemaCapabilities returns the capabilities resolved at startup.
// Defaults to a full schema, which is what AutoMigrate produces.
func GetSchemaCapabilities() SchemaCapabilities {
	return schemaCaps
}

// SetSchemaCapabilities overrides the resolved capabilities (primarily
// for testing reduced-schema deployments)
func SetSchemaCapabilities(caps SchemaCapabilities) {
	schemaCaps = caps
}
