// Package database handles the catalog database connection and schema
// inspection.
//
// Connect wraps GORM and opens either MySQL (production) or SQLite (local
// catalogs and tests) depending on Config.Driver. GetTableColumns reads the
// live column list of a table so the integrity check can compare it with
// the catalog models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Catalog database unavailable", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "catalog_events")
package database
