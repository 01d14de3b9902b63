package schema

import "fmt"

// Dialect selects the SQL flavor used when rendering table DDL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Table declares one logical table: its name and how to render its columns.
// Descriptors are plain data; they never hold a store handle or a prefix.
// Both are passed explicitly into every call that needs them.
type Table struct {
	name    string
	columns func(d Dialect) []string
	indexes func(physical string) []string
}

// Name returns the logical table name.
func (t Table) Name() string {
	return t.name
}

// PhysicalName returns prefix + logical name, the only form used in SQL.
func (t Table) PhysicalName(prefix string) string {
	return prefix + t.name
}

var (
	// TableData holds shop configuration versions.
	TableData = Table{
		name: "data",
		columns: func(d Dialect) []string {
			return []string{
				idColumn(d),
				"owner VARCHAR(36) NOT NULL",
				"item TEXT NOT NULL",
				"name TEXT",
				"type INTEGER NOT NULL DEFAULT 0",
				"currency VARCHAR(64)",
				"price DECIMAL(32,2) NOT NULL",
				"unlimited BOOLEAN NOT NULL DEFAULT FALSE",
				"hologram BOOLEAN NOT NULL DEFAULT FALSE",
				"tax_account VARCHAR(36)",
				"permissions TEXT",
				"extra TEXT",
				"inv_wrapper VARCHAR(255) NOT NULL",
				"inv_symbol_link TEXT NOT NULL",
				timeColumn(d, "create_time"),
			}
		},
		indexes: func(physical string) []string {
			return []string{
				fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_owner ON %s (owner)", physical, physical),
			}
		},
	}

	// TableShops maps a stable shop id onto its current data version.
	TableShops = Table{
		name: "shops",
		columns: func(d Dialect) []string {
			return []string{
				idColumn(d),
				"data BIGINT NOT NULL",
			}
		},
	}

	// TableShopMap binds block positions to shops.
	TableShopMap = Table{
		name: "shop_map",
		columns: func(d Dialect) []string {
			return []string{
				"world VARCHAR(32) NOT NULL",
				"x INTEGER NOT NULL",
				"y INTEGER NOT NULL",
				"z INTEGER NOT NULL",
				"shop BIGINT NOT NULL",
				"PRIMARY KEY (world, x, y, z)",
			}
		},
	}

	// TableMessages queues notes for offline players.
	TableMessages = Table{
		name: "messages",
		columns: func(d Dialect) []string {
			return []string{
				idColumn(d),
				"receiver VARCHAR(36) NOT NULL",
				timeColumn(d, "time"),
				"content TEXT NOT NULL",
			}
		},
	}

	// TableMetadata is schema-level key/value bookkeeping.
	TableMetadata = Table{
		name: "metadata",
		columns: func(d Dialect) []string {
			return []string{
				"key VARCHAR(255) NOT NULL PRIMARY KEY",
				"value TEXT NOT NULL",
			}
		},
	}

	// TablePlayers is the uuid -> name/locale directory.
	TablePlayers = Table{
		name: "players",
		columns: func(d Dialect) []string {
			return []string{
				"uuid VARCHAR(36) NOT NULL PRIMARY KEY",
				"name VARCHAR(48) NOT NULL",
				"locale VARCHAR(16) NOT NULL",
			}
		},
		indexes: func(physical string) []string {
			return []string{
				fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_name ON %s (name)", physical, physical),
			}
		},
	}

	// TableLogPurchase is the append-only purchase log.
	TableLogPurchase = Table{
		name: "log_purchase",
		columns: func(d Dialect) []string {
			return []string{
				idColumn(d),
				timeColumn(d, "time"),
				"shop BIGINT NOT NULL",
				"data BIGINT NOT NULL",
				"buyer VARCHAR(36) NOT NULL",
				"type VARCHAR(32) NOT NULL",
				"amount INTEGER NOT NULL",
				"money DECIMAL(32,2) NOT NULL",
				"tax DECIMAL(32,2) NOT NULL DEFAULT 0",
			}
		},
	}

	// TableLogTransaction is the append-only money-movement log.
	TableLogTransaction = Table{
		name: "log_transaction",
		columns: func(d Dialect) []string {
			return []string{
				idColumn(d),
				timeColumn(d, "time"),
				"from_account VARCHAR(36) NOT NULL",
				"to_account VARCHAR(36) NOT NULL",
				"world VARCHAR(32) NOT NULL",
				"currency VARCHAR(64)",
				"amount DECIMAL(32,2) NOT NULL",
				"tax_amount DECIMAL(32,2) NOT NULL DEFAULT 0",
				"tax_account VARCHAR(36)",
				"error TEXT",
			}
		},
	}

	// TableLogChanges is the append-only shop mutation log.
	TableLogChanges = Table{
		name: "log_changes",
		columns: func(d Dialect) []string {
			return []string{
				idColumn(d),
				timeColumn(d, "time"),
				"shop BIGINT NOT NULL",
				"type VARCHAR(32) NOT NULL",
				"before_data BIGINT NOT NULL",
				"after_data BIGINT NOT NULL",
			}
		},
	}

	// TableLogOthers is the append-only catch-all event log.
	TableLogOthers = Table{
		name: "log_others",
		columns: func(d Dialect) []string {
			return []string{
				idColumn(d),
				timeColumn(d, "time"),
				"type VARCHAR(255) NOT NULL",
				"data TEXT NOT NULL",
			}
		},
	}
)

// Tables lists every logical table in creation order.
var Tables = []Table{
	TableData,
	TableShops,
	TableShopMap,
	TableMessages,
	TableMetadata,
	TablePlayers,
	TableLogPurchase,
	TableLogTransaction,
	TableLogChanges,
	TableLogOthers,
}

// LogTables lists the append-only tables subject to retention purging.
var LogTables = []Table{
	TableLogPurchase,
	TableLogTransaction,
	TableLogChanges,
	TableLogOthers,
}

func idColumn(d Dialect) string {
	if d == DialectSQLite {
		return "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "id BIGSERIAL PRIMARY KEY"
}

func timeColumn(d Dialect, name string) string {
	if d == DialectSQLite {
		return name + " DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP"
	}
	return name + " TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP"
}
