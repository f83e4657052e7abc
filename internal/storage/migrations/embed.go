package migrations

import "embed"

// PostgresFS holds the PostgreSQL schema migrations, applied in lexical
// order at startup.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the ClickHouse schema migrations for the trade
// history mirror.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
