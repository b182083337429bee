// Copyright (c) 2026 UzEvently. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package booking

import "embed"

// Migrations holds the PostgreSQL schema migrations under "migrations".
//
//go:embed migrations/*.up.sql migrations/*.down.sql
var Migrations embed.FS

// MigrationsDir is the directory of [Migrations] holding the files.
const MigrationsDir = "migrations"

//go:embed migrations/sqlite_schema.sql
var sqliteSchema string
