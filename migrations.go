// Package medscan embeds resources shared by the commands, such as the
// database migrations.
package medscan

import "embed"

// Migrations holds the goose SQL migrations applied by the migrate command.
//
//go:embed migrations/*.sql
var Migrations embed.FS
