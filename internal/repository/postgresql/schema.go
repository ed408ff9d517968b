package postgresql

import _ "embed"

// Schema creates the tables the repositories in this package read and write.
//
//go:embed schema.sql
var Schema string
