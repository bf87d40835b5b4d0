// Package schema holds the shared data types exchanged between the engine, stores, and writers.
package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ChangeStatus represents how a file changed in a pull request.
	ChangeStatus string

	// Role represents the classification given to a path.
	Role string

	// Origin represents whether a test candidate exists in the repository or is proposed.
	Origin string

	// Severity represents the urgency of a recommendation.
	Severity string

	// MatchMode represents the strategy the relevance matcher used.
	MatchMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All output modes supported.
const (
	TextOut  OutputMode = "text" // default
	JSONOut  OutputMode = "json"
	CSVOut   OutputMode = "csv"
	PathsOut OutputMode = "paths"
)

// All change statuses supported.
const (
	StatusAdded    ChangeStatus = "added"
	StatusModified ChangeStatus = "modified" // default
	StatusDeleted  ChangeStatus = "deleted"
	StatusRenamed  ChangeStatus = "renamed"
)

// All roles supported.
const (
	RoleTest    Role = "test"
	RoleSource  Role = "source"
	RoleIgnored Role = "ignored"
)

// UnknownLanguage is reported for paths whose extension no profile claims.
const UnknownLanguage = "unknown"

// All candidate origins supported.
const (
	OriginExisting  Origin = "existing"
	OriginSuggested Origin = "suggested"
)

// All recommendation severities supported.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// All match modes supported.
const (
	IndexMode     MatchMode = "index"
	HeuristicMode MatchMode = "heuristic"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes for the analyze command.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:  {},
	JSONOut:  {},
	CSVOut:   {},
	PathsOut: {},
}

// ValidChangeStatuses lists all valid change statuses.
var ValidChangeStatuses = map[ChangeStatus]struct{}{
	StatusAdded:    {},
	StatusModified: {},
	StatusDeleted:  {},
	StatusRenamed:  {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
