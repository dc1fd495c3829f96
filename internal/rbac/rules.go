package rbac

const (
	SnapshotRead     = "snapshot:read"
	SnapshotWrite    = "snapshot:write"
	GradesRead       = "grades:read"
	GradesWrite      = "grades:write"
	EvaluationsWrite = "evaluations:write"
	AttendanceWrite  = "attendance:write"
	BackupCreate     = "backup:create"
	BackupRead       = "backup:read"
	BackupImport     = "backup:import"
	UsersWrite       = "users:write"
)

// Simple default policy. Every role works on its own snapshot only.
var RolePermissions = map[string][]string{
	"viewer": {
		SnapshotRead,
		GradesRead,
		BackupRead,
	},
	"teacher": {
		"snapshot:*",
		"grades:*",
		EvaluationsWrite,
		AttendanceWrite,
		"backup:*",
	},
	"admin": {
		"*", // everything
	},
}
