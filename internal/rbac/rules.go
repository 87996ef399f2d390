package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"test:view",
		"attendance:view-own",
		"fees:view-own",
		"calendar:view",
		"dashboard:student",
		"notification:view-own",
	},
	"teacher": {
		"test:create",
		"test:view",
		"test:delete-own",
		"question:import",
		"marks:enter",
		"marks:view",
		"attendance:mark",
		"attendance:view",
		"attendance:view-own",
		"syllabus:edit",
		"syllabus:view",
		"calendar:view",
		"calendar:edit",
		"dashboard:admin",
		"notification:view-own",
	},
	"admin": {
		"*", // everything
	},
}
