package sqlite

// IDs of the rows inserted by the seed migration.
const (
	SeedBiblioCompanyID        = "01J9ZS8Q3C4E0B6TDJ1WH2K7MA"
	SeedInfinitySportCompanyID = "01J9ZS8Q3C4E0B6TDJ1WH2K7MB"
	SeedAdminRoleID            = "01J9ZS8Q3C4E0B6TDJ1WH2K7MC"
	SeedEmployeeRoleID         = "01J9ZS8Q3C4E0B6TDJ1WH2K7MD"
	SeedAdminUserID            = "01J9ZS8Q3C4E0B6TDJ1WH2K7ME"
	SeedEmployeeUserID         = "01J9ZS8Q3C4E0B6TDJ1WH2K7MF"
)
