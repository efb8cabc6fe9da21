package destination

// Drivers selectable with Config.Driver.
const (
	DriverNotion = "notion"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config selects the destination store and names its collections.
type Config struct {
	// Driver is the store implementation (notion, mysql, sqlite).
	Driver string `mapstructure:"driver" default:"notion"`
	// SchemaFile is an optional YAML overlay on the built-in property layouts.
	SchemaFile string `mapstructure:"schema_file" default:""`
	// Assignments is the collection id of assignment records.
	Assignments string `mapstructure:"assignments" default:""`
	// Resources is the collection id of module item records.
	Resources string `mapstructure:"resources" default:""`
	// CoursePlanner is the collection id of course pages.
	CoursePlanner string `mapstructure:"course_planner" default:""`
	// ErrorLog is the collection id of error entries.
	ErrorLog string `mapstructure:"error_log" default:""`
}

// SQL reports whether the driver is backed by the SQL database.
func (c Config) SQL() bool {
	return c.Driver == DriverMySQL || c.Driver == DriverSQLite
}
