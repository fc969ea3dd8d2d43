package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// InputFormat represents the format of the grade records file.
	InputFormat string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// SortKey represents the field used to order query results.
	SortKey string

	// SortOrder represents the direction of a query sort.
	SortOrder string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text"
	JSONOut    OutputMode = "json" // default
	ParquetOut OutputMode = "parquet"
)

// All input formats supported.
const (
	AutoInput InputFormat = "auto" // default, detected from the file extension
	CSVInput  InputFormat = "csv"
	XLSXInput InputFormat = "xlsx"
)

// All run history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All sort keys supported by course queries.
const (
	SortByGPA        SortKey = "gpa" // default
	SortByMedianGPA  SortKey = "medianGpa"
	SortByStudents   SortKey = "totalStudents"
	SortByInstructor SortKey = "instructor"
	SortByCode       SortKey = "code"
)

// All sort orders supported by course queries.
const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc" // default
)

// Column names of a raw grade record.
const (
	FieldSubject       = "Subject"
	FieldCourseNumber  = "Course Number"
	FieldTitle         = "Title"
	FieldInstructor    = "Instructor"
	FieldCRN           = "CRN"
	FieldTerm          = "Term"
	FieldYear          = "Year"
	FieldTotalStudents = "Total_Students"
)

// UnknownInstructor is substituted when a record names no instructor.
const UnknownInstructor = "TBA"

// MinStudents is the smallest group size that survives the threshold filter.
const MinStudents = 5

// AllSubjects is the subject filter value that matches every course.
const AllSubjects = "All"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidInputFormats lists all valid input formats.
var ValidInputFormats = map[InputFormat]struct{}{
	AutoInput: {},
	CSVInput:  {},
	XLSXInput: {},
}

// ValidDatabaseBackends lists all valid run history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSortKeys lists all valid query sort keys.
var ValidSortKeys = map[SortKey]struct{}{
	SortByGPA:        {},
	SortByMedianGPA:  {},
	SortByStudents:   {},
	SortByInstructor: {},
	SortByCode:       {},
}

// ValidSortOrders lists all valid query sort orders.
var ValidSortOrders = map[SortOrder]struct{}{
	Ascending:  {},
	Descending: {},
}
