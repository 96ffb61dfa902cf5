package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldUserID    = "user_id"
	FieldProjectID = "project_id"
	FieldDate      = "date"
	FieldMonth     = "month"
	FieldHours     = "hours"
	FieldSegments  = "segments"
	FieldDayType   = "day_type"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentExport   = "export"
	ComponentNotify   = "notify"
	ComponentCalendar = "calendar"
	ComponentSummary  = "summary"
	ComponentMatrix   = "matrix"
	ComponentCache    = "cache"
)

// Operations defines standard operation names
const (
	OpSummarize = "summarize"
	OpBuild     = "build_matrix"
	OpReconcile = "reconcile"
	OpClassify  = "classify"
	OpExport    = "export"
	OpNotify    = "notify"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
