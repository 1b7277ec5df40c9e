package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldReportID   = "report_id"
	FieldUserID     = "user_id"
	FieldTanggal    = "tanggal"
	FieldShift      = "shift"
	FieldTotalLiter = "total_liter"
	FieldCash       = "cash"
	FieldQRIS       = "qris"
	FieldTotalPU    = "total_pu"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentReport    = "report"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentAuth      = "auth"
	ComponentNotify    = "notify"
	ComponentBackend   = "backend"
	ComponentRateLimit = "rate_limit"
)

// Operations defines standard operation names.
const (
	OpSave     = "save"
	OpList     = "list"
	OpUpsert   = "upsert"
	OpSync     = "sync"
	OpShare    = "share"
	OpExport   = "export"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
