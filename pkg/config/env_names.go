package config

// EnvPrefix is passed to envconfig; the struct tags carry the full names.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FIELDOPS_DB_DSN"
	EnvDBHost = "FIELDOPS_DB_HOST"
	EnvDBUser = "FIELDOPS_DB_USER"
	EnvDBName = "FIELDOPS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
