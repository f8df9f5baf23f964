package config

const EnvPrefix = "POS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "POS_APP_ENV"
	EnvPort     = "POS_APP_PORT"
	EnvLogLevel = "POS_LOG_LEVEL"

	EnvDBDSN  = "POS_DB_DSN"
	EnvDBHost = "POS_DB_HOST"
	EnvDBUser = "POS_DB_USER"
	EnvDBName = "POS_DB_NAME"

	EnvRedisURL = "POS_REDIS_URL"

	EnvJWTSecret  = "POS_JWT_SECRET"
	EnvJWTIssuer  = "POS_JWT_ISSUER"
	EnvJWTExpMins = "POS_JWT_EXPIRATION_MINUTES"

	EnvTaxRate          = "POS_TAX_RATE"
	EnvSaleNumberPrefix = "POS_SALE_NUMBER_PREFIX"
	EnvAccessPolicy     = "POS_ACCESS_POLICY"
	EnvUseSQLite        = "POS_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
