package config

const (
	EnvPrefix = "ADHUNIK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ADHUNIK_DB_DSN"
	EnvDBHost = "ADHUNIK_DB_HOST"
	EnvDBUser = "ADHUNIK_DB_USER"
	EnvDBName = "ADHUNIK_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
