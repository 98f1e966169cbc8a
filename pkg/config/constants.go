package config

const (
	EnvPrefix = "INSIGHTS"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)
