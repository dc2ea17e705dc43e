package config

// EnvPrefix is the envconfig prefix for every StudioOps variable.
const EnvPrefix = "STUDIOOPS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Canonical environment variable names, shared with tests and deploy tooling.
const (
	EnvAppEnv   = "STUDIOOPS_APP_ENV"
	EnvPort     = "STUDIOOPS_APP_PORT"
	EnvLogLevel = "STUDIOOPS_LOG_LEVEL"

	EnvDBDSN  = "STUDIOOPS_DB_DSN"
	EnvDBHost = "STUDIOOPS_DB_HOST"
	EnvDBUser = "STUDIOOPS_DB_USER"
	EnvDBName = "STUDIOOPS_DB_NAME"

	EnvRedisURL = "STUDIOOPS_REDIS_URL"

	EnvJWTSecret  = "STUDIOOPS_JWT_SECRET"
	EnvJWTIssuer  = "STUDIOOPS_JWT_ISSUER"
	EnvJWTExpMins = "STUDIOOPS_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID = "STUDIOOPS_GCP_PROJECT_ID"

	EnvPubSubDeploymentTopic = "STUDIOOPS_PUBSUB_DEPLOYMENT_TOPIC"
	EnvPubSubDeploymentSub   = "STUDIOOPS_PUBSUB_DEPLOYMENT_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
