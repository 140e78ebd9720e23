package config

type Config interface {
	EnvConfig
	SessionConfig
	MyInfoConfig
	RedditConfig
	DatabaseConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Session
	MyInfo
	Reddit
	Database
}

func New() Config {
	return mainConfig{}
}
