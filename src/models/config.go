package models

// MConfig Structure
type MConfig struct {
	Name       string            `yaml:"name"`
	Host       string            `yaml:"host"`
	Port       int               `yaml:"port"`
	LogLevel   string            `yaml:"log_level"`
	Storage    MStorageConfig    `yaml:"storage"`
	Network    MNetworkConfig    `yaml:"network"`
	DataSource MDataSourceConfig `yaml:"data_source"`
	Defaults   MDefaultsConfig   `yaml:"defaults"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
}

type MNetworkConfig struct {
	RequestTimeout int    `yaml:"timeout"`
	UserAgent      string `yaml:"user_agent"`
}

type MDataSourceConfig struct {
	MappingURL            string `yaml:"mapping_url"`
	LatestURL             string `yaml:"latest_url"`
	HourlyURL             string `yaml:"hourly_url"`
	UpdateIntervalSeconds int    `yaml:"update_interval_seconds"`
}

// MDefaultsConfig seeds the filter configuration handed to newly connected
// subscribers. Zero values fall back to the built-in defaults.
type MDefaultsConfig struct {
	MinVolume  float64 `yaml:"min_volume"`
	MaxResults int     `yaml:"max_results"`
}
