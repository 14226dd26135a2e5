package deployment

import (
	"errors"

	"github.com/spf13/viper"
)

// Department is one organizational unit of the closed, deployment-level
// department set. Color drives the proportion chart on clients.
type Department struct {
	Name  string `json:"name" mapstructure:"name"`
	Color string `json:"color" mapstructure:"color"`
}

type Config struct {
	ServerAddr  string       `mapstructure:"server_addr"`
	Departments []Department `mapstructure:"departments"`
	Products    []string     `mapstructure:"products"`
}

var Current = DefaultConfig()

// DefaultConfig mirrors the reference deployment.
func DefaultConfig() *Config {
	return &Config{
		ServerAddr: ":80",
		Departments: []Department{
			{Name: "圖服", Color: "#3b82f6"},
			{Name: "學發", Color: "#10b981"},
			{Name: "學出", Color: "#8b5cf6"},
			{Name: "業務", Color: "#f59e0b"},
			{Name: "產品", Color: "#ec4899"},
			{Name: "佳釀", Color: "#1e293b"},
			{Name: "老闆本人", Color: "#1e293b"},
		},
		Products: []string{"AL", "ABC", "AE", "ACI", "SYMSKAN", "AS", "灰熊", "書紐"},
	}
}

// Load reads the deployment config file (easylog.yaml) when present,
// falling back to defaults for every unset key.
func Load(configPath string) error {
	v := viper.New()
	v.SetConfigName("easylog")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/easylog")
	}
	v.SetEnvPrefix("EASYLOG")
	v.AutomaticEnv()

	// Defaults are registered per key so a configured catalog replaces the
	// default list entirely instead of being merged element-wise onto it.
	defaults := DefaultConfig()
	v.SetDefault("server_addr", defaults.ServerAddr)
	v.SetDefault("departments", defaults.Departments)
	v.SetDefault("products", defaults.Products)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return err
	}
	Current = c
	return nil
}

func IsKnownDepartment(name string) bool {
	for _, d := range Current.Departments {
		if d.Name == name {
			return true
		}
	}
	return false
}

func IsKnownProduct(name string) bool {
	for _, p := range Current.Products {
		if p == name {
			return true
		}
	}
	return false
}
