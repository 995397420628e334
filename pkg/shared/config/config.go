package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config is the global application configuration, loaded from a YAML file.
type Config struct {
	Dgs        Dgs        `yaml:"dgs"`
	Logger     Logger     `yaml:"logger"`
	HTTPClient HTTPClient `yaml:"http_client"`
	GitClient  GitClient  `yaml:"git_client"`
	GitHub     GitHub     `yaml:"github"`
	Parser     Parser     `yaml:"parser"`
	Keywords   Keywords   `yaml:"keywords"`
	Survey     Survey     `yaml:"survey"`
}

// Dgs holds the working directories of the tool.
type Dgs struct {
	HomeFolder     string `yaml:"home_folder"`
	ProjectsFolder string `yaml:"projects_folder"`
	ResultsFolder  string `yaml:"results_folder"`
	TempFolder     string `yaml:"temp_folder"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// HTTPClient tunes the resty client used for raw file downloads.
type HTTPClient struct {
	Debug            bool            `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// GitClient tunes repository cloning.
type GitClient struct {
	Depth       int           `yaml:"depth"`
	Timeout     time.Duration `yaml:"timeout"`
	InsecureTLS bool          `yaml:"insecure_tls"`
}

// GitHub holds the API token used for repository metadata lookups.
// Anonymous access works but is tightly rate limited.
type GitHub struct {
	Token string `yaml:"token"`
}

// Parser configures the external Solidity parser command.
type Parser struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	// UseASTFiles switches to pre-generated `.ast.json` files instead of
	// running the command.
	UseASTFiles bool `yaml:"use_ast_files"`
}

// Keywords points at the coding-scheme file; empty means the built-in
// scheme.
type Keywords struct {
	ConfigPath string `yaml:"config_path"`
}

// Survey overrides the default file and directory filters of a repository
// walk.
type Survey struct {
	IncludeDirs         []string `yaml:"include_dirs"`
	IncludeFiles        []string `yaml:"include_files"`
	IncludeFilePatterns []string `yaml:"include_file_patterns"`
	ExcludeDirs         []string `yaml:"exclude_dirs"`
	ExcludeFiles        []string `yaml:"exclude_files"`
	ExcludeFilePatterns []string `yaml:"exclude_file_patterns"`
	Jobs                int      `yaml:"jobs"`
}

// ValidateConfigPath checks that a path points at a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes a YAML file into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return fmt.Errorf("failed to decode %q: %w", configPath, err)
	}
	return nil
}

// LoadConfig reads the global configuration. A missing default config file
// is not an error: the tool runs on defaults alone.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath == "" {
		configPath = "config.yml"
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return config, nil
		}
	}

	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
}
