package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/flatkit/logger"
)

// FileSystem is the file access the loader needs. Tests substitute it.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file without overriding variables already set.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds the config and .env files of an application.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths. Either may
// be empty.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles picks the files for app. Explicit paths in opts win, then the
// <APP>_CONFIG and <APP>_ENV_FILE variables, then the first existing file of
// configCandidates and envCandidates.
func (r *Resolver) ResolveFiles(app string, opts LoaderConfig) ResolvedFiles {
	prefix := envPrefix(app)
	resolved := ResolvedFiles{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = os.Getenv(prefix + "CONFIG")
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(configCandidates(app))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = os.Getenv(prefix + "ENV_FILE")
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(envCandidates(app))
	}
	return resolved
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// configCandidates lists where an application keeps its YAML, most specific
// first.
func configCandidates(app string) []string {
	var paths []string
	if app != "" {
		paths = append(paths, app+".yml", filepath.Join("config", app+".yml"))
	}
	return append(paths, "config.yml", filepath.Join("config", "config.yml"))
}

func envCandidates(app string) []string {
	var paths []string
	if app != "" {
		paths = append(paths, ".env."+app, filepath.Join("config", ".env."+app))
	}
	return append(paths, ".env", filepath.Join("config", ".env"))
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig reads the YAML file and .env file of app into cfg, which must be
// a pointer to a struct with mapstructure tags.
//
// Every leaf key of cfg can be overridden from the environment. The key
// pipeline.batch_size is read from INGEST_PIPELINE_BATCH_SIZE for app
// "ingest", falling back to PIPELINE_BATCH_SIZE.
func LoadConfig(app string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(app, lc)

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("failed to load config file", logger.Fields("file", files.ConfigFile, logger.FieldError, err.Error()))
		}
	}
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("failed to load env file", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	prefix := envPrefix(app)
	for _, key := range configKeys(reflect.TypeOf(cfg), "") {
		name := envName(key)
		if err := v.BindEnv(key, prefix+name, name); err != nil {
			return err
		}
	}

	return v.Unmarshal(cfg)
}

// configKeys lists the dotted mapstructure paths of every leaf field of t.
// Pointers to structs are followed, so optional sections bind too.
func configKeys(t reflect.Type, parent string) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := name
		if parent != "" {
			key = parent + "." + name
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			keys = append(keys, configKeys(ft, key)...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// envName maps a config key to its variable: flatten.meter_name becomes
// FLATTEN_METER_NAME.
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// envPrefix is the per-application variable prefix: "my-app" becomes
// "MY_APP_".
func envPrefix(app string) string {
	if app == "" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(app, "-", "_")) + "_"
}
