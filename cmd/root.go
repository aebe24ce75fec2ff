package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/server"
	"github.com/spigell/resume-ranker/internal/skills"
)

const (
	app       = "resume-ranker"
	envPrefix = "RESUME_RANKER"
)

type Config struct {
	SkillsFile  string            `mapstructure:"skills-file"`
	ExcludeFile string            `mapstructure:"exclude-file"`
	Output      string            `mapstructure:"output"`
	Filters     *filtering.Config `mapstructure:"filters"`
	Serve       *server.Config    `mapstructure:"serve"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "resume-ranker ranks resumes against a job description with TF-IDF similarity",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-ranker.yaml in current directory, optional)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("skills-file", skills.DefaultPath, "file with one skill per line")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("skills-file", rootCmd.PersistentFlags().Lookup("skills-file"))

	viper.SetDefault("skills-file", skills.DefaultPath)
	viper.SetDefault("serve.address", ":8080")
	viper.SetDefault("serve.max-upload-mb", 32)
	// Unmarshal only sees keys viper knows about, so every filter key needs a
	// default for its RESUME_RANKER_FILTERS_* variable to be picked up.
	viper.SetDefault("filters.minimum-score", 0.0)
	viper.SetDefault("filters.required-skills", []string{})
	viper.SetDefault("filters.minimum-years", 0.0)
}

func initConfig() {
	// .env is optional, real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The config file is optional unless it was asked for explicitly.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Filters == nil {
		config.Filters = &filtering.Config{}
	}
	if config.Serve == nil {
		config.Serve = &server.Config{}
	}
	config.Filters.ExcludeFile = config.ExcludeFile

	return config, nil
}
