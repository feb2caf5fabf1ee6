/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EO-DataHub/eodhp-record-services/internal/appconfig"
	awsclient "github.com/EO-DataHub/eodhp-record-services/internal/aws"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	configPath string
	appCfg     *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "record-services",
	Short: "Employee Record Services",
	Long:  `Record Services serves the employee record API and manages records, selections and spreadsheet imports from the command line.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"),
		"path to the YAML config file (env CONFIG_PATH)")
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Could not load .env file")
	}
}

// commonSetUp sets the log level and loads the config shared by every command.
func commonSetUp() {
	setLogging(logLevel)

	var err error
	if configPath == "" {
		appCfg, err = appconfig.Parse(nil)
	} else {
		appCfg, err = appconfig.LoadConfig(configPath)
	}
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}
}

// resolveDatabaseURI reads the database URI from Secrets Manager when a secret name is configured.
func resolveDatabaseURI(ctx context.Context) {
	if appCfg.Database.SecretName == "" {
		return
	}

	awsCfg, err := awsclient.LoadAWSConfig(ctx, appCfg.AWS.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load AWS config")
	}

	uri, err := awsclient.GetSecretString(ctx, awsclient.NewSecretsManagerClient(awsCfg), appCfg.Database.SecretName)
	if err != nil {
		log.Fatal().Err(err).Str("secret", appCfg.Database.SecretName).Msg("Failed to read database URI secret")
	}
	appCfg.Database.URI = uri
}

// commandContext returns a context that carries the global logger
func commandContext() context.Context {
	return log.Logger.WithContext(context.Background())
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
