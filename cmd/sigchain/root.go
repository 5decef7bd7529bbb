package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/birdayz/sigchain"
	"github.com/birdayz/sigchain/internal/resolver"
	clog "github.com/birdayz/sigchain/pkg/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v   *viper.Viper
	log *slog.Logger
	out io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: sigchain.NullLogger()}

	root := &cobra.Command{
		Use:          "sigchain",
		Short:        "Build, resolve and store processor signal chains",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (yaml, json or toml)")
	pf.String("log-format", clog.FormatTint, "Log format: tint or zerolog")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.Int("block-size", resolver.DefaultBlockSize, "Device buffer size pushed to record nodes")
	pf.String("store", storeMemory, "Chain store: memory, pebble or s3")
	pf.String("store-dir", "chains", "Directory of the pebble chain store")
	pf.Bool("store-sync", true, "Sync pebble writes to disk")
	pf.String("s3-endpoint", "localhost:9000", "S3 endpoint")
	pf.String("s3-access-key", "", "S3 access key")
	pf.String("s3-secret-key", "", "S3 secret key")
	pf.String("s3-bucket", "sigchain", "S3 bucket")
	pf.String("s3-prefix", "chains", "S3 object prefix")
	pf.Bool("s3-secure", false, "Use TLS for S3")
	pf.StringSlice("brokers", []string{"localhost:9092"}, "Kafka seed brokers")
	pf.String("topic", "sigchain-events", "Kafka topic for broadcast messages")

	// SIGCHAIN_LOG_LEVEL=debug and friends override the defaults.
	a.v.SetEnvPrefix("SIGCHAIN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(pf); err != nil {
		panic(err)
	}

	root.AddCommand(
		a.demoCmd(),
		a.resolveCmd(),
		a.validateCmd(),
		a.storeCmd(),
		a.broadcastCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	level, err := clog.ParseLevel(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.log, err = clog.Slog(a.v.GetString("log-format"), level)
	return err
}

func (a *app) controller(opts ...sigchain.Option) (*sigchain.Controller, error) {
	return sigchain.New(append([]sigchain.Option{
		sigchain.WithLog(a.log),
		sigchain.WithBlockSize(a.v.GetInt("block-size")),
	}, opts...)...)
}
