package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/engrave/dom"
	"github.com/npillmayer/schuko/schukonf/viperadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	conf    = viperadapter.New("engrave")
	log     = newLogger()
)

var rootCmd = &cobra.Command{
	Use:               "engrave",
	Short:             "Render score documents to SVG or PNG",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./engrave.yaml or ~/.config/engrave/engrave.yaml)")
	rootCmd.PersistentFlags().String("tracer", "go", "trace adapter: go | logrus")
	rootCmd.PersistentFlags().String("trace-level", "Error", "root trace level")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "report progress")
	_ = viper.BindPFlag("tracing", rootCmd.PersistentFlags().Lookup("tracer"))
	_ = viper.BindPFlag("trace.root", rootCmd.PersistentFlags().Lookup("trace-level"))
	rootCmd.AddCommand(renderCmd, dumpCmd)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	return l
}

// setup reads the configuration and initializes tracing.
func setup(cmd *cobra.Command, args []string) error {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		log.SetLevel(logrus.InfoLevel)
	}
	conf.InitDefaults()
	if err := readConfig(); err != nil {
		return err
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("cannot configure tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

func readConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("engrave")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "engrave"))
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading configuration: %w", err)
	}
	log.WithField("file", viper.ConfigFileUsed()).Info("using configuration")
	return nil
}

// loadDocument parses a score document. Files ending in .yaml or .yml are
// parsed as YAML, everything else as markup.
func loadDocument(path string) (*dom.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return dom.ParseYAML(f)
	}
	return dom.ParseMarkup(f)
}
