package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose bool
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "wingsmith",
	Short: "Parametric airfoil and wing surface builder",
	Long: `wingsmith evaluates a wing design script and turns it into geometry.

A design script declares an airfoil library and components holding wings
made of span-wise segments. The resulting surfaces can be written as a
STEP AP203 open shell, a STEP wireframe of the section profiles, or an
STL mesh for quick inspection.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetFlags(0)
		log.SetPrefix("wingsmith: ")
		if !verbose {
			log.SetOutput(io.Discard)
		} else {
			log.SetOutput(os.Stderr)
		}
		return loadConfig()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./wingsmith.yaml)")
	rootCmd.PersistentFlags().StringP("performance", "p", "", "sampling resolution: coarse, normal or fine")
	rootCmd.PersistentFlags().String("author", "", "author recorded in STEP headers")
	rootCmd.PersistentFlags().String("organization", "", "organization recorded in STEP headers")

	for _, key := range []string{"performance", "author", "organization"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// loadConfig reads the optional config file and the WINGSMITH_ environment.
// A missing default config file is not an error.
func loadConfig() error {
	viper.SetEnvPrefix("wingsmith")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wingsmith")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}
	log.Printf("using config %s", viper.ConfigFileUsed())
	return nil
}
