package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gomhd",
	Short: "Block-structured finite volume compressible flow solver",
	Long: `Block-structured finite volume compressible flow solver with
anisotropic thermal conduction and super-time-stepped diffusion`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		lvl, err := log.ParseLevel(viper.GetString("loglevel"))
		if err != nil {
			log.Fatalf("bad log level: %s", err)
		}
		log.SetLevel(lvl)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("loglevel", "info", "log level: debug, info, warn, error")
	viper.SetEnvPrefix("gomhd")
	viper.AutomaticEnv()
	if err := viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("loglevel")); err != nil {
		panic(err)
	}
}
