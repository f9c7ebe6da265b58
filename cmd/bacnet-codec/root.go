// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/bacnet/bacnet"
)

const version = "1.0.0"

var (
	cfgFile   string
	outputFmt string
	verbose   bool
	maxAPDU   int
	charset   string

	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "bacnet-codec",
	Short: "Encode and decode BACnet application tags",
	Long: `bacnet-codec inspects and produces BACnet application-layer encodings.

It lists the tags of a captured APDU or BACnet/IP packet and encodes single
values as application or context tagged primitives.

Examples:
  # List the tags of a ReadProperty request body
  bacnet-codec decode 0c00c000011955

  # Decode a whole BACnet/IP packet
  bacnet-codec decode --packet 810a001101040005010c0c020003e8194d

  # Encode a value as context tag 2
  bacnet-codec encode unsigned 1000 --context 2`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logger
		logLevel := slog.LevelInfo
		if viper.GetBool("verbose") {
			logLevel = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: logLevel,
		}))

		if _, ok := bacnet.ParseCharacterSet(viper.GetString("charset")); !ok {
			return fmt.Errorf("unknown character set %q", viper.GetString("charset"))
		}
		if viper.GetInt("max-apdu") <= 0 {
			return fmt.Errorf("max-apdu must be positive, got %d", viper.GetInt("max-apdu"))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.bacnet-codec.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format (table, json, yaml, csv, raw)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().IntVar(&maxAPDU, "max-apdu", bacnet.MaxAPDULength, "Largest APDU accepted by decode")
	rootCmd.PersistentFlags().StringVar(&charset, "charset", bacnet.CharacterSetUTF8.String(), "Character set for encoded strings (utf-8, ucs-2, ucs-4, iso-8859-1)")

	// Bind flags to viper
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("max-apdu", rootCmd.PersistentFlags().Lookup("max-apdu"))
	viper.BindPFlag("charset", rootCmd.PersistentFlags().Lookup("charset"))

	// Add subcommands
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.SetConfigName(".bacnet-codec")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("BACNET")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", slog.String("file", viper.ConfigFileUsed()))
	}
}

// newFormatter returns a formatter for the configured output format
func newFormatter(cmd *cobra.Command) (*Formatter, error) {
	f, err := NewFormatter(viper.GetString("output"))
	if err != nil {
		return nil, err
	}
	f.SetWriter(cmd.OutOrStdout())
	return f, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bacnet-codec version %s\n", version)
	},
}
