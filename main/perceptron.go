package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var flags *pflag.FlagSet

var (
	cfgPathFlag      string
	dataFlag         string
	queryFlag        string
	epochsFlag       int
	learningRateFlag float64
	reinitFlag       bool
	headerFlag       bool
	logLevelFlag     string
)

func init() {
	resetFlags()
}

// Explicitly define a method to facilitate tests
func resetFlags() {
	flags = &pflag.FlagSet{}

	flags.StringVarP(&cfgPathFlag, "config", "c", "",
		"config file, default perceptron_config.yaml under $PERCEPTRON_CFG_PATH or .")
	flags.StringVarP(&dataFlag, "data", "d", "",
		"training samples, CSV with the label in the last column")
	flags.StringVarP(&queryFlag, "query", "q", "",
		"samples to classify, CSV without labels")
	flags.IntVarP(&epochsFlag, "epochs", "e", 10,
		"number of passes over the training samples")
	flags.Float64VarP(&learningRateFlag, "learning-rate", "l", 1.0,
		"perceptron learning rate, must be positive")
	flags.BoolVar(&reinitFlag, "reinit", false,
		"reset weights and bias before training")
	flags.BoolVar(&headerFlag, "header", false,
		"CSV files start with a header row")
	flags.StringVar(&logLevelFlag, "log-level", "INFO",
		"DEBUG, INFO, WARN or ERROR")
}

func attachFlags(cmd *cobra.Command, names []string) {
	cmdFlags := cmd.Flags()
	for _, name := range names {
		if flag := flags.Lookup(name); flag != nil {
			cmdFlags.AddFlag(flag)
		} else {
			panic(fmt.Errorf("Could not find flag '%s' to attach to command '%s'", name, cmd.Name()))
		}
	}
}

func newMainCmd() *cobra.Command {
	mainCmd := &cobra.Command{
		Use:           "perceptron",
		Short:         "binary perceptron classifier",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	mainCmd.AddCommand(trainCMD())
	mainCmd.AddCommand(classifyCMD())
	return mainCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if newMainCmd().ExecuteContext(ctx) != nil {
		stop()
		os.Exit(1)
	}
}
