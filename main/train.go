package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"perceptron/core/config"
	"perceptron/node"
)

var trainFlagList = []string{
	"config",
	"data",
	"epochs",
	"learning-rate",
	"reinit",
	"header",
	"log-level",
}

func newNode(cmd *cobra.Command) (*node.TrainerNode, error) {
	lc, err := config.InitLocalConfig(cmd)
	if err != nil {
		return nil, err
	}
	n := &node.TrainerNode{}
	if err := n.Init(lc); err != nil {
		return nil, err
	}
	return n, nil
}

func train(cmd *cobra.Command) error {
	n, err := newNode(cmd)
	if err != nil {
		return err
	}
	defer n.Close()

	report, err := n.Train(cmd.Context())
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, r *node.Report) {
	fmt.Fprintf(w, "run:      %s\n", r.RunID)
	fmt.Fprintf(w, "samples:  %d (%d features)\n", r.Samples, r.Features)
	fmt.Fprintf(w, "epochs:   %d/%d\n", r.Completed, r.Requested)
	fmt.Fprintf(w, "weights:  %v\n", r.Weights)
	fmt.Fprintf(w, "bias:     %v\n", r.Bias)
	fmt.Fprintf(w, "labels:   %s=0 %s=1\n", r.Labels[0], r.Labels[1])
	fmt.Fprintf(w, "accuracy: %.2f%%\n", r.Accuracy*100)
	if r.Stopped {
		fmt.Fprintf(w, "training stopped early after %d of %d epochs\n", r.Completed, r.Requested)
	}
}

func trainCMD() *cobra.Command {
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "train a perceptron",
		Long:  "train a perceptron on labeled CSV samples and print the learned parameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return train(cmd)
		},
	}
	attachFlags(trainCmd, trainFlagList)
	return trainCmd
}
