package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func classify(cmd *cobra.Command) error {
	n, err := newNode(cmd)
	if err != nil {
		return err
	}
	defer n.Close()

	report, err := n.Classify(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if report.Stopped {
		fmt.Fprintf(cmd.ErrOrStderr(), "training stopped early after %d of %d epochs, nothing classified\n",
			report.Completed, report.Requested)
	}
	return nil
}

func classifyCMD() *cobra.Command {
	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "train, then label query samples",
		Long:  "train a perceptron on labeled CSV samples, then print every query row followed by its predicted label",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return classify(cmd)
		},
	}
	attachFlags(classifyCmd, append(trainFlagList, "query"))
	return classifyCmd
}
