package cmd

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/stepgen/sim"
)

var convertStripNoOps bool // drop no-op commands from the output

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Print a protocol's commands as JSON envelopes",
	Long:  "Decode the commands of a protocol file (YAML or JSON) and write them to stdout as a JSON array of {command, params} envelopes, for piping into other tools.",
	Run: func(cmd *cobra.Command, args []string) {
		pf, err := LoadProtocolFile(protocolPath)
		if err != nil {
			logrus.Fatalf("Loading protocol: %v", err)
		}
		commands := []sim.Command(pf.Commands)
		if convertStripNoOps {
			commands = sim.StripNoOpCommands(commands)
			logrus.Infof("Kept %d of %d command(s)", len(commands), len(pf.Commands))
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(sim.Commands(commands)); err != nil {
			logrus.Fatalf("Writing commands: %v", err)
		}
	},
}

func init() {
	convertCmd.Flags().StringVar(&protocolPath, "protocol", "", "Protocol file (YAML or JSON)")
	convertCmd.Flags().BoolVar(&convertStripNoOps, "strip-noops", false, "Drop no-op commands")
	_ = convertCmd.MarkFlagRequired("protocol")
}
