package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/rarity-society/internal/app"
	"github.com/trebuchet-org/rarity-society/internal/cli/render"
)

// printJSON writes v to the command output as indented JSON
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// namer names dev and configured accounts in rendered output
func namer(a *app.App) render.NameFunc {
	return func(addr common.Address) string {
		return a.Keyring.NameOf(addr)
	}
}

// parseProposalID accepts "3" and "#3"
func parseProposalID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid proposal id %q", s)
	}
	return id, nil
}

// addFromFlag adds the --from flag selecting the sending account
func addFromFlag(cmd *cobra.Command, from *string, def string) {
	usage := "Sending account name or address"
	if def != "" {
		usage += " (default " + def + ")"
	}
	cmd.Flags().StringVar(from, "from", "", usage)
}
