package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-marathon-planner/internal/config"
	"github.com/iliyamo/cinema-marathon-planner/internal/utils"
)

func init() {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local testing",
		Run:   runToken,
	}
	cmd.Flags().Uint64P("user", "u", 0, "User ID placed in the sub claim (required)")
	cmd.Flags().StringP("role", "r", "CUSTOMER", "Role claim")
	cmd.Flags().Int("ttl", 0, "Lifetime in minutes (default: $ACCESS_TOKEN_TTL_MIN)")
	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runToken(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetUint64("user")
	role, _ := cmd.Flags().GetString("role")
	ttl, _ := cmd.Flags().GetInt("ttl")

	secret, defaultTTL := config.LoadTokenSettings()
	if ttl <= 0 {
		ttl = defaultTTL
	}
	tok, err := utils.NewAccessToken(secret, user, role, ttl)
	if err != nil {
		exitErr("sign token", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", tok.Exp.Format("2006-01-02 15:04:05 MST"))
}
