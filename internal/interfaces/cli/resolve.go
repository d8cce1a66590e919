package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/client"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

var resolveDomain string

// NewResolveCmd creates the resolve command.  Names come from positional
// arguments so shells handle quoting naturally:
//
//	rxgene resolve --domain drug aspirin "vitamin c" imatinib
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [names...]",
		Short: "Resolve free-form names to canonical identifiers",
		Long:  "Resolve a batch of free-form drug or gene names against the alias index.\nUnmatched names are echoed back in their raw form with matched=false.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&resolveDomain, "domain", "d", "", "entity domain: drug or gene (required)")
	_ = cmd.MarkFlagRequired("domain")

	return cmd
}

func runResolve(cmd *cobra.Command, names []string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	domain := strings.ToLower(strings.TrimSpace(resolveDomain))
	if domain != "drug" && domain != "gene" {
		return errors.InvalidParam(fmt.Sprintf("invalid domain %q (must be drug or gene)", resolveDomain))
	}

	apiClient, err := requireClient(cliCtx)
	if err != nil {
		return err
	}

	cliCtx.Logger.Debug("resolving names",
		logging.String("domain", domain),
		logging.Int("count", len(names)))

	result, err := apiClient.Resolution().Resolve(cmd.Context(), &client.ResolveRequest{
		Domain: domain,
		Names:  names,
	})
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	return PrintResult(cmd, resolveView{result})
}

// resolveView adapts a ResolveResult for tabular rendering.
type resolveView struct {
	*client.ResolveResult
}

func (v resolveView) TableHeaders() []string {
	return []string{"RAW", "CANONICAL", "MATCHED", "SCORE"}
}

func (v resolveView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Results))
	for _, r := range v.Results {
		rows = append(rows, []string{
			r.Raw,
			r.Name,
			strconv.FormatBool(r.Matched),
			strconv.FormatFloat(r.Score, 'f', 2, 64),
		})
	}
	return rows
}

// NewAliasesCmd creates the aliases command for index diagnostics.
func NewAliasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases <domain>",
		Short: "Show alias-index statistics for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAliases(cmd, args[0])
		},
	}
}

func runAliases(cmd *cobra.Command, domain string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain != "drug" && domain != "gene" {
		return errors.InvalidParam(fmt.Sprintf("invalid domain %q (must be drug or gene)", domain))
	}

	apiClient, err := requireClient(cliCtx)
	if err != nil {
		return err
	}

	stats, err := apiClient.Resolution().Stats(cmd.Context(), domain)
	if err != nil {
		return fmt.Errorf("alias stats failed: %w", err)
	}

	return PrintResult(cmd, aliasStatsView{stats})
}

// aliasStatsView adapts AliasStats for tabular rendering.
type aliasStatsView struct {
	*client.AliasStats
}

func (v aliasStatsView) TableHeaders() []string {
	return []string{"DOMAIN", "KEYS", "CANONICALS", "COLLISIONS", "BUILD", "BUILT AT"}
}

func (v aliasStatsView) TableRows() [][]string {
	return [][]string{{
		v.Domain,
		strconv.Itoa(v.Keys),
		strconv.Itoa(v.Canonicals),
		strconv.Itoa(v.Collisions),
		time.Duration(v.BuildDuration).String(),
		v.BuiltAt,
	}}
}

//Personal.AI order the ending
