package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RxGene-Intelligence/pkg/client"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

var (
	interactionsDrugs  []string
	interactionsGenes  []string
	interactionsBudget int
)

// NewInteractionsCmd creates the interactions command.
func NewInteractionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactions",
		Short: "Query ranked drug-gene interactions",
		Long:  "Resolve the given drug and gene names and fetch their interaction records,\nranked by score and shared fairly under the output budget.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractions(cmd)
		},
	}

	cmd.Flags().StringSliceVar(&interactionsDrugs, "drug", nil, "drug name (repeatable)")
	cmd.Flags().StringSliceVar(&interactionsGenes, "gene", nil, "gene name (repeatable)")
	cmd.Flags().IntVar(&interactionsBudget, "budget", 0, "total interaction budget (0 = server default)")

	return cmd
}

func runInteractions(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	if len(interactionsDrugs) == 0 && len(interactionsGenes) == 0 {
		return errors.InvalidParam("at least one --drug or --gene is required")
	}
	if interactionsBudget < 0 {
		return errors.InvalidParam(fmt.Sprintf("budget must be non-negative, got %d", interactionsBudget))
	}

	apiClient, err := requireClient(cliCtx)
	if err != nil {
		return err
	}

	cliCtx.Logger.Debug("querying interactions",
		logging.Int("drugs", len(interactionsDrugs)),
		logging.Int("genes", len(interactionsGenes)),
		logging.Int("budget", interactionsBudget))

	result, err := apiClient.Interactions().Query(cmd.Context(), &client.InteractionsRequest{
		Drugs:  interactionsDrugs,
		Genes:  interactionsGenes,
		Budget: interactionsBudget,
	})
	if err != nil {
		return fmt.Errorf("interactions query failed: %w", err)
	}

	for _, u := range result.Unresolved {
		cliCtx.Logger.Warn("name did not resolve",
			logging.String("domain", u.Domain),
			logging.String("raw", u.Raw),
			logging.Float64("best_score", u.BestScore))
	}

	return PrintResult(cmd, interactionsView{result})
}

// interactionsView adapts an InteractionsResult for tabular rendering.  One
// row per interaction, name repeated per row, server ranking preserved.
type interactionsView struct {
	*client.InteractionsResult
}

func (v interactionsView) TableHeaders() []string {
	return []string{"NAME", "SCORE", "DRUG", "TYPES", "PUBLICATIONS"}
}

func (v interactionsView) TableRows() [][]string {
	var rows [][]string
	for _, name := range v.Interactions.Names() {
		list, _ := v.Interactions.Get(name)
		for _, itx := range list {
			score := "-"
			if itx.Score != nil {
				score = strconv.FormatFloat(*itx.Score, 'f', 4, 64)
			}
			drug := "-"
			if itx.Drug != nil && itx.Drug.Name != "" {
				drug = itx.Drug.Name
			}
			rows = append(rows, []string{
				name,
				score,
				drug,
				strings.Join(itx.Types, ","),
				strconv.Itoa(len(itx.Publications)),
			})
		}
	}
	return rows
}

//Personal.AI order the ending
