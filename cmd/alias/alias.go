// Package alias manages user merchant aliases
package alias

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/sms-ledger/cmd/root"
	"fjacquet/sms-ledger/internal/merchant"
	"fjacquet/sms-ledger/internal/models"

	"github.com/spf13/cobra"
)

// userAliasConfidence ranks user aliases above the built-in ones.
const userAliasConfidence = 100

var (
	category   string
	confidence int
	exclude    bool
)

// Cmd represents the alias command
var Cmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage merchant aliases",
	Long: `Merchant aliases map a merchant name pattern to a display name and a
category. An alias matches every merchant whose normalized name contains the
pattern; the alias with the highest confidence wins.`,
}

var addCmd = &cobra.Command{
	Use:   "add <pattern> <merchant>",
	Short: "Add or replace a merchant alias",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctn, err := root.RequireContainer()
		if err != nil {
			return err
		}
		return addAlias(cmd.Context(), ctn.GetResolver(), args[0], args[1], cmd.OutOrStdout())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List merchant aliases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctn, err := root.RequireContainer()
		if err != nil {
			return err
		}
		return listAliases(ctx(cmd), ctn.GetStore(), cmd.OutOrStdout())
	},
}

func init() {
	addCmd.Flags().StringVarP(&category, "category", "k", models.CategoryOther, "Category assigned to matching merchants")
	addCmd.Flags().IntVar(&confidence, "confidence", userAliasConfidence, "Rank among matching aliases (higher wins)")
	addCmd.Flags().BoolVar(&exclude, "exclude", false, "Leave matching transactions out of expense totals")
	Cmd.AddCommand(addCmd, listCmd)
}

func ctx(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

func addAlias(c context.Context, resolver *merchant.Resolver, pattern, name string, w io.Writer) error {
	if c == nil {
		c = context.Background()
	}
	saved, err := resolver.AddAlias(c, models.MerchantAlias{
		Pattern:           pattern,
		CanonicalMerchant: name,
		Category:          category,
		Confidence:        confidence,
		UserDefined:       true,

		ExcludeFromExpenses: exclude,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Alias %q -> %s (%s, confidence %d)\n",
		saved.Pattern, saved.CanonicalMerchant, saved.Category, saved.Confidence)
	return nil
}

type aliasLister interface {
	ListAliases(ctx context.Context) ([]models.MerchantAlias, error)
}

func listAliases(c context.Context, st aliasLister, w io.Writer) error {
	aliases, err := st.ListAliases(c)
	if err != nil {
		return fmt.Errorf("failed to list aliases: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tMERCHANT\tCATEGORY\tCONFIDENCE\tSOURCE\tEXCLUDED")
	for _, a := range aliases {
		src := "system"
		if a.UserDefined {
			src = "user"
		}
		excluded := ""
		if a.ExcludeFromExpenses {
			excluded = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", a.Pattern, a.CanonicalMerchant, a.Category, a.Confidence, src, excluded)
	}
	return tw.Flush()
}
