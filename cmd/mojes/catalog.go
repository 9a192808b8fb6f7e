package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"mojes/internal/hostapi"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the host API names emitted verbatim",
	Long: `Print the host API catalog: the default rows plus the [[hostapi]] rows of
mojes.toml. Every listed name passes through lowering unchanged.`,
	Args: cobra.NoArgs,
	RunE: traced(runCatalog),
}

func init() {
	catalogCmd.Flags().String("kind", "", "only rows of this kind (object|function|method|property|constructor|constant)")
	catalogCmd.Flags().String("receiver", "", "only rows of this receiver")
}

func runCatalog(cmd *cobra.Command, _ []string) error {
	m, err := loadManifest(cmd)
	if err != nil {
		return err
	}
	cat, err := m.Catalog()
	if err != nil {
		return err
	}

	kindFilter, _ := cmd.Flags().GetString("kind")
	receiver, _ := cmd.Flags().GetString("receiver")
	var want *hostapi.Kind
	if kindFilter != "" {
		var k hostapi.Kind
		if err := k.UnmarshalText([]byte(kindFilter)); err != nil {
			return err
		}
		want = &k
	}

	var rows []hostapi.Entry
	for _, e := range cat.Entries() {
		if want != nil && e.Kind != *want {
			continue
		}
		if receiver != "" && e.Receiver != receiver {
			continue
		}
		rows = append(rows, e)
	}
	writeCatalogTable(cmd.OutOrStdout(), rows)
	return nil
}

func writeCatalogTable(w io.Writer, rows []hostapi.Entry) {
	header := []string{"RECEIVER", "NAME", "KIND", "JS", "RETURNS"}
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, header)
	for _, e := range rows {
		cells = append(cells, []string{orDash(e.Receiver), e.Name, e.Kind.String(), e.Emit(), orDash(e.Returns)})
	}

	widths := make([]int, len(header))
	for _, row := range cells {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	for _, row := range cells {
		var b strings.Builder
		for i, c := range row {
			if i == len(row)-1 {
				b.WriteString(c)
				break
			}
			b.WriteString(runewidth.FillRight(c, widths[i]+2))
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
