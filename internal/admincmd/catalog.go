package admincmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"dreamdesign/internal/domain/models"

	"github.com/spf13/cobra"
)

func newCatalogCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and edit catalog images",
	}

	cmd.AddCommand(
		newCatalogListCmd(rt),
		newCatalogExportCmd(rt),
		newCatalogResetCmd(rt),
		newCatalogSetURLCmd(rt),
		newCatalogSetLabelCmd(rt),
		newCatalogUploadCmd(rt),
	)

	return cmd
}

func newCatalogListCmd(rt *runtime) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List catalog records",
		Example: `  dreamdesign-admin catalog list --section gallery`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSECTION\tTYPE\tLABEL\tSRC")

			for _, rec := range rt.core.Catalog.GetAll() {
				if section != "" && string(rec.Section) != section {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rec.ID, rec.Section, rec.Type, rec.Label, shortSrc(rec.Src))
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&section, "section", "s", "", "only show one section (hero, auth, feature, gallery, style)")

	return cmd
}

func newCatalogExportCmd(rt *runtime) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current catalog as a seed file",
		Long: `Writes every record as a YAML seed document. Point catalog.seed_path at
the file to make the current images the new defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := rt.core.Catalog.Export()
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %d images to %s\n", len(rt.core.Catalog.GetAll()), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")

	return cmd
}

func newCatalogResetCmd(rt *runtime) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset [id]",
		Short: "Restore one record, or the whole catalog, to the seed",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("pass either an id or --all")
			}
			if !all && len(args) != 1 {
				return fmt.Errorf("an image id is required unless --all is set")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				rt.core.Catalog.ResetAll(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "catalog reset to defaults")
				return nil
			}

			if _, ok := rt.core.Catalog.Get(args[0]); !ok {
				return fmt.Errorf("image %q not found", args[0])
			}

			rt.core.Catalog.Reset(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s reset\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "reset every record")

	return cmd
}

func newCatalogSetURLCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <id> <url>",
		Short: "Point a record at a hosted image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := rt.core.Catalog.ReplaceViaURL(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", rec.ID, rec.Src)
			return nil
		},
	}
}

func newCatalogSetLabelCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "set-label <id> <label>",
		Short: "Rename a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := args[1]
			n := rt.core.Catalog.UpdateBatch(cmd.Context(), []models.ImagePatch{{ID: args[0], Label: &label}})
			if n == 0 {
				return fmt.Errorf("image %q not found", args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s labeled %q\n", args[0], args[1])
			return nil
		},
	}
}

func newCatalogUploadCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <id> <file>",
		Short: "Compress a local image and store it inline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			rec, err := rt.core.Catalog.ReplaceViaUpload(cmd.Context(), args[0], f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s replaced (%d bytes)\n", rec.ID, len(rec.Src))
			return nil
		},
	}
}

func shortSrc(src string) string {
	if strings.HasPrefix(src, "data:") {
		mime, _, _ := strings.Cut(strings.TrimPrefix(src, "data:"), ";")
		return fmt.Sprintf("<inline %s, %d bytes>", mime, len(src))
	}
	if len(src) > 72 {
		return src[:69] + "..."
	}
	return src
}
