package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var schemaJSON bool

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the message index schema",
	Long: `Prints every field of the message schema with its type, cardinality
and options, followed by the schema fingerprint. An index can only be
opened with the schema it was created with.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaJSON, "json", false, "output the field table as JSON")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	if messageSchema == nil {
		return errors.New("message schema not configured")
	}
	schema := messageSchema.Schema()

	if schemaJSON {
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tTYPE\tVALUES\tOPTIONS")
	for _, f := range schema.Fields() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.Type, f.Cardinality, f.Options)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	cmd.Println()
	cmd.Printf("Fingerprint: %s\n", schema.Fingerprint())
	return nil
}
