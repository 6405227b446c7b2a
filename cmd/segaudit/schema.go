package main

import (
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/registry"
)

func (a *app) schemaCmd() *cobra.Command {
	var kind, check string
	cmd := &cobra.Command{
		Use:   "schema --kind KIND [--check FILE]",
		Short: "Print the JSON Schema for a kind, or check a file against it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if check == "" {
				doc, err := registry.JSONSchema(kind)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}

			payload, err := registry.ReadFile(check)
			if err != nil {
				if v, ok := contract.AsViolation(err); ok {
					a.reportViolation(check, v)
					return &exitErr{code: exitViolation}
				}
				return err
			}
			if err := registry.CheckDocument(kind, payload); err != nil {
				var ve *jsonschema.ValidationError
				if !errors.As(err, &ve) {
					return err
				}
				_, _ = fmt.Fprintf(a.stderr, "%s: %v\n", check, err)
				return &exitErr{code: exitViolation}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "OK   %s\n", check)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Artifact kind: one of "+joinKinds())
	cmd.Flags().StringVar(&check, "check", "", "Validate FILE with the JSON Schema instead of printing it")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}
