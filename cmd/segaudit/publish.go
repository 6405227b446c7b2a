package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nitishsanghi/SegAuditSegCI/pkg/artifact"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/artifactstore"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/catalog"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/contract"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/publish"
	"github.com/nitishsanghi/SegAuditSegCI/pkg/registry"
)

// openPublisher opens the configured store and catalog. The returned close
// function releases the catalog connection.
func (a *app) openPublisher(ctx context.Context) (*publish.Publisher, func(), error) {
	store, err := artifactstore.New(ctx, a.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open artifact store: %w", err)
	}
	cat, err := catalog.Open(ctx, a.cfg.Catalog.Driver, a.cfg.CatalogDSN())
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := cat.Close(); err != nil {
			a.logger.Warn("closing catalog", "error", err)
		}
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
	}
	pub := publish.New(store, cat,
		publish.WithTracerProvider(a.tracing.TracerProvider()),
		publish.WithLogger(a.logger))
	return pub, closeFn, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) publishCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "publish --kind KIND FILE",
		Short: "Validate an artifact, store its canonical form and print the receipt.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The file is read once; bad input is rejected before storage opens.
			payload, err := registry.ReadFile(args[0])
			if err == nil {
				_, err = registry.Decode(payload, kind)
			}
			if v, ok := contract.AsViolation(err); ok {
				a.reportViolation(args[0], v)
				return &exitErr{code: exitViolation}
			}
			if err != nil {
				return err
			}

			pub, closeFn, err := a.openPublisher(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entry, err := pub.Publish(cmd.Context(), kind, payload, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entry)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Artifact kind: one of "+joinKinds())
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var receipt bool
	cmd := &cobra.Command{
		Use:   "show DIGEST",
		Short: "Print a published artifact by blob hash.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, closeFn, err := a.openPublisher(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			art, entry, err := pub.Fetch(cmd.Context(), args[0])
			if errors.Is(err, catalog.ErrNotFound) {
				_, _ = fmt.Fprintf(a.stderr, "No published artifact with blob hash %s\n", args[0])
				return &exitErr{code: exitViolation}
			}
			if err != nil {
				return err
			}
			if receipt {
				return writeJSON(cmd.OutOrStdout(), entry)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", art.CanonicalJSON())
			return err
		},
	}
	cmd.Flags().BoolVar(&receipt, "receipt", false, "Print the catalog receipt instead of the artifact")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var (
		kind  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List publication receipts, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if kind != "" {
				if _, err := artifact.ParseKind(kind); err != nil {
					return err
				}
			}
			pub, closeFn, err := a.openPublisher(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			entries, err := pub.List(cmd.Context(), kind, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				created := e.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
				_, _ = fmt.Fprintf(out, "%s  %-14s %s  %s\n", created, e.Kind, e.BlobHash, e.Source)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Only list this kind")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum receipts to print (0 for all)")
	return cmd
}

func joinKinds() string {
	return strings.Join(registry.Kinds(), ", ")
}
