package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gogotex/docregistry/internal/document"
	"github.com/gogotex/docregistry/internal/document/service"
	"github.com/spf13/cobra"
)

// opener builds the service for one command invocation.
type opener func(ctx context.Context) (service.Service, func(), error)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "document",
		Short:        "Manage documents in the registry",
		SilenceUsage: true,
	}

	// run opens the service, calls fn and prints its result as JSON.
	run := func(cmd *cobra.Command, fn func(ctx context.Context, svc service.Service) (any, error)) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		svc, cleanup, err := open(ctx)
		if err != nil {
			return err
		}
		defer cleanup()
		out, err := fn(ctx, svc)
		if err != nil {
			return fmt.Errorf("%s: %w", document.Code(err), err)
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	var description string
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var desc *string
			if cmd.Flags().Changed("description") {
				desc = &description
			}
			return run(cmd, func(ctx context.Context, svc service.Service) (any, error) {
				return svc.AddDocument(ctx, args[0], desc)
			})
		},
	}
	addCmd.Flags().StringVarP(&description, "description", "d", "", "document description")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all documents in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, svc service.Service) (any, error) {
				return svc.GetDocuments(ctx)
			})
		},
	}

	findCmd := &cobra.Command{
		Use:   "find KEYWORD",
		Short: "Find documents whose name contains KEYWORD (case-sensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc service.Service) (any, error) {
				return svc.FindDocuments(ctx, args[0])
			})
		},
	}

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc service.Service) (any, error) {
				return svc.GetDocument(ctx, args[0])
			})
		},
	}

	var newName, newDescription string
	updateCmd := &cobra.Command{
		Use:   "update ID",
		Short: "Rename or re-describe a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name, desc *string
			if cmd.Flags().Changed("name") {
				name = &newName
			}
			if cmd.Flags().Changed("description") {
				desc = &newDescription
			}
			return run(cmd, func(ctx context.Context, svc service.Service) (any, error) {
				return svc.UpdateDocument(ctx, args[0], name, desc)
			})
		},
	}
	updateCmd.Flags().StringVarP(&newName, "name", "n", "", "new name")
	updateCmd.Flags().StringVarP(&newDescription, "description", "d", "", "new description")

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a document and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc service.Service) (any, error) {
				return svc.DeleteDocument(ctx, args[0])
			})
		},
	}

	root.AddCommand(addCmd, listCmd, findCmd, getCmd, updateCmd, deleteCmd)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
