package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iota-uz/clubs/modules/clubs/infrastructure/extraction"
	"github.com/iota-uz/clubs/modules/clubs/presentation/mappers"
	"github.com/iota-uz/clubs/modules/clubs/services"
)

type importOptions struct {
	clubID      uuid.UUID
	file        string
	contentType string
	dryRun      bool
}

type importer interface {
	Import(ctx context.Context, req services.ImportRequest) (*services.ImportResult, error)
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Reconcile a roster file against the student registry and enrol the matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			svc := env.app.Service(services.ImportService{}).(*services.ImportService)
			return runImport(env.Context(ctx), svc, opts, cmd.OutOrStdout())
		},
	}

	var club string
	cmd.Flags().StringVar(&club, "club", "", "Target club UUID (required)")
	cmd.Flags().StringVar(&opts.file, "file", "", "Roster file: csv, xlsx, txt, pdf or image (required)")
	cmd.Flags().StringVar(&opts.contentType, "content-type", "", "Override the sniffed content type")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Classify entries without writing memberships")

	_ = cmd.MarkFlagRequired("club")
	_ = cmd.MarkFlagRequired("file")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(strings.TrimSpace(club))
		if err != nil {
			return withCode(exitUsage, fmt.Errorf("invalid --club: %w", err))
		}
		opts.clubID = id
		return nil
	}

	return cmd
}

func runImport(ctx context.Context, svc importer, opts importOptions, out io.Writer) error {
	info, err := os.Stat(opts.file)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("read --file: %w", err))
	}
	if info.IsDir() {
		return withCode(exitUsage, fmt.Errorf("--file %s is a directory", opts.file))
	}

	contentType, err := documentType(opts.file, opts.contentType)
	if err != nil {
		return withCode(exitUsage, err)
	}

	result, err := svc.Import(ctx, services.ImportRequest{
		ClubID: opts.clubID,
		Document: extraction.Document{
			Path:        opts.file,
			ContentType: contentType,
			Name:        filepath.Base(opts.file),
		},
		DryRun: opts.dryRun,
	})
	if err != nil {
		return withCode(importExitCode(err), err)
	}
	return writeJSONLine(out, mappers.ImportResultToViewModel(result))
}

// documentType prefers an explicit override, then sniffs the file. Plain text named *.csv is read as CSV.
func documentType(path, override string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		return extraction.BaseType(override), nil
	}
	sniffed, err := extraction.DetectFile(path)
	if err != nil {
		return "", err
	}
	if sniffed == extraction.ContentTypeText && strings.EqualFold(filepath.Ext(path), ".csv") {
		return extraction.ContentTypeCSV, nil
	}
	return sniffed, nil
}
