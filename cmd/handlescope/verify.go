package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"handlescope/internal/codec"
	"handlescope/internal/report"
	"handlescope/internal/repository"
	"handlescope/internal/repository/sqlite"
)

// errVerify marks an investigation directory that failed its checks
var errVerify = errors.New("investigation failed verification")

func newVerifyCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <investigation-dir>",
		Short: "Check an investigation directory against its manifest and evidence store",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("verify takes exactly one investigation directory, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyInvestigation(cmd, args[0], stdout)
		},
	}
}

func verifyInvestigation(cmd *cobra.Command, dir string, stdout io.Writer) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return usagef("%s is not an investigation directory", dir)
	}

	mismatched, err := report.VerifyManifest(dir)
	if err != nil {
		return err
	}
	for _, path := range mismatched {
		fmt.Fprintf(stdout, "[!] %s does not match %s\n", path, report.ManifestFile)
	}

	doc, err := readDocument(filepath.Join(dir, report.JSONReportFile), codec.NewJSONCodec())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "[*] %s: run %s, %d records, %d failures\n",
		doc.Username, doc.RunID, len(doc.Records), doc.FailuresTotal)

	stored := true
	dbPath := filepath.Join(dir, report.EvidenceDBFile)
	if _, err := os.Stat(dbPath); err == nil {
		repo, err := sqlite.New(dbPath)
		if err != nil {
			return err
		}
		stored, err = matchesStore(cmd, repo, doc, stdout)
		_ = repo.Close()
		if err != nil {
			return err
		}
	}

	if len(mismatched) > 0 || !stored {
		return errVerify
	}
	fmt.Fprintf(stdout, "[+] %s verified\n", dir)
	return nil
}

func readDocument(path string, importer codec.Importer) (*codec.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := importer.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// matchesStore compares the evidence store's copy of the run with the report
func matchesStore(cmd *cobra.Command, repo repository.Repository, doc *codec.Document, stdout io.Writer) (bool, error) {
	inv, err := repo.GetInvestigation(cmd.Context(), doc.RunID)
	if errors.Is(err, repository.ErrNotFound) {
		fmt.Fprintf(stdout, "[!] run %s missing from %s\n", doc.RunID, report.EvidenceDBFile)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(inv.Records) != len(doc.Records) || len(inv.Failures) != doc.FailuresTotal {
		fmt.Fprintf(stdout, "[!] %s holds %d records and %d failures\n",
			report.EvidenceDBFile, len(inv.Records), len(inv.Failures))
		return false, nil
	}
	return true, nil
}
