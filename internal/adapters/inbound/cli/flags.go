package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicer/invoicer/internal/domain"
)

// writeJSON prints v as indented JSON on stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// monthFlag parses an optional YYYY-MM flag value. Empty means zero.
func monthFlag(name, value string) (domain.Month, error) {
	if value == "" {
		return domain.Month{}, nil
	}
	m, err := domain.ParseMonth(value)
	if err != nil {
		return domain.Month{}, fmt.Errorf("--%s: %w", name, err)
	}
	return m, nil
}

// kindsFlag returns the single kind named by --kind, or nil for all enabled.
func kindsFlag(value string) ([]domain.Kind, error) {
	if value == "" {
		return nil, nil
	}
	k, err := domain.ParseKind(value)
	if err != nil {
		return nil, fmt.Errorf("--kind: %w", err)
	}
	return []domain.Kind{k}, nil
}
