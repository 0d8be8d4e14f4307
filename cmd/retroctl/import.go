package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"retroboard/application/commands"
	"retroboard/infrastructure/di"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func importCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml|file.json>...",
		Short: "Import exported retrospectives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			retros := make([]commands.ImportRetrospectiveCommand, 0, len(args))
			for _, path := range args {
				retro, err := readRetrospective(path)
				if err != nil {
					return err
				}
				retros = append(retros, retro)
			}

			return withContainer(cmd.Context(), opts, func(c *di.Container) error {
				imported := make([]string, 0, len(retros))
				for _, retro := range retros {
					session, err := c.Importer.Import(cmd.Context(), retro)
					if err != nil {
						return fmt.Errorf("import %s: %w", retro.ID, err)
					}
					imported = append(imported, session.ID.String())
				}
				return printJSON(cmd, opts, map[string]interface{}{"imported": imported})
			})
		},
	}
}

// readRetrospective decodes one export, choosing the format by extension
func readRetrospective(path string) (commands.ImportRetrospectiveCommand, error) {
	var retro commands.ImportRetrospectiveCommand

	data, err := os.ReadFile(path)
	if err != nil {
		return retro, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &retro)
	default:
		err = json.Unmarshal(data, &retro)
	}
	if err != nil {
		return retro, fmt.Errorf("decode %s: %w", path, err)
	}
	return retro, nil
}
