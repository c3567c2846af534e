// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/relevance-engine/internal/crossref"
)

var crossrefCmd = &cobra.Command{
	Use:   "crossref",
	Short: "Build or refresh the entity cross-reference artifact",
	Long: `Crossref joins the metadata CSV with the entity-extraction JSONL file by
row position and persists the identifier-keyed result. The two sources must
come from the same corpus release: a row-count mismatch is rejected.

The index command reuses a persisted artifact; run crossref with --force
after replacing either source file.`,
	RunE: runCrossref,
}

func init() {
	crossrefCmd.Flags().String("metadata", "", "metadata CSV cross-referenced positionally with the NER file")
	crossrefCmd.Flags().String("ner", "", "entity-extraction JSONL file ordered by doc index")
	crossrefCmd.Flags().String("artifact", "crossref.json", "output path of the artifact")
	crossrefCmd.Flags().Bool("force", false, "rebuild even when the artifact exists")

	rootCmd.AddCommand(crossrefCmd)
}

func runCrossref(cmd *cobra.Command, args []string) error {
	metadata := stringSetting(cmd, "metadata", "crossref.metadata_csv", "")
	ner := stringSetting(cmd, "ner", "crossref.ner_path", "")
	artifact := stringSetting(cmd, "artifact", "crossref.artifact_path", "crossref.json")
	force, _ := cmd.Flags().GetBool("force")

	if metadata == "" || ner == "" {
		return fmt.Errorf("both --metadata and --ner are required")
	}

	if force {
		table, err := crossref.Build(metadata, ner, os.Stdout)
		if err != nil {
			return err
		}
		return crossref.Save(table, artifact)
	}

	_, err := crossref.LoadOrBuild(metadata, ner, artifact, os.Stdout)
	return err
}
