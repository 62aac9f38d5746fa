// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/meshintel/procure-engine/pkg/types"
)

const exportsDir = "exports"

// EvaluationExport is the YAML document written for one evaluated bid.
type EvaluationExport struct {
	RFP        RFPExportHeader            `yaml:"rfp"`
	Bid        BidExportHeader            `yaml:"bid"`
	Evaluation EvaluationExportBody       `yaml:"evaluation"`
	History    []types.EvaluationSnapshot `yaml:"history,omitempty"`
}

// RFPExportHeader carries the RFP fields included in an export.
type RFPExportHeader struct {
	ID    int64  `yaml:"id"`
	Title string `yaml:"title"`
}

// BidExportHeader carries the bid fields included in an export.
type BidExportHeader struct {
	ID         int64  `yaml:"id"`
	Filename   string `yaml:"filename"`
	VendorName string `yaml:"vendor_name,omitempty"`
	Status     string `yaml:"status"`
}

// EvaluationExportBody carries the scored outcome.
type EvaluationExportBody struct {
	AIScore      *float64                 `yaml:"ai_score,omitempty"`
	AIReasoning  string                   `yaml:"ai_reasoning,omitempty"`
	AISource     string                   `yaml:"ai_source,omitempty"`
	Requirements []types.RequirementCheck `yaml:"requirements,omitempty"`
	Annotations  []types.Annotation       `yaml:"annotations,omitempty"`
	HumanScore   *float64                 `yaml:"human_score,omitempty"`
	HumanNotes   string                   `yaml:"human_notes,omitempty"`
}

// ExportEvaluationYAML writes a bid's evaluation, including history, to
// dataDir/exports/bid-<id>-evaluation.yaml and returns the path.
func (s *Store) ExportEvaluationYAML(ctx context.Context, bidID int64) (string, error) {
	bid, err := s.GetBid(ctx, bidID)
	if err != nil {
		return "", err
	}
	if bid == nil {
		return "", validationErrorf("bid %d not found", bidID)
	}

	rfp, err := s.GetRFP(ctx, bid.RFPID)
	if err != nil {
		return "", err
	}
	history, err := s.ListEvaluationHistory(ctx, bidID)
	if err != nil {
		return "", err
	}

	export := EvaluationExport{
		Bid: BidExportHeader{
			ID:         bid.ID,
			Filename:   bid.Filename,
			VendorName: bid.VendorName,
			Status:     string(bid.Status),
		},
		Evaluation: EvaluationExportBody{
			AIScore:      bid.AIScore,
			AIReasoning:  bid.AIReasoning,
			AISource:     string(bid.AISource),
			Requirements: decodeRequirements(bid),
			Annotations:  DecodeAnnotations(bid),
			HumanScore:   bid.HumanScore,
			HumanNotes:   bid.HumanNotes,
		},
		History: history,
	}
	if rfp != nil {
		export.RFP = RFPExportHeader{ID: rfp.ID, Title: rfp.Title}
	}

	dir := filepath.Join(s.dataDir, exportsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating exports directory: %w", err)
	}

	data, err := yaml.Marshal(export)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("bid-%d-evaluation.yaml", bidID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

func decodeRequirements(bid *types.Bid) []types.RequirementCheck {
	if bid == nil || bid.AIRequirements == "" {
		return nil
	}
	var checks []types.RequirementCheck
	if err := json.Unmarshal([]byte(bid.AIRequirements), &checks); err != nil {
		return nil
	}
	return checks
}
