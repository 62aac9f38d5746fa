// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/meshintel/procure-engine/internal/chunk"
	"github.com/meshintel/procure-engine/internal/container"
	"github.com/meshintel/procure-engine/internal/evaluate"
	"github.com/meshintel/procure-engine/internal/model"
	"github.com/meshintel/procure-engine/internal/pdftext"
	"github.com/meshintel/procure-engine/internal/store"
	"github.com/meshintel/procure-engine/internal/vendor"
	"github.com/meshintel/procure-engine/internal/verify"
	"github.com/meshintel/procure-engine/pkg/types"
)

var bidCmd = &cobra.Command{
	Use:   "bid",
	Short: "Upload, evaluate, and review vendor bids",
}

// --- upload subcommand ---

var bidUploadCmd = &cobra.Command{
	Use:   "upload [rfp-id] [pdf-path]",
	Short: "Upload a bid PDF against an RFP",
	Long: `Upload stores the PDF, extracts its text through the containerized
pdftotext, chunks the text for later evaluation, and resolves the vendor
identity from the document. Text extraction failures are not fatal: the
bid is stored and can be evaluated from whatever text is available.`,
	Args: cobra.ExactArgs(2),
	RunE: runBidUpload,
}

func runBidUpload(cmd *cobra.Command, args []string) error {
	rfpID, err := parseID(args[0])
	if err != nil {
		return err
	}
	pdfPath := args[1]
	ctx := context.Background()

	s, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	storedPath, err := copyUpload(pdfPath, storeConfig().DataDir)
	if err != nil {
		return err
	}

	doc := extractText(pdfPath, os.Stderr)
	chunks := chunk.Split(doc.Full)

	chunksJSON, _ := json.Marshal(chunks)
	pagesJSON, _ := json.Marshal(doc.Pages)

	gateway := model.NewOllamaGateway(modelConfig())
	extraction := vendor.NewExtractor(gateway, modelConfig()).Extract(ctx, doc.Full)

	bid, err := s.CreateBid(ctx, types.Bid{
		RFPID:             rfpID,
		Filename:          filepath.Base(pdfPath),
		FilePath:          storedPath,
		ExtractedText:     doc.Full,
		TextChunks:        string(chunksJSON),
		PageTexts:         string(pagesJSON),
		EvaluationSummary: extraction.Summary,
		VendorName:        extraction.Name,
	})
	if err != nil {
		return err
	}

	var verifier vendor.Verifier
	if cfg := verificationConfig(); cfg.Enabled {
		verifier = verify.NewChecker(cfg.HTTPConfig)
	}
	resolved, err := vendor.NewMatcher(s, verifier).Resolve(ctx, extraction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: vendor resolution failed: %v\n", err)
	} else {
		if err := s.SetBidVendor(ctx, bid.ID, resolved.ID, resolved.Name); err != nil {
			return err
		}
	}

	fmt.Printf("Uploaded bid %d (%s), %d chunks, %d pages, vendor: %s\n",
		bid.ID, bid.Filename, len(chunks), len(doc.Pages), extraction.Name)
	return nil
}

// extractText runs the containerized pdftotext. Any failure degrades to an
// empty document with a warning; the bid survives without text.
func extractText(pdfPath string, w io.Writer) types.DocumentText {
	rt, err := container.DetectRuntime()
	if err != nil {
		fmt.Fprintf(w, "warning: text extraction skipped: %v\n", err)
		return types.DocumentText{}
	}
	ex, err := pdftext.NewContainerExtractor(rt)
	if err != nil {
		fmt.Fprintf(w, "warning: text extraction skipped: %v\n", err)
		return types.DocumentText{}
	}
	doc, err := ex.Extract(pdfPath)
	if err != nil {
		fmt.Fprintf(w, "warning: text extraction failed: %v\n", err)
		return types.DocumentText{}
	}
	return doc
}

func copyUpload(pdfPath, dataDir string) (string, error) {
	dir := filepath.Join(dataDir, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating uploads directory: %w", err)
	}
	src, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer src.Close()

	dstPath := filepath.Join(dir, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filepath.Base(pdfPath)))
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copying upload: %w", err)
	}
	return dstPath, nil
}

// --- list / show subcommands ---

var bidListCmd = &cobra.Command{
	Use:   "list [rfp-id]",
	Short: "List bids on an RFP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rfpID, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		bids, err := s.ListBids(context.Background(), rfpID)
		if err != nil {
			return err
		}
		if len(bids) == 0 {
			fmt.Println("No bids.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tVENDOR\tFILE\tSTATUS\tAI SCORE\tHUMAN SCORE")
		for _, b := range bids {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				b.ID, b.VendorName, b.Filename, b.Status,
				formatScore(b.AIScore), formatScore(b.HumanScore))
		}
		return tw.Flush()
	},
}

var bidShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a bid's evaluation, annotations, and audit trail",
	Args:  cobra.ExactArgs(1),
	RunE:  runBidShow,
}

func runBidShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	ctx := context.Background()

	s, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	bid, err := s.GetBid(ctx, id)
	if err != nil {
		return err
	}
	if bid == nil {
		return fmt.Errorf("bid %d not found", id)
	}

	fmt.Printf("Bid %d: %s\n", bid.ID, bid.Filename)
	fmt.Printf("  Vendor: %s\n", bid.VendorName)
	fmt.Printf("  Status: %s\n", bid.Status)
	if bid.AIScore != nil {
		fmt.Printf("  AI score: %.1f (%s)\n", *bid.AIScore, bid.AISource)
		fmt.Printf("  Reasoning: %s\n", bid.AIReasoning)
	}
	if bid.HumanScore != nil {
		fmt.Printf("  Human score: %.1f\n", *bid.HumanScore)
	}
	if bid.HumanNotes != "" {
		fmt.Printf("  Human notes: %s\n", bid.HumanNotes)
	}

	var checks []types.RequirementCheck
	if bid.AIRequirements != "" {
		_ = json.Unmarshal([]byte(bid.AIRequirements), &checks)
	}
	if len(checks) > 0 {
		fmt.Println("  Requirements:")
		for _, c := range checks {
			mark := "no"
			if c.Compliant {
				mark = "yes"
			}
			fmt.Printf("    [%s] %s: %s\n", mark, c.Requirement, c.Note)
		}
	}

	anns := store.DecodeAnnotations(bid)
	if len(anns) > 0 {
		fmt.Println("  Annotations:")
		for i, a := range anns {
			page := "?"
			if a.Page != nil {
				page = strconv.Itoa(*a.Page)
			}
			fmt.Printf("    %d. p%s %q: %s", i, page, a.Quote, a.Reason)
			if a.VerificationStatus != "" {
				fmt.Printf(" [%s]", a.VerificationStatus)
			}
			if a.ReviewerNotes != "" {
				fmt.Printf(" (notes: %s)", a.ReviewerNotes)
			}
			fmt.Println()
		}
	}

	events, err := s.ListAuditEvents(ctx, id)
	if err != nil {
		return err
	}
	if len(events) > 0 {
		fmt.Println("  Audit trail:")
		for _, ev := range events {
			actor := ev.Actor
			if actor == "" {
				actor = "system"
			}
			fmt.Printf("    %s  %s (%s)\n", ev.CreatedAt.Format(time.RFC3339), ev.Action, actor)
		}
	}

	history, err := s.ListEvaluationHistory(ctx, id)
	if err != nil {
		return err
	}
	if len(history) > 0 {
		fmt.Printf("  Prior evaluations: %d\n", len(history))
	}
	return nil
}

// --- evaluate subcommand ---

var bidEvaluateCmd = &cobra.Command{
	Use:   "evaluate [id]",
	Short: "Evaluate a bid against its RFP requirements",
	Long: `Evaluate scores the bid through the configured model endpoint. With no
endpoint configured, or on any provider failure, a deterministic fallback
result is stored instead, tagged with source "fallback". Reviewer notes
and verification state on prior annotations carry forward when the new
evaluation surfaces the same quotes. --context feeds reviewer notes into
the prompt for a re-evaluation round.`,
	Args: cobra.ExactArgs(1),
	RunE: runBidEvaluate,
}

func runBidEvaluate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	contextNotes, _ := cmd.Flags().GetString("context")
	ctx := context.Background()

	s, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	bid, err := s.GetBid(ctx, id)
	if err != nil {
		return err
	}
	if bid == nil {
		return fmt.Errorf("bid %d not found", id)
	}
	rfp, err := s.GetRFP(ctx, bid.RFPID)
	if err != nil {
		return err
	}
	if rfp == nil {
		return fmt.Errorf("rfp %d not found", bid.RFPID)
	}

	prior := store.DecodeAnnotations(bid)

	req := evaluate.Request{
		Requirements:  rfp.Requirements,
		BidText:       bid.ExtractedText,
		Summary:       bid.EvaluationSummary,
		Chunks:        store.DecodeChunks(bid),
		ReviewerNotes: contextNotes,
	}

	orch := evaluate.NewOrchestrator(model.NewOllamaGateway(modelConfig()), modelConfig())

	start := time.Now()
	var result types.EvaluationResult
	if contextNotes != "" {
		result = orch.EvaluateWithContext(ctx, req)
	} else {
		result = orch.Evaluate(ctx, req)
	}
	elapsed := time.Since(start).Seconds()

	result.Annotations = evaluate.CarryReviewerState(result.Annotations, prior)
	result.Annotations = evaluate.CorrectPages(result.Annotations, store.DecodePages(bid))

	if err := s.SaveEvaluation(ctx, id, result, elapsed); err != nil {
		return err
	}

	score := "-"
	if result.Score != nil {
		score = fmt.Sprintf("%.1f", *result.Score)
	}
	fmt.Printf("Evaluated bid %d: score %s (source: %s, %.1fs, %d annotations)\n",
		id, score, result.Source, elapsed, len(result.Annotations))
	return nil
}

// --- review / decision subcommands ---

var bidReviewCmd = &cobra.Command{
	Use:   "review [id]",
	Short: "Record a human review score and notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		score, _ := cmd.Flags().GetFloat64("score")
		notes, _ := cmd.Flags().GetString("notes")
		actor, _ := cmd.Flags().GetString("actor")

		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		var scorePtr *float64
		if cmd.Flags().Changed("score") {
			scorePtr = &score
		}
		if err := s.SaveHumanReview(context.Background(), id, scorePtr, notes, actor); err != nil {
			return err
		}
		fmt.Printf("Recorded review on bid %d\n", id)
		return nil
	},
}

var bidApproveCmd = &cobra.Command{
	Use:   "approve [id]",
	Short: "Approve a bid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decideBid(cmd, args[0], true)
	},
}

var bidRejectCmd = &cobra.Command{
	Use:   "reject [id]",
	Short: "Reject a bid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decideBid(cmd, args[0], false)
	},
}

func decideBid(cmd *cobra.Command, idArg string, approve bool) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	actor, _ := cmd.Flags().GetString("actor")

	s, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DecideBid(context.Background(), id, approve, actor); err != nil {
		return err
	}
	if approve {
		fmt.Printf("Approved bid %d\n", id)
	} else {
		fmt.Printf("Rejected bid %d\n", id)
	}
	return nil
}

// --- annotate subcommand ---

var bidAnnotateCmd = &cobra.Command{
	Use:   "annotate [id] [index]",
	Short: "Record reviewer notes or a verification verdict on an annotation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid annotation index %q: %w", args[1], err)
		}
		notes, _ := cmd.Flags().GetString("notes")
		status, _ := cmd.Flags().GetString("status")
		note, _ := cmd.Flags().GetString("note")

		if notes == "" && status == "" {
			return fmt.Errorf("provide --notes or --status")
		}

		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()
		ctx := context.Background()

		if notes != "" {
			if err := s.SetAnnotationNotes(ctx, id, index, notes); err != nil {
				return err
			}
		}
		if status != "" {
			if err := s.SetAnnotationVerification(ctx, id, index, status, note); err != nil {
				return err
			}
		}
		fmt.Printf("Updated annotation %d on bid %d\n", index, id)
		return nil
	},
}

// --- export subcommand ---

var bidExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a bid's evaluation to YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		path, err := s.ExportEvaluationYAML(context.Background(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	},
}

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func init() {
	bidEvaluateCmd.Flags().String("context", "", "reviewer notes to feed into a re-evaluation round")

	bidReviewCmd.Flags().Float64("score", 0, "human score in [0,100]")
	bidReviewCmd.Flags().String("notes", "", "review notes")
	bidReviewCmd.Flags().String("actor", "", "who performed the review")

	bidApproveCmd.Flags().String("actor", "", "who made the decision")
	bidRejectCmd.Flags().String("actor", "", "who made the decision")

	bidAnnotateCmd.Flags().String("notes", "", "reviewer notes for the annotation")
	bidAnnotateCmd.Flags().String("status", "", "verification verdict: verified or rejected")
	bidAnnotateCmd.Flags().String("note", "", "verification note accompanying the verdict")

	bidCmd.AddCommand(bidUploadCmd)
	bidCmd.AddCommand(bidListCmd)
	bidCmd.AddCommand(bidShowCmd)
	bidCmd.AddCommand(bidEvaluateCmd)
	bidCmd.AddCommand(bidReviewCmd)
	bidCmd.AddCommand(bidApproveCmd)
	bidCmd.AddCommand(bidRejectCmd)
	bidCmd.AddCommand(bidAnnotateCmd)
	bidCmd.AddCommand(bidExportCmd)

	rootCmd.AddCommand(bidCmd)
}
