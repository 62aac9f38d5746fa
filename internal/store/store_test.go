// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/meshintel/procure-engine/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestRFP(t *testing.T, s *Store) *types.RFP {
	t.Helper()
	rfp, err := s.CreateRFP(context.Background(), types.RFP{
		Title:        "Data Center Networking",
		Requirements: "ISO 9001 certification. 24/7 support.",
	})
	if err != nil {
		t.Fatalf("creating rfp: %v", err)
	}
	return rfp
}

func createTestBid(t *testing.T, s *Store, rfpID int64) *types.Bid {
	t.Helper()
	bid, err := s.CreateBid(context.Background(), types.Bid{
		RFPID:    rfpID,
		Filename: "acme-bid.pdf",
		FilePath: "/tmp/acme-bid.pdf",
	})
	if err != nil {
		t.Fatalf("creating bid: %v", err)
	}
	return bid
}

func floatPtr(v float64) *float64 { return &v }

func TestRFPLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rfp := createTestRFP(t, s)
	if rfp.Status != types.RFPDraft {
		t.Errorf("status = %q, want draft default", rfp.Status)
	}
	if rfp.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	if err := s.UpdateRFPStatus(ctx, rfp.ID, types.RFPPublished); err != nil {
		t.Fatalf("publishing: %v", err)
	}
	got, err := s.GetRFP(ctx, rfp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != types.RFPPublished {
		t.Errorf("status = %q, want published", got.Status)
	}

	if err := s.UpdateRFPStatus(ctx, rfp.ID, "bogus"); err == nil {
		t.Error("expected error for unknown status")
	}

	var verr *ValidationError
	if err := s.UpdateRFPStatus(ctx, 9999, types.RFPClosed); !errors.As(err, &verr) {
		t.Errorf("missing rfp: got %v, want ValidationError", err)
	}
}

func TestGetRFPMissing(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetRFP(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil for missing rfp", got)
	}
}

func TestListRFPsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, title := range []string{"First", "Second"} {
		if _, err := s.CreateRFP(ctx, types.RFP{Title: title}); err != nil {
			t.Fatal(err)
		}
	}
	rfps, err := s.ListRFPs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rfps) != 2 || rfps[0].Title != "Second" {
		t.Errorf("got %+v, want newest first", rfps)
	}
}

func TestCreateBidRecordsAudit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rfp := createTestRFP(t, s)
	bid := createTestBid(t, s, rfp.ID)

	if bid.Status != types.BidUploaded {
		t.Errorf("status = %q, want Uploaded", bid.Status)
	}

	events, err := s.ListAuditEvents(ctx, bid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Action != AuditCreated {
		t.Errorf("audit trail = %+v, want single created event", events)
	}
}

func TestCreateBidLockedRFP(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rfp := createTestRFP(t, s)
	if err := s.SetBidsLocked(ctx, rfp.ID, true); err != nil {
		t.Fatal(err)
	}

	_, err := s.CreateBid(ctx, types.Bid{RFPID: rfp.ID, Filename: "late.pdf", FilePath: "/tmp/late.pdf"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("got %v, want ValidationError for locked rfp", err)
	}
}

func TestCreateBidMissingRFP(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateBid(context.Background(), types.Bid{RFPID: 777, Filename: "x.pdf", FilePath: "/tmp/x.pdf"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("got %v, want ValidationError for missing rfp", err)
	}
}

func TestSaveEvaluationSnapshotsHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rfp := createTestRFP(t, s)
	bid := createTestBid(t, s, rfp.ID)

	first := types.EvaluationResult{
		Score:        floatPtr(70),
		Reasoning:    "first pass",
		Source:       types.SourceModel,
		Requirements: []types.RequirementCheck{{Requirement: "ISO 9001", Compliant: true}},
		Annotations:  []types.Annotation{{Quote: "penalty clause applies", Reason: "review"}},
	}
	if err := s.SaveEvaluation(ctx, bid.ID, first, 3.2); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// First evaluation creates no snapshot; there was nothing to preserve.
	history, err := s.ListEvaluationHistory(ctx, bid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Errorf("history after first eval = %d entries, want 0", len(history))
	}

	second := types.EvaluationResult{
		Score:     floatPtr(85),
		Reasoning: "second pass",
		Source:    types.SourceModel,
	}
	if err := s.SaveEvaluation(ctx, bid.ID, second, 2.8); err != nil {
		t.Fatalf("second save: %v", err)
	}

	history, err = s.ListEvaluationHistory(ctx, bid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %d entries, want 1", len(history))
	}
	if history[0].AIScore == nil || *history[0].AIScore != 70 {
		t.Errorf("snapshot score = %v, want 70", history[0].AIScore)
	}

	got, err := s.GetBid(ctx, bid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.AIScore == nil || *got.AIScore != 85 {
		t.Errorf("bid score = %v, want 85", got.AIScore)
	}
	if got.Status != types.BidEvaluated {
		t.Errorf("status = %q, want Evaluated", got.Status)
	}
	if got.LastEvalSeconds == nil || *got.LastEvalSeconds != 2.8 {
		t.Errorf("last_eval_seconds = %v, want 2.8", got.LastEvalSeconds)
	}
}

func TestHumanReviewAndDecision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rfp := createTestRFP(t, s)
	bid := createTestBid(t, s, rfp.ID)

	if err := s.SaveHumanReview(ctx, bid.ID, floatPtr(92), "strong bid", "reviewer1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveHumanReview(ctx, bid.ID, floatPtr(150), "", ""); err == nil {
		t.Error("expected error for out-of-range score")
	}

	if err := s.DecideBid(ctx, bid.ID, true, "manager"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetBid(ctx, bid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != types.BidApproved {
		t.Errorf("status = %q, want Approved", got.Status)
	}
	if got.HumanScore == nil || *got.HumanScore != 92 {
		t.Errorf("human score = %v, want 92", got.HumanScore)
	}

	events, err := s.ListAuditEvents(ctx, bid.ID)
	if err != nil {
		t.Fatal(err)
	}
	var actions []string
	for _, ev := range events {
		actions = append(actions, ev.Action)
	}
	want := strings.Join([]string{AuditCreated, AuditHumanReview, AuditApproved}, ",")
	if got := strings.Join(actions, ","); got != want {
		t.Errorf("audit actions = %s, want %s", got, want)
	}
}

func TestSetAnnotationVerification(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rfp := createTestRFP(t, s)
	bid := createTestBid(t, s, rfp.ID)

	result := types.EvaluationResult{
		Score:  floatPtr(60),
		Source: types.SourceModel,
		Annotations: []types.Annotation{
			{Quote: "support limited to business hours", Reason: "SLA conflict"},
			{Quote: "penalty clause applies", Reason: "review"},
		},
	}
	if err := s.SaveEvaluation(ctx, bid.ID, result, 1.0); err != nil {
		t.Fatal(err)
	}

	if err := s.SetAnnotationVerification(ctx, bid.ID, 1, "verified", "confirmed on page 4"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetBid(ctx, bid.ID)
	if err != nil {
		t.Fatal(err)
	}
	anns := DecodeAnnotations(got)
	if len(anns) != 2 {
		t.Fatalf("got %d annotations, want 2", len(anns))
	}
	if anns[1].VerificationStatus != "verified" || anns[1].VerificationNote != "confirmed on page 4" {
		t.Errorf("annotation 1 = %+v, want verification recorded", anns[1])
	}
	if anns[0].VerificationStatus != "" {
		t.Errorf("annotation 0 gained verification state: %+v", anns[0])
	}

	var verr *ValidationError
	if err := s.SetAnnotationVerification(ctx, bid.ID, 5, "verified", ""); !errors.As(err, &verr) {
		t.Errorf("out-of-range index: got %v, want ValidationError", err)
	}
}

func TestDecodeCachesCorruptedJSON(t *testing.T) {
	bid := &types.Bid{
		TextChunks: `{"not": "an array"`,
		PageTexts:  `[truncated`,
	}
	if got := DecodeChunks(bid); got != nil {
		t.Errorf("corrupted chunks decoded to %v, want nil cache miss", got)
	}
	if got := DecodePages(bid); got != nil {
		t.Errorf("corrupted pages decoded to %v, want nil cache miss", got)
	}

	good := &types.Bid{TextChunks: `["chunk one", "chunk two"]`}
	if got := DecodeChunks(good); len(got) != 2 {
		t.Errorf("got %d chunks, want 2", len(got))
	}
}

func TestVendorCreateAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	verified := true
	created, err := s.CreateVendor(ctx, types.Vendor{
		Name:            "Acme Industrial",
		Website:         "https://acme.example",
		Domain:          "acme.example",
		WebsiteVerified: &verified,
		Representatives: []types.Representative{
			{Name: "Jo", Email: "jo@acme.example", PhoneVerified: nil, EmailVerified: &verified},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.WebsiteVerified == nil || !*created.WebsiteVerified {
		t.Error("website verification flag lost on round trip")
	}
	if len(created.Representatives) != 1 {
		t.Fatalf("got %d representatives, want 1", len(created.Representatives))
	}
	rep := created.Representatives[0]
	if rep.PhoneVerified != nil {
		t.Error("nil phone verification became non-nil")
	}
	if rep.EmailVerified == nil || !*rep.EmailVerified {
		t.Error("email verification flag lost")
	}

	byName, err := s.FindVendorByName(ctx, "ACME industrial")
	if err != nil {
		t.Fatal(err)
	}
	if byName == nil || byName.ID != created.ID {
		t.Errorf("case-insensitive name match failed: %+v", byName)
	}

	byWebsite, err := s.FindVendorByWebsite(ctx, "https://acme.example")
	if err != nil {
		t.Fatal(err)
	}
	if byWebsite == nil || byWebsite.ID != created.ID {
		t.Errorf("website match failed: %+v", byWebsite)
	}

	missing, err := s.FindVendorByName(ctx, "Nonexistent Co")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("got %+v, want nil for unknown vendor", missing)
	}
}

func TestVendorQAFlow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rfp := createTestRFP(t, s)

	q, err := s.CreateQuestion(ctx, types.VendorQA{
		RFPID:      rfp.ID,
		VendorName: "Acme Industrial",
		Question:   "Is remote delivery acceptable?",
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.Status != types.QAUnanswered {
		t.Errorf("status = %q, want Unanswered", q.Status)
	}

	if err := s.AnswerQuestion(ctx, q.ID, "Yes, with prior notice."); err != nil {
		t.Fatal(err)
	}

	questions, err := s.ListQuestions(ctx, rfp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if questions[0].Status != types.QAAnswered || questions[0].Answer == "" {
		t.Errorf("question = %+v, want answered", questions[0])
	}

	_, err = s.CreateQuestion(ctx, types.VendorQA{RFPID: 9999, Question: "orphan?"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("got %v, want ValidationError for missing rfp", err)
	}
}

func TestExportEvaluationYAML(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rfp := createTestRFP(t, s)
	bid := createTestBid(t, s, rfp.ID)

	result := types.EvaluationResult{
		Score:       floatPtr(88),
		Reasoning:   "solid technical response",
		Source:      types.SourceModel,
		Annotations: []types.Annotation{{Quote: "net ninety payment terms", Reason: "cash flow risk"}},
	}
	if err := s.SaveEvaluation(ctx, bid.ID, result, 4.1); err != nil {
		t.Fatal(err)
	}

	path, err := s.ExportEvaluationYAML(ctx, bid.ID)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	content := string(data)
	for _, want := range []string{"Data Center Networking", "acme-bid.pdf", "solid technical response", "net ninety payment terms"} {
		if !strings.Contains(content, want) {
			t.Errorf("export missing %q", want)
		}
	}

	if _, err := s.ExportEvaluationYAML(ctx, 9999); err == nil {
		t.Error("expected error for missing bid")
	}
}
