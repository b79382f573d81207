package interview

import (
	"context"
	"log/slog"

	"github.com/ashureev/interview-labs/internal/domain"
)

// FallbackReply is returned for a turn when either model call fails, so the
// conversation degrades gracefully instead of halting.
const FallbackReply = "I'm having trouble connecting to my knowledge base."

// TurnResult is the outcome of one interviewer turn.
type TurnResult struct {
	Reply     string                    `json:"reply"`
	Stage     domain.Stage              `json:"stage"`
	RateLimit *domain.GroqRateLimitInfo `json:"rateLimit,omitempty"`
}

// Orchestrator sequences classifier -> stage commit -> generator for every
// interviewer turn. It owns the stage validation: classifier output is
// committed only when it matches the enumerated stage set exactly after
// trimming; anything else is discarded with a warning and the declared stage
// is retained.
type Orchestrator struct {
	classifier *Classifier
	generator  *Generator
}

// NewOrchestrator creates an orchestrator over the two model calls.
func NewOrchestrator(classifier *Classifier, generator *Generator) *Orchestrator {
	return &Orchestrator{classifier: classifier, generator: generator}
}

// Advance runs one interviewer turn. The classifier is only consulted when
// the transcript holds at least two entries (a previous interviewer turn and
// the latest candidate turn); with fewer there is nothing for it to observe
// and the declared stage stands.
//
// Backward stage transitions are deliberately permitted: the classifier may
// return any enumerated stage regardless of the declared one, letting it
// self-correct a stage that advanced too eagerly.
//
// Advance never returns an error. If either model call fails the turn
// degrades to the fixed fallback reply with the introduction stage and no
// rate-limit snapshot; the failure is logged and never retried.
func (o *Orchestrator) Advance(ctx context.Context, transcript []domain.Message, ictx domain.Context) TurnResult {
	if len(transcript) >= 2 {
		raw, err := o.classifier.Classify(ctx, transcript, ictx)
		if err != nil {
			slog.Error("Stage classification failed", "error", err, "stage", ictx.Stage)
			return fallbackTurn()
		}

		if stage, ok := domain.ParseStage(raw); ok {
			ictx.Stage = stage
		} else {
			slog.Warn("Classifier returned invalid stage, keeping declared stage",
				"raw", raw, "stage", ictx.Stage)
		}
	}

	reply, snapshot, err := o.generator.Generate(ctx, transcript, ictx)
	if err != nil {
		slog.Error("Interviewer reply generation failed", "error", err, "stage", ictx.Stage)
		return fallbackTurn()
	}

	return TurnResult{Reply: reply, Stage: ictx.Stage, RateLimit: snapshot}
}

func fallbackTurn() TurnResult {
	return TurnResult{Reply: FallbackReply, Stage: domain.StageIntroduction}
}
