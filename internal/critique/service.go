package critique

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/critiqlabs/critiq/internal/extract"
	"github.com/critiqlabs/critiq/internal/prompt"
	"github.com/critiqlabs/critiq/internal/store"
)

// Fixed leading entries of every conversation record. The system preamble
// frames follow-up turns; the placeholder stands in for the uploaded bytes,
// which are never persisted.
const (
	conversationPreamble = "You are a seasoned critic continuing a conversation about a critique you already gave for an uploaded creative work."
	uploadPlaceholder    = "[uploaded file]"
)

// Result is the outcome of one critique request. Exactly one of
// InitialCritique and FollowUpReply is set.
type Result struct {
	FileID          string    `json:"fileId"`
	InitialCritique *Critique `json:"initialCritique,omitempty"`
	FollowUpReply   string    `json:"followUpReply,omitempty"`
}

// Service runs critique generation end to end and owns the conversation
// flow around the store.
type Service struct {
	store     store.Store
	generator TextGenerator
}

// NewService creates a critique service.
func NewService(st store.Store, gen TextGenerator) *Service {
	return &Service{store: st, generator: gen}
}

// FileID returns the deterministic content hash identifying an upload.
func FileID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Generate produces a fresh critique: extract, build prompts, one API
// call, parse sections. Extraction failures were already absorbed into
// metadata absence; API failures propagate.
func (s *Service) Generate(ctx context.Context, category extract.Category, data []byte, bluntness int) (Critique, error) {
	ex, err := extract.Extract(data, category)
	if err != nil {
		return Critique{}, err
	}

	if ex.Metadata.Status == extract.MetadataAbsentParseFailure {
		slog.Debug("metadata extraction failed, continuing without it", "category", category)
	}

	userPrompt := prompt.Build(category, bluntness, ex)

	reply, err := s.generator.Generate(ctx, prompt.SystemPrompt, []store.Message{
		{Role: store.RoleUser, Content: userPrompt},
	})
	if err != nil {
		return Critique{}, err
	}

	return parseCritique(reply), nil
}

// GenerateWithContext is the three-state per-file flow:
//
//  1. no record: generate, persist the fixed 3-entry record, return the
//     initial critique;
//  2. record + follow-up question: append the question, send the entire
//     accumulated history, append and persist the reply, return it;
//  3. record + no question: return the stored initial critique without any
//     API call.
func (s *Service) GenerateWithContext(ctx context.Context, category extract.Category, data []byte, bluntness int, followUp string) (Result, error) {
	fileID := FileID(data)

	conversations, err := s.store.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load conversations: %w", err)
	}
	history, exists := conversations[fileID]

	switch {
	case !exists:
		critique, err := s.Generate(ctx, category, data, bluntness)
		if err != nil {
			return Result{}, err
		}

		encoded, err := json.Marshal(critique)
		if err != nil {
			return Result{}, fmt.Errorf("encode critique: %w", err)
		}

		conversations[fileID] = []store.Message{
			{Role: store.RoleSystem, Content: conversationPreamble},
			{Role: store.RoleUser, Content: uploadPlaceholder},
			{Role: store.RoleAssistant, Content: string(encoded)},
		}
		if err := s.store.Save(ctx, conversations); err != nil {
			return Result{}, fmt.Errorf("save conversations: %w", err)
		}

		slog.Info("initial critique generated", "file_id", fileID, "category", category)
		return Result{FileID: fileID, InitialCritique: &critique}, nil

	case followUp != "":
		history = append(history, store.Message{Role: store.RoleUser, Content: followUp})

		system, turns := splitSystem(history)
		reply, err := s.generator.Generate(ctx, system, turns)
		if err != nil {
			return Result{}, err
		}

		history = append(history, store.Message{Role: store.RoleAssistant, Content: reply})
		conversations[fileID] = history
		if err := s.store.Save(ctx, conversations); err != nil {
			return Result{}, fmt.Errorf("save conversations: %w", err)
		}

		slog.Info("follow-up answered", "file_id", fileID, "turns", len(history))
		return Result{FileID: fileID, FollowUpReply: reply}, nil

	default:
		critique, err := storedCritique(history)
		if err != nil {
			return Result{}, err
		}
		return Result{FileID: fileID, InitialCritique: &critique}, nil
	}
}

// splitSystem separates system entries from the conversational turns; the
// messages API takes the system prompt out of band.
func splitSystem(history []store.Message) (string, []store.Message) {
	var system string
	turns := make([]store.Message, 0, len(history))
	for _, msg := range history {
		if msg.Role == store.RoleSystem {
			system = msg.Content
			continue
		}
		turns = append(turns, msg)
	}
	return system, turns
}

// storedCritique decodes the initial critique from the record's fixed
// third entry.
func storedCritique(history []store.Message) (Critique, error) {
	if len(history) < 3 {
		return Critique{}, fmt.Errorf("conversation record is truncated (%d entries)", len(history))
	}

	var critique Critique
	if err := json.Unmarshal([]byte(history[2].Content), &critique); err != nil {
		return Critique{}, fmt.Errorf("decode stored critique: %w", err)
	}
	return critique, nil
}
