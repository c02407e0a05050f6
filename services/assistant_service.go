package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/prompts"

	"mealplanner/utils"
	"mealplanner/utils/apperr"
)

const assistantPrompt = `
You are a dietitian's assistant. You help plan meals for the dietitian's clients
and answer nutrition questions briefly and concretely.

{{.CombinedInput}}

Answer in plain text, in at most a few short paragraphs. Quote amounts in grams
or kcal where relevant. If the client's intake today is far from typical
guidance, say so.
`

// historyWindow is how many exchanges the assistant remembers per user.
const historyWindow = 5

type AssistantRequest struct {
	Question string `json:"question" binding:"required"`
	ClientID uint   `json:"client_id"`
	Speak    bool   `json:"speak"`
}

type AssistantReply struct {
	Answer    string `json:"answer"`
	Audio     string `json:"audio,omitempty"` // base64
	AudioType string `json:"audio_type,omitempty"`
}

// AssistantService answers questions with an LLM, grounded on the client's
// intake for the day, and can voice the reply.
type AssistantService struct {
	chain  *chains.LLMChain
	meals  *MealService
	speech SpeechSynthesizer
	now    func() time.Time

	mu      sync.Mutex
	history map[uint]*conversation
}

// conversation serializes turns for one user; the window buffer is not
// safe for concurrent use.
type conversation struct {
	mu  sync.Mutex
	buf *memory.ConversationWindowBuffer
}

// NewAssistantService takes a nil speech when text-to-speech is off, and a
// nil llm when no model is configured.
func NewAssistantService(llm llms.Model, meals *MealService, speech SpeechSynthesizer) *AssistantService {
	s := &AssistantService{
		meals:   meals,
		speech:  speech,
		now:     time.Now,
		history: make(map[uint]*conversation),
	}
	if llm != nil {
		s.chain = chains.NewLLMChain(llm, prompts.NewPromptTemplate(assistantPrompt, []string{"CombinedInput"}))
	}
	return s
}

func (s *AssistantService) conversationFor(userID uint) *conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.history[userID]
	if !ok {
		conv = &conversation{buf: memory.NewConversationWindowBuffer(historyWindow)}
		s.history[userID] = conv
	}
	return conv
}

// clientContext describes today's intake for the prompt.
func (s *AssistantService) clientContext(ctx context.Context, cred utils.Credentials, clientID uint) (string, error) {
	if clientID == 0 {
		return "", nil
	}
	sum, err := s.meals.DailySummary(ctx, cred, clientID, s.now())
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Client intake on %s (%d meals): ", sum.Date, sum.MealCount)
	fmt.Fprintf(&b, "%.0f kcal, %.1f g protein, %.1f g carbs, %.1f g fat, %.0f mg sodium, %.1f g sugar, %.1f g fibre.",
		sum.Summary.Calories, sum.Summary.Protein, sum.Summary.Carbs, sum.Summary.Fat,
		sum.Summary.Sodium, sum.Summary.Sugar, sum.Summary.Fiber)
	if sum.Body != nil {
		fmt.Fprintf(&b, " BMI %.1f (%s).", sum.Body.BMI, sum.Body.Category)
	}
	for _, w := range sum.Warnings {
		fmt.Fprintf(&b, "\nGuidance flag: %s", w.Message)
	}
	return b.String(), nil
}

func (s *AssistantService) Ask(ctx context.Context, cred utils.Credentials, req AssistantRequest) (*AssistantReply, error) {
	if s.chain == nil {
		return nil, apperr.Validation("assistant", "assistant is not configured")
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperr.Validation("assistant", "question is required")
	}
	clientCtx, err := s.clientContext(ctx, cred, req.ClientID)
	if err != nil {
		return nil, err
	}

	answer, err := s.converse(ctx, cred.UserID, clientCtx, question)
	if err != nil {
		return nil, err
	}

	reply := &AssistantReply{Answer: answer}
	if !req.Speak || s.speech == nil || answer == "" {
		return reply, nil
	}
	audio, err := s.speech.Synthesize(ctx, answer)
	if err != nil {
		// the text answer is still useful
		log.WithError(err).Warn("speech synthesis failed")
		return reply, nil
	}
	reply.Audio = base64.StdEncoding.EncodeToString(audio)
	reply.AudioType = "audio/mpeg"
	return reply, nil
}

// converse runs one turn with the user's history held for its duration.
func (s *AssistantService) converse(ctx context.Context, userID uint, clientCtx, question string) (string, error) {
	conv := s.conversationFor(userID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	history, err := conv.buf.LoadMemoryVariables(ctx, map[string]any{})
	if err != nil {
		return "", fmt.Errorf("loading memory variables: %w", err)
	}

	combined := fmt.Sprintf("Context: %s\nHistory: %v\nQuestion: %s", clientCtx, history["history"], question)
	result, err := chains.Call(ctx, s.chain, map[string]any{"CombinedInput": combined})
	if err != nil {
		return "", apperr.Upstream("assistant", 0, err)
	}
	text, _ := result["text"].(string)
	answer := stripCodeFences(text)

	if err := conv.buf.SaveContext(ctx, map[string]any{"input": question}, map[string]any{"output": answer}); err != nil {
		log.WithError(err).Warn("saving assistant memory")
	}
	return answer, nil
}

// Forget drops a user's conversation history.
func (s *AssistantService) Forget(userID uint) {
	s.mu.Lock()
	delete(s.history, userID)
	s.mu.Unlock()
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
