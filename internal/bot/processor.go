package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cursosjujuy/camila/internal/catalog"
	"github.com/cursosjujuy/camila/internal/format"
	"github.com/cursosjujuy/camila/internal/genai"
	"github.com/cursosjujuy/camila/internal/logger"
	"github.com/cursosjujuy/camila/internal/metrics"
	"github.com/cursosjujuy/camila/internal/ratelimit"
	"github.com/cursosjujuy/camila/internal/sentry"
	"github.com/cursosjujuy/camila/internal/session"
	"github.com/cursosjujuy/camila/internal/textutil"
)

// ApologyReply is sent whenever a turn errors out. Deliberately vague:
// the user cannot act on internal failure detail.
const ApologyReply = "Lo siento, ocurrió un error."

// ClarifyReply asks the user to narrow the question. Used when the
// fallback is rate limited or disabled.
const ClarifyReply = "¿Sobre qué curso o información puntual necesitás ayuda?"

// fallbackName labels fallback turns in logs and metrics.
const fallbackName = "fallback"

// Processor runs one inbound message through the matcher chain and,
// when nothing claims it, through the language model fallback. Turns of
// the same chat are serialized so session reads and writes stay
// ordered; distinct chats process concurrently.
type Processor struct {
	registry   *Registry
	cat        *catalog.Catalog
	sessions   *session.Store
	responder  genai.Responder // nil when no API key is configured
	llmLimiter *ratelimit.LLMRateLimiter
	logger     *logger.Logger
	metrics    *metrics.Metrics
	llmTimeout time.Duration

	chatLocks sync.Map // chatID -> *sync.Mutex
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Registry       *Registry
	Catalog        *catalog.Catalog
	Sessions       *session.Store
	Responder      genai.Responder
	LLMRateLimiter *ratelimit.LLMRateLimiter
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	LLMTimeout     time.Duration
}

// NewProcessor creates a new message processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		registry:   cfg.Registry,
		cat:        cfg.Catalog,
		sessions:   cfg.Sessions,
		responder:  cfg.Responder,
		llmLimiter: cfg.LLMRateLimiter,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		llmTimeout: cfg.LLMTimeout,
	}
}

// Process handles one inbound text message and returns the reply to
// send. An empty reply means the message should be ignored.
func (p *Processor) Process(ctx context.Context, chatID, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	lock := p.lockFor(chatID)
	lock.Lock()
	defer lock.Unlock()

	sess := p.sessions.Get(chatID)
	p.sessions.Touch(chatID)

	turn := NewTurn(chatID, text, &sess)
	start := time.Now()

	if reply, name, ok := p.registry.Dispatch(turn); ok {
		p.sessions.Save(chatID, sess)
		p.metrics.RecordTurn(name, "success", time.Since(start).Seconds())
		p.logger.WithModule("bot").WithField("matcher", name).InfoContext(ctx, "turn handled")
		return reply
	}

	return p.fallback(ctx, turn, start)
}

// fallback runs the single LLM call and post-processes its reply. Any
// failure degrades to the apology without touching session state.
func (p *Processor) fallback(ctx context.Context, turn *Turn, start time.Time) string {
	log := p.logger.WithModule("bot").WithField("matcher", fallbackName)

	if p.llmLimiter != nil && !p.llmLimiter.Allow(turn.ChatID) {
		p.metrics.RecordLLMRequest(p.providerLabel(), "rate_limited", 0)
		p.metrics.RecordTurn(fallbackName, "success", time.Since(start).Seconds())
		log.WarnContext(ctx, "fallback rate limited")
		return ClarifyReply
	}

	if p.responder == nil {
		p.metrics.RecordTurn(fallbackName, "success", time.Since(start).Seconds())
		log.WarnContext(ctx, "fallback disabled, asking user to narrow the question")
		return ClarifyReply
	}

	llmCtx := ctx
	if p.llmTimeout > 0 {
		var cancel context.CancelFunc
		llmCtx, cancel = context.WithTimeout(ctx, p.llmTimeout)
		defer cancel()
	}

	llmStart := time.Now()
	raw, err := p.responder.Reply(llmCtx, turn.Text)
	llmDuration := time.Since(llmStart).Seconds()

	if err != nil {
		p.metrics.RecordLLMRequest(p.providerLabel(), "error", llmDuration)
		p.metrics.RecordTurn(fallbackName, "error", time.Since(start).Seconds())
		log.WithError(err).ErrorContext(ctx, "fallback failed")
		sentry.CaptureExceptionWithContext(ctx, err)
		return ApologyReply
	}
	p.metrics.RecordLLMRequest(p.providerLabel(), "success", llmDuration)

	sess := turn.Session
	if mentioned := p.cat.TitlesMentioned(textutil.Normalize(raw)); len(mentioned) > 0 {
		titles := make([]string, 0, len(mentioned))
		for _, c := range mentioned {
			titles = append(titles, c.Title)
		}
		sess.PendingCourses = titles
		sess.LastLink = mentioned[0].FormURL
	}

	reply, url := format.Render(raw)
	if url != "" {
		sess.LastLink = url
	}

	p.sessions.Save(turn.ChatID, *sess)
	p.metrics.RecordTurn(fallbackName, "success", time.Since(start).Seconds())
	log.InfoContext(ctx, "turn handled")
	return reply
}

// lockFor returns the chat's serialization mutex, creating it on first
// use. Locks are tiny and never removed; the set of active chats is
// bounded by the audience.
func (p *Processor) lockFor(chatID string) *sync.Mutex {
	if lock, ok := p.chatLocks.Load(chatID); ok {
		return lock.(*sync.Mutex)
	}
	lock, _ := p.chatLocks.LoadOrStore(chatID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (p *Processor) providerLabel() string {
	if p.responder == nil {
		return "none"
	}
	return p.responder.Provider().String()
}
