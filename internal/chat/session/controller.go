package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/banzai-team/spoon-rebalancing/internal/agent"
	"github.com/banzai-team/spoon-rebalancing/internal/attachment"
	"github.com/banzai-team/spoon-rebalancing/internal/chat"
	"github.com/banzai-team/spoon-rebalancing/internal/domain"
	"github.com/banzai-team/spoon-rebalancing/pkg/log"
)

// State is the controller's submit-relevant state.
type State string

const (
	StateIdle                     State = "idle"
	StateAwaitingAttachmentUpload State = "awaiting_attachment_upload"
	StateAwaitingAgentReply       State = "awaiting_agent_reply"
)

// ErrReplyInFlight is returned when input is submitted while an agent
// reply is still pending. The surface disables the submit control during
// a pending reply, so hitting this means a caller bug.
var ErrReplyInFlight = errors.New("an agent reply is already in flight")

// Uploader persists a batch of selected files.
type Uploader interface {
	Upload(ctx context.Context, files []attachment.File) ([]domain.UploadedAttachment, error)
}

// Notifier receives user-visible failure notices. Backend failures are
// converted to exactly one notice each and never propagate further.
type Notifier interface {
	NotifyError(message string)
}

// Scope is the optional strategy/wallet context attached to every turn.
type Scope struct {
	StrategyID string
	WalletIDs  []string
}

// Config wires a Controller.
type Config struct {
	Relay    chat.Relayer
	History  chat.HistoryLoader
	Uploader Uploader
	Notifier Notifier
	Scope    Scope
	// HistoryLimit caps how many prior turns Seed loads. Zero means the
	// loader default.
	HistoryLimit int
	// NewMessageID generates ids for locally appended user messages.
	// Defaults to random UUIDs.
	NewMessageID func() string
}

// Controller owns one session's state: the message log, the pending
// input buffer, the pending attachment queue and the composing flag.
// Nothing else reads or mutates that state. At most one agent reply is in
// flight at a time; attachment uploads may overlap with a pending reply
// because they only touch the input buffer, never the log.
type Controller struct {
	relay     chat.Relayer
	history   chat.HistoryLoader
	uploader  Uploader
	notifier  Notifier
	scope     Scope
	histLimit int
	newID     func() string

	mu           sync.Mutex
	messages     []domain.ChatMessage
	pendingInput string
	pendingFiles []attachment.File
	composing    bool
	uploading    int
}

// NewController creates an Idle controller with an empty log.
func NewController(cfg Config) *Controller {
	newID := cfg.NewMessageID
	if newID == nil {
		newID = func() string { return uuid.New().String() }
	}
	return &Controller{
		relay:     cfg.Relay,
		history:   cfg.History,
		uploader:  cfg.Uploader,
		notifier:  cfg.Notifier,
		scope:     cfg.Scope,
		histLimit: cfg.HistoryLimit,
		newID:     newID,
	}
}

// Handle is the single reducer both event sources feed into.
func (c *Controller) Handle(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case InputSubmitted:
		return c.submit(ctx, ev.Text)
	case FilesSelected:
		return c.selectFiles(ctx, ev.Files)
	default:
		return fmt.Errorf("unknown session event %T", ev)
	}
}

// Seed loads prior turns and materialises them into the log, oldest
// first. A load failure is returned to the caller unreduced: no partial
// history is substituted.
func (c *Controller) Seed(ctx context.Context) error {
	history, err := c.history.Load(ctx, c.scope.StrategyID, c.histLimit)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The backend reports turns newest first; the transcript reads
	// chronologically.
	for i := len(history.Messages) - 1; i >= 0; i-- {
		turn := history.Messages[i]
		c.messages = append(c.messages,
			domain.ChatMessage{ID: c.newID(), Role: domain.RoleUser, Content: turn.UserMessage},
			domain.ChatMessage{ID: turn.MessageID, Role: domain.RoleAssistant, Content: turn.AgentResponse},
		)
	}
	return nil
}

// submit runs one user turn: optimistic append, relay, reconcile.
func (c *Controller) submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		// Empty input is rejected before any transition or network call.
		return nil
	}

	c.mu.Lock()
	if c.composing {
		c.mu.Unlock()
		return ErrReplyInFlight
	}

	// Optimistic append: the user message lands in the log before the
	// relay call resolves, and is never rolled back.
	userMsg := domain.ChatMessage{ID: c.newID(), Role: domain.RoleUser, Content: text}
	c.messages = append(c.messages, userMsg)
	c.pendingInput = ""
	c.composing = true

	prior := make([]domain.ChatMessage, len(c.messages))
	copy(prior, c.messages)
	scope := c.scope
	c.mu.Unlock()

	result, err := c.relay.Relay(ctx, &domain.ChatTurnRequest{
		Messages:   prior,
		StrategyID: scope.StrategyID,
		WalletIDs:  scope.WalletIDs,
		Message:    text,
	})

	c.mu.Lock()
	c.composing = false
	c.pendingFiles = nil
	if err == nil {
		c.messages = append(c.messages, result.AssistantMessage())
	}
	c.mu.Unlock()

	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("agent turn failed")
		c.notifier.NotifyError(relayNotice(err))
	}
	return nil
}

// selectFiles uploads one batch and reconciles the input buffer. The
// attachment queue is cleared whether or not the upload succeeds:
// attempted files are never retried automatically.
func (c *Controller) selectFiles(ctx context.Context, files []attachment.File) error {
	if len(files) == 0 {
		return nil
	}

	c.mu.Lock()
	c.pendingFiles = files
	c.uploading++
	c.mu.Unlock()

	attachments, err := c.uploader.Upload(ctx, files)

	c.mu.Lock()
	c.uploading--
	c.pendingFiles = nil
	if err == nil {
		lines := make([]string, len(attachments))
		for i, a := range attachments {
			lines[i] = "Attachment: " + a.URL
		}
		block := strings.Join(lines, "\n")
		if c.pendingInput != "" {
			c.pendingInput += "\n\n" + block
		} else {
			c.pendingInput = block
		}
	}
	c.mu.Unlock()

	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("attachment upload failed")
		c.notifier.NotifyError("File upload failed. Please try again.")
	}
	return nil
}

// State reports the controller state. A pending agent reply dominates a
// concurrent upload.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.composing:
		return StateAwaitingAgentReply
	case c.uploading > 0:
		return StateAwaitingAttachmentUpload
	default:
		return StateIdle
	}
}

// Composing reports whether an agent reply is pending; the submit
// control is disabled while it is true.
func (c *Controller) Composing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.composing
}

// Log returns a copy of the transcript.
func (c *Controller) Log() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// PendingInput returns the current input buffer.
func (c *Controller) PendingInput() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingInput
}

// SetPendingInput replaces the input buffer (the surface mirrors its
// text field into the controller as the user types).
func (c *Controller) SetPendingInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingInput = text
}

// relayNotice maps a relay failure to its user-visible notice. A backend
// rejection surfaces the backend's body verbatim.
func relayNotice(err error) string {
	var relayErr *agent.RelayError
	if errors.As(err, &relayErr) && relayErr.Body != "" {
		return "The agent could not answer: " + relayErr.Body
	}
	return "The agent could not be reached. Please try again."
}
