package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheuscscp/splitbill/models"
	"github.com/matheuscscp/splitbill/parser"
	"github.com/matheuscscp/splitbill/services/events"
	"github.com/matheuscscp/splitbill/services/ocr"
	"github.com/matheuscscp/splitbill/services/snapshots"
	"github.com/matheuscscp/splitbill/split"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type (
	// session owns the split being edited in a chat and turns user input into
	// replies. It never talks to Telegram directly.
	session struct {
		state        split.State
		openedID     string
		imagePreview *string

		store           snapshots.Store
		recognizer      ocr.Recognizer
		eventsService   events.Service
		snapshotTopicID string
		languageHint    string

		now   func() time.Time
		newID func() string
	}
)

func newSession(store snapshots.Store, recognizer ocr.Recognizer, eventsService events.Service,
	snapshotTopicID, languageHint string) *session {
	return &session{
		state:           split.NewState(nil),
		store:           store,
		recognizer:      recognizer,
		eventsService:   eventsService,
		snapshotTopicID: snapshotTopicID,
		languageHint:    languageHint,
		now:             time.Now,
		newID:           func() string { return uuid.New().String() },
	}
}

func (s *session) reset() {
	s.state = split.NewState(nil)
	s.openedID = ""
	s.imagePreview = nil
}

// handlePhoto reads a receipt photo.
func (s *session) handlePhoto(ctx context.Context, image []byte) string {
	text, err := s.recognizer.Recognize(ctx, image, s.languageHint)
	if err != nil {
		logrus.WithError(err).Warn("error recognizing receipt photo")
		return "Failed to process the bill image. Please try again."
	}
	preview := models.ImageDataURL(image)
	bill := parser.ParseReceipt(text)
	s.loadBill(bill, &preview)
	if len(bill.Items) == 0 {
		logrus.WithField("text", text).Info("no items found in receipt photo")
		return renderState(s.state) + fmt.Sprintf("\n\nI couldn't read any items. Add them with /%s <name> <quantity> <price> and fees with /%s <name> <amount>.", cmdMenu, cmdFee)
	}
	return renderState(s.state) + "\n\nNow add people with /add <name>, then /claim items."
}

// handleText runs a command, or reads text that is not one as a receipt.
func (s *session) handleText(ctx context.Context, text string) string {
	cmd, ok := parseCommand(text)
	if !ok {
		return s.loadTranscript(text)
	}

	switch cmd.name {
	case cmdStart, cmdHelp:
		return helpText
	case cmdItems:
		return renderState(s.state)
	case cmdAdd:
		return s.addParticipants(cmd.args)
	case cmdRename:
		oldName, newName, err := parseRename(cmd.args)
		if err != nil {
			return err.Error()
		}
		p, ok := s.state.ParticipantByName(oldName)
		if !ok {
			return fmt.Sprintf("I don't know anyone called '%s'.", oldName)
		}
		return s.apply(split.RenameParticipant{ID: p.ID, Name: newName})
	case cmdRemove:
		p, ok := s.state.ParticipantByName(cmd.args)
		if !ok {
			return fmt.Sprintf("I don't know anyone called '%s'.", cmd.args)
		}
		return s.apply(split.DeleteParticipant{ID: p.ID})
	case cmdClaim:
		return s.claim(cmd.args)
	case cmdMenu:
		entry, err := parseMenu(cmd.args)
		if err != nil {
			return err.Error()
		}
		return s.apply(split.AddManualEntry{Entry: entry})
	case cmdFee:
		entry, err := parseFee(cmd.args)
		if err != nil {
			return err.Error()
		}
		return s.apply(split.AddManualEntry{Entry: entry})
	case cmdSummary:
		return s.summary()
	case cmdSave:
		return s.save(ctx)
	case cmdHistory:
		saved, err := s.store.Load(ctx)
		if err != nil {
			return fmt.Sprintf("I had an unexpected error loading the saved bills: %v", err)
		}
		return renderHistory(saved)
	case cmdOpen:
		return s.open(ctx, cmd.args)
	case cmdForget:
		return s.forget(ctx, cmd.args)
	case cmdAbort:
		s.reset()
		return "Bill dropped. Send me the next receipt."
	default:
		return fmt.Sprintf("I don't know the command /%s. Send /help to see what I can do.", cmd.name)
	}
}

// loadTranscript reads pasted receipt text. Text without items leaves the
// current split alone, so stray chat messages can't wipe it.
func (s *session) loadTranscript(text string) string {
	bill := parser.ParseReceipt(text)
	if len(bill.Items) == 0 {
		logrus.WithField("text", text).Info("no items found in receipt text")
		return "I can't understand that. Let's try again."
	}
	s.loadBill(bill, nil)
	return renderState(s.state) + "\n\nNow add people with /add <name>, then /claim items."
}

func (s *session) loadBill(bill *models.Bill, preview *string) {
	s.state, _ = split.Apply(s.state, split.ReplaceBill{Bill: bill})
	s.openedID = ""
	s.imagePreview = preview
}

func (s *session) apply(a split.Action) string {
	next, err := split.Apply(s.state, a)
	if err != nil {
		return fmt.Sprintf("I couldn't do that: %v.", err)
	}
	s.state = next
	reply := renderState(s.state)
	if s.state.IsFullyAllocated() {
		reply += "\n\nEverything is claimed. Send /summary."
	}
	return reply
}

func (s *session) addParticipants(args string) string {
	names := parseNames(args)
	if len(names) == 0 {
		return fmt.Sprintf("%v: /%s <name>[, <name>...]", errUsage, cmdAdd)
	}
	next := s.state
	for _, name := range names {
		var err error
		if next, err = split.Apply(next, split.NewAddParticipant(name)); err != nil {
			return fmt.Sprintf("I couldn't add '%s': %v.", name, err)
		}
	}
	s.state = next
	return renderState(s.state)
}

func (s *session) claim(args string) string {
	c, err := parseClaim(args)
	if err != nil {
		return err.Error()
	}
	p, ok := s.state.ParticipantByName(c.participant)
	if !ok {
		return fmt.Sprintf("I don't know anyone called '%s'. Add them with /%s first.", c.participant, cmdAdd)
	}
	bill := s.state.Bill()
	if bill == nil {
		return fmt.Sprintf("I couldn't do that: %v.", split.ErrNoBill)
	}
	if c.position > len(bill.Items) {
		return fmt.Sprintf("There is no item number %d, the bill has %d items.", c.position, len(bill.Items))
	}
	return s.apply(split.SetAllocation{
		ParticipantID: p.ID,
		ItemID:        bill.Items[c.position-1].ID,
		Quantity:      c.quantity,
	})
}

func (s *session) summary() string {
	st, err := s.state.Settle()
	if err != nil {
		if errors.Is(err, split.ErrNotFullyAllocated) {
			return "Some items are not fully claimed yet:\n\n" + renderState(s.state)
		}
		return fmt.Sprintf("I couldn't do that: %v.", err)
	}
	return renderSettlement(st)
}

func (s *session) save(ctx context.Context) string {
	if _, err := s.state.Settle(); err != nil {
		return fmt.Sprintf("I can only save a fully claimed bill: %v.", err)
	}
	saved, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Sprintf("I had an unexpected error loading the saved bills: %v", err)
	}
	id := s.openedID
	if id == "" {
		id = s.newID()
	}
	snapshot := s.state.Snapshot(id, s.now(), s.imagePreview)
	saved, replaced := snapshots.Upsert(saved, snapshot)
	if err := s.store.Save(ctx, saved); err != nil {
		return fmt.Sprintf("I had an unexpected error saving the bill: %v", err)
	}
	s.publishSnapshotEvent(ctx, snapshot, false)
	s.reset()

	if replaced {
		return "Bill updated. Send me the next receipt."
	}
	return "Bill saved. Send me the next receipt."
}

func (s *session) open(ctx context.Context, args string) string {
	snapshot, err := s.savedAt(ctx, args, cmdOpen)
	if err != nil {
		return err.Error()
	}
	s.state = split.Restore(snapshot)
	s.openedID = snapshot.ID
	s.imagePreview = snapshot.ImagePreview

	reply := renderState(s.state)
	if st, err := s.state.Settle(); err == nil {
		reply += "\n\n" + renderSettlement(st)
	}
	return reply
}

func (s *session) forget(ctx context.Context, args string) string {
	snapshot, err := s.savedAt(ctx, args, cmdForget)
	if err != nil {
		return err.Error()
	}
	saved, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Sprintf("I had an unexpected error loading the saved bills: %v", err)
	}
	if saved, err = snapshots.Remove(saved, snapshot.ID); err != nil {
		return fmt.Sprintf("I couldn't do that: %v.", err)
	}
	if err := s.store.Save(ctx, saved); err != nil {
		return fmt.Sprintf("I had an unexpected error deleting the bill: %v", err)
	}
	s.publishSnapshotEvent(ctx, snapshot, true)
	if s.openedID == snapshot.ID {
		s.reset()
	}
	return "Bill deleted."
}

func (s *session) savedAt(ctx context.Context, args, cmd string) (models.Snapshot, error) {
	position, err := parsePosition(args, cmd)
	if err != nil {
		return models.Snapshot{}, err
	}
	saved, err := s.store.Load(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("I had an unexpected error loading the saved bills: %w", err)
	}
	if position > len(saved) {
		return models.Snapshot{}, fmt.Errorf("there is no saved bill number %d, send /%s to list them", position, cmdHistory)
	}
	return saved[position-1], nil
}

func (s *session) publishSnapshotEvent(ctx context.Context, snapshot models.Snapshot, deleted bool) {
	if s.snapshotTopicID == "" || s.eventsService == nil {
		return
	}
	ev := events.SnapshotSaved{
		SnapshotID: snapshot.ID,
		Deleted:    deleted,
		Date:       snapshot.Date,
	}
	if snapshot.Bill != nil {
		ev.Total = int64(snapshot.Bill.TotalAfterCharges)
	}
	id, err := events.PublishJSON(ctx, s.eventsService, s.snapshotTopicID, ev)
	if err != nil {
		logrus.WithError(err).Warn("error publishing snapshot event")
		return
	}
	logrus.WithField("message_id", id).Debug("snapshot event published")
}
