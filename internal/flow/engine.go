package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ussd_lms/internal/logger"
	"ussd_lms/internal/menu"
	"ussd_lms/internal/session"
	"ussd_lms/pkg"
)

const (
	invalidSelection = "Invalid selection. Please try again.\n\n"
	invalidResource  = "Invalid resource number. Please try again.\n\n"
	goodbyeText      = "Thank you for using LMS USSD. Goodbye!"
	summaryFallback  = "Unable to generate summary at this time."
	sendFailedText   = "Failed to send SMS. Please try again.\n\n"
)

// subjectByOption and gradeByOption map menu tokens to the labels the
// upstream resource store filters on.
var subjectByOption = map[string]string{
	"1": "Mathematics",
	"2": "Science",
	"3": "English",
	"4": "History",
	"5": "Geography",
}

var gradeByOption = map[string]string{
	"1": "K-5",
	"2": "6-8",
	"3": "9-12",
	"4": "college",
}

// Result is the outcome of one state-machine step. Continues is false
// only when the session has reached its terminal screen.
type Result struct {
	Text      string
	Continues bool
}

type handlerFunc func(ctx context.Context, s *session.Session, input string) Result

// Engine advances a session by one input token. Dispatch is a lookup
// table keyed by the session's current state; each handler owns that
// state's transition and error policy.
type Engine struct {
	catalog    *menu.Catalog
	finder     ResourceFinder
	notifier   Notifier
	summarizer Summarizer
	timeout    time.Duration
	handlers   map[string]handlerFunc
}

// NewEngine wires the state machine over its collaborators. The timeout
// bounds every collaborator call.
func NewEngine(catalog *menu.Catalog, finder ResourceFinder, notifier Notifier, summarizer Summarizer, timeout time.Duration) *Engine {
	e := &Engine{
		catalog:    catalog,
		finder:     finder,
		notifier:   notifier,
		summarizer: summarizer,
		timeout:    timeout,
	}
	e.handlers = map[string]handlerFunc{
		menu.StateMain:           e.handleMain,
		menu.StateBrowseSubjects: e.handleBrowseSubjects,
		menu.StateBrowseGrades:   e.handleBrowseGrades,
		menu.StateResourceList:   e.handleResourceList,
		menu.StateRequestSMS:     e.handleRequestSMS,
		menu.StateGetAISummary:   e.handleGetAISummary,
		menu.StateHelp:           e.handleHelp,
	}
	return e
}

// Step consumes the newest input token and mutates the session in place.
// The caller persists (or deletes) the session afterwards.
func (e *Engine) Step(ctx context.Context, s *session.Session, input string) Result {
	input = strings.TrimSpace(input)

	// A state the catalog does not know means the stored session is
	// stale or corrupt; restart it rather than failing the request.
	if _, ok := e.handlers[s.State]; !ok {
		logger.Warn().Str("session_id", s.ID).Str("state", s.State).Msg("resetting session with unknown state")
		s.State = menu.StateMain
		s.ClearSelection()
	}

	// First contact, or a trailing separator: show the current screen.
	if input == "" {
		return e.continueWith(e.screen(s))
	}

	return e.handlers[s.State](ctx, s, input)
}

func (e *Engine) handleMain(ctx context.Context, s *session.Session, input string) Result {
	target, ok := e.transition(menu.StateMain, input)
	if !ok {
		return e.invalid(s)
	}
	if target == menu.Terminate {
		return Result{Text: goodbyeText, Continues: false}
	}
	s.State = target
	return e.continueWith(e.screen(s))
}

func (e *Engine) handleBrowseSubjects(ctx context.Context, s *session.Session, input string) Result {
	if input == "6" {
		s.ClearSelection()
		s.State = menu.StateMain
		return e.continueWith(e.screen(s))
	}
	subject, ok := subjectByOption[input]
	if !ok {
		return e.invalid(s)
	}
	s.Subject = subject
	s.State = menu.StateBrowseGrades
	return e.continueWith(e.screen(s))
}

func (e *Engine) handleBrowseGrades(ctx context.Context, s *session.Session, input string) Result {
	if input == "5" {
		s.ClearSelection()
		s.State = menu.StateBrowseSubjects
		return e.continueWith(e.screen(s))
	}
	grade, ok := gradeByOption[input]
	if !ok {
		return e.invalid(s)
	}
	s.Grade = grade

	// A fresh fetch always replaces any cached listing from an earlier
	// selection in this session.
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	resources, err := e.finder.FindResources(callCtx, s.Subject, s.Grade)
	cancel()
	if err != nil {
		logger.Error().Err(err).Str("subject", s.Subject).Str("grade", s.Grade).Msg("resource lookup failed")
		resources = nil
	}
	s.Resources = resources
	s.State = menu.StateResourceList
	return e.continueWith(e.screen(s))
}

func (e *Engine) handleResourceList(ctx context.Context, s *session.Session, input string) Result {
	// With an empty cache the screen offered only the reduced option
	// set, so the inputs map accordingly.
	if len(s.Resources) == 0 {
		switch input {
		case "1":
			s.ClearSelection()
			s.State = menu.StateBrowseSubjects
		case "2":
			s.ClearSelection()
			s.State = menu.StateMain
		default:
			return e.invalid(s)
		}
		return e.continueWith(e.screen(s))
	}

	target, ok := e.transition(menu.StateResourceList, input)
	if !ok {
		return e.invalid(s)
	}
	if target == menu.StateBrowseSubjects || target == menu.StateMain {
		s.ClearSelection()
	}
	s.State = target
	return e.continueWith(e.screen(s))
}

func (e *Engine) handleRequestSMS(ctx context.Context, s *session.Session, input string) Result {
	r, ok := e.pickResource(s, input)
	if !ok {
		return e.continueWith(invalidResource + e.screen(s))
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	err := e.notifier.SendResourceLink(callCtx, s.PhoneNumber, r)
	cancel()

	s.State = menu.StateResourceList
	if err != nil {
		logger.Error().Err(err).Str("session_id", s.ID).Str("resource_id", r.ID).Msg("sms send failed")
		return e.continueWith(sendFailedText + e.screen(s))
	}
	return e.continueWith(fmt.Sprintf("SMS sent with link to: %s\n\n%s", r.Title, e.screen(s)))
}

func (e *Engine) handleGetAISummary(ctx context.Context, s *session.Session, input string) Result {
	r, ok := e.pickResource(s, input)
	if !ok {
		return e.continueWith(invalidResource + e.screen(s))
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	summary, err := e.summarizer.Summarize(callCtx, r)
	cancel()
	if err != nil {
		logger.Error().Err(err).Str("session_id", s.ID).Str("resource_id", r.ID).Msg("summary failed")
		summary = summaryFallback
	}

	s.State = menu.StateResourceList
	return e.continueWith(fmt.Sprintf("AI Summary for %s:\n\n%s\n\n%s", r.Title, summary, e.screen(s)))
}

func (e *Engine) handleHelp(ctx context.Context, s *session.Session, input string) Result {
	s.State = menu.StateMain
	return e.continueWith(e.screen(s))
}

// pickResource resolves a numeric token against the cached listing.
// Non-numeric and out-of-range tokens are rejected alike; the session
// never advances on either.
func (e *Engine) pickResource(s *session.Session, input string) (pkg.Resource, bool) {
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(s.Resources) {
		return pkg.Resource{}, false
	}
	return s.Resources[n-1], true
}

func (e *Engine) transition(state, input string) (string, bool) {
	node, err := e.catalog.Resolve(state)
	if err != nil {
		return "", false
	}
	if target, ok := node.Transitions[input]; ok {
		return target, true
	}
	if target, ok := node.Transitions[menu.Wildcard]; ok {
		return target, true
	}
	return "", false
}

func (e *Engine) invalid(s *session.Session) Result {
	return e.continueWith(invalidSelection + e.screen(s))
}

func (e *Engine) continueWith(text string) Result {
	return Result{Text: text, Continues: true}
}

// screen renders the display text for the session's current state,
// including any dynamic substitution the template calls for.
func (e *Engine) screen(s *session.Session) string {
	switch s.State {
	case menu.StateResourceList:
		if len(s.Resources) == 0 {
			return fmt.Sprintf("No resources found for %s - %s\n\n1. Try different subject/grade\n2. Back to main", s.Subject, s.Grade)
		}
		text, err := e.catalog.Render(s.State, FormatResourceList(s.Resources))
		if err != nil {
			return goodbyeText
		}
		return text
	case menu.StateRequestSMS, menu.StateGetAISummary:
		text, err := e.catalog.Render(s.State, strconv.Itoa(len(s.Resources)))
		if err != nil {
			return goodbyeText
		}
		return text
	default:
		text, err := e.catalog.Render(s.State, "")
		if err != nil {
			// Unreachable after load-time validation.
			logger.Error().Err(err).Str("state", s.State).Msg("render failed")
			return goodbyeText
		}
		return text
	}
}
