package practice

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathquest/internal/entity"
	"github.com/abhisek/mathquest/internal/logging"
	flow "github.com/abhisek/mathquest/internal/practice"
	"github.com/abhisek/mathquest/internal/problemgen"
	"github.com/abhisek/mathquest/internal/router"
	"github.com/abhisek/mathquest/internal/screen"
	"github.com/abhisek/mathquest/internal/screens/summary"
	"github.com/abhisek/mathquest/internal/state"
	"github.com/abhisek/mathquest/internal/ui/components"
	"github.com/abhisek/mathquest/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseSolved
	phaseFailed
)

// PracticeScreen serves generated problems one at a time.
type PracticeScreen struct {
	deps    screen.Deps
	log     *logging.Logger
	session *flow.Session
	loader  *flow.Loader
	ctx     context.Context
	cancel  context.CancelFunc

	topic      int
	difficulty entity.Difficulty

	phase    phase
	problem  entity.MathProblem
	choice   components.MultiChoice
	outcome  flow.Outcome
	feedback string
	errMsg   string
	notice   string
	showHelp bool

	explanation string
	explaining  bool
	explainErr  string

	confirmQuit bool
	started     time.Time
	points      int
	goalHit     bool
	mistakes    int
	badges      []string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a practice screen starting at topic and difficulty. An
// unknown topic falls back to the first syllabus topic.
func New(deps screen.Deps, topic string, difficulty entity.Difficulty) *PracticeScreen {
	ctx, cancel := context.WithCancel(context.Background())
	log := logging.OrNop(deps.Log)

	s := &PracticeScreen{
		deps:       deps,
		log:        log.With("screen", "practice"),
		session:    flow.NewSession(deps.State, nil),
		loader:     flow.NewLoader(deps.Generator, log),
		ctx:        ctx,
		cancel:     cancel,
		difficulty: entity.DifficultyBasic,
		started:    time.Now(),
	}
	for i, t := range entity.Topics {
		if t == topic {
			s.topic = i
		}
	}
	if difficulty.Valid() {
		s.difficulty = difficulty
	}
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.load()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End practice"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.phase {
	case phaseQuestion:
		hints := []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "T", Description: "Topic"},
			{Key: "[ ]", Description: "Difficulty"},
		}
		if s.session.HelpUnlocked() {
			hints = append(hints, layout.KeyHint{Key: "H", Description: "Help"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "End"})
	case phaseSolved:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "E", Description: "Full solution"},
			{Key: "S", Description: "Share"},
			{Key: "Esc", Description: "End"},
		}
	case phaseFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "T", Description: "Topic"},
			{Key: "Esc", Description: "End"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "End"}}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case problemLoadedMsg:
		return s.handleLoaded(msg)

	case prefetchDoneMsg:
		return s, nil

	case explanationMsg:
		return s.handleExplanation(msg)

	case components.ChoiceMsg:
		return s.submit(msg.Index)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PracticeScreen) topicName() string {
	return entity.Topics[s.topic]
}

// load requests a problem for the current topic and difficulty,
// superseding any request in flight.
func (s *PracticeScreen) load() tea.Cmd {
	s.phase = phaseLoading
	s.errMsg = ""
	s.notice = ""
	req := s.loader.Next(s.ctx, s.topicName(), s.difficulty)
	return func() tea.Msg {
		return problemLoadedMsg{Result: req.Run()}
	}
}

// prefetch generates the next problem while the student works.
func (s *PracticeScreen) prefetch() tea.Cmd {
	loader, ctx := s.loader, s.ctx
	topic, difficulty := s.topicName(), s.difficulty
	return func() tea.Msg {
		loader.Prefetch(ctx, topic, difficulty)
		return prefetchDoneMsg{}
	}
}

func (s *PracticeScreen) handleLoaded(msg problemLoadedMsg) (screen.Screen, tea.Cmd) {
	if !s.loader.Accept(msg.Result) {
		return s, nil
	}
	if err := msg.Result.Err; err != nil {
		if errors.Is(err, context.Canceled) {
			return s, nil
		}
		s.log.Warn("problem generation failed", "topic", s.topicName(), "error", err)
		s.phase = phaseFailed
		s.errMsg = failureText(err)
		return s, nil
	}

	s.present(msg.Result.Problem)
	return s, s.prefetch()
}

func (s *PracticeScreen) present(p entity.MathProblem) {
	s.session.Present(p)
	s.problem = p
	s.choice = components.NewMultiChoice(p.Options)
	s.phase = phaseQuestion
	s.outcome = flow.Outcome{}
	s.feedback = ""
	s.showHelp = false
	s.explanation = ""
	s.explaining = false
	s.explainErr = ""
}

func (s *PracticeScreen) submit(option int) (screen.Screen, tea.Cmd) {
	if s.phase != phaseQuestion {
		return s, nil
	}
	out, err := s.session.Submit(s.ctx, option)
	if err != nil {
		s.log.Warn("record answer", "error", err)
		s.notice = "Could not save your answer: " + err.Error()
		return s, nil
	}

	s.outcome = out
	s.feedback = out.Message
	s.notice = ""
	if out.MistakeSaved {
		s.mistakes++
	}
	if !out.Correct {
		s.choice.MarkTried(option)
		return s, nil
	}

	s.phase = phaseSolved
	s.choice.Reveal = s.problem.CorrectIndex
	s.choice.Locked = true
	s.points += out.Result.Points + out.Result.Bonus
	s.goalHit = s.goalHit || out.Result.GoalHit
	s.badges = append(s.badges, out.Result.NewBadges...)
	return s, nil
}

func (s *PracticeScreen) handleExplanation(msg explanationMsg) (screen.Screen, tea.Cmd) {
	if msg.ProblemID != s.problem.ID {
		return s, nil
	}
	s.explaining = false
	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return s, nil
		}
		s.explainErr = failureText(msg.Err)
		return s, nil
	}
	s.explanation = msg.Text
	return s, nil
}

// explain fetches the detailed solution once per problem.
func (s *PracticeScreen) explain() tea.Cmd {
	if s.deps.Explainer == nil || s.explaining || s.explanation != "" {
		return nil
	}
	s.explaining = true
	s.explainErr = ""
	ex, ctx, p := s.deps.Explainer, s.ctx, s.problem
	return func() tea.Msg {
		text, err := ex.Explain(ctx, p)
		return explanationMsg{ProblemID: p.ID, Text: text, Err: err}
	}
}

// share posts the problem to the student's study group.
func (s *PracticeScreen) share() {
	post, err := s.deps.State.PostDiscussion(s.ctx, s.problem)
	switch {
	case errors.Is(err, state.ErrNoGroup):
		s.notice = "Join a study group to share problems."
	case err != nil:
		s.notice = "Could not share: " + err.Error()
	default:
		s.notice = "Shared with " + post.GroupName + "."
	}
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.end()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		if s.session.Tally().Served == 0 {
			return s, s.end()
		}
		s.confirmQuit = true
		return s, nil
	}

	switch key {
	case "t":
		s.topic = (s.topic + 1) % len(entity.Topics)
		return s, s.load()
	case "]":
		if s.difficulty < entity.DifficultyAdvanced {
			s.difficulty++
			return s, s.load()
		}
		return s, nil
	case "[":
		if s.difficulty > entity.DifficultyBasic {
			s.difficulty--
			return s, s.load()
		}
		return s, nil
	}

	switch s.phase {
	case phaseQuestion:
		switch key {
		case "h":
			if s.session.HelpUnlocked() {
				s.showHelp = !s.showHelp
			}
			return s, nil
		case "e":
			if s.session.HelpUnlocked() {
				return s, s.explain()
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		return s, cmd

	case phaseSolved:
		switch key {
		case "enter", "n":
			return s, s.load()
		case "e":
			return s, s.explain()
		case "s":
			s.share()
		}
		return s, nil

	case phaseFailed:
		switch key {
		case "r", "enter":
			return s, s.load()
		}
	}
	return s, nil
}

// end stops loading, records study time and shows the summary.
func (s *PracticeScreen) end() tea.Cmd {
	s.loader.Cancel()
	if err := s.session.Finish(s.ctx); err != nil {
		s.log.Warn("record study time", "error", err)
	}
	s.cancel()

	if s.session.Tally().Served == 0 {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	data := summary.Data{
		Tally:    s.session.Tally(),
		Points:   s.points,
		GoalHit:  s.goalHit,
		Mistakes: s.mistakes,
		Badges:   s.badges,
		Duration: time.Since(s.started),
	}
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(data)}
	}
}

func failureText(err error) string {
	if errors.Is(err, problemgen.ErrRateLimited) {
		return "The question service is busy. Wait a moment and press R to try again."
	}
	return "Could not generate a question. Press R to try again."
}
