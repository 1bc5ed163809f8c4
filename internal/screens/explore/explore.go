package explore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	stem "github.com/stemlab/exploratorium/internal/explore"
	"github.com/stemlab/exploratorium/internal/screen"
	"github.com/stemlab/exploratorium/internal/ui/components"
	"github.com/stemlab/exploratorium/internal/ui/layout"
	"github.com/stemlab/exploratorium/internal/upload"
)

// Runner is the part of the generator this screen drives.
type Runner interface {
	Run(ctx context.Context, req stem.GenerationRequest, observe stem.Observer) (*stem.Result, error)
}

// Form fields in tab order.
type field int

const (
	fieldActivity field = iota
	fieldTopic
	fieldCount
	fieldImage
	fieldGenerate
	numFields
)

// eventBuffer bounds how far the generation goroutine may run ahead of
// the UI.
const eventBuffer = 64

// ExploreScreen is the main screen: a form on the left, generated content
// and the uploaded image on the right.
type ExploreScreen struct {
	runner Runner

	focus    field
	activity components.Selector
	topic    components.TextInput
	count    components.TextInput
	image    components.TextInput
	generate components.Button

	// generation state
	run        int
	running    bool
	cancel     context.CancelFunc
	events     chan tea.Msg
	phase      stem.Phase
	notice     string
	output     strings.Builder
	errMsg     string
	tier       stem.Tier
	wordsDone  int
	wordsTotal int
	stopped    bool

	// image state
	imageInfo *upload.Info
	imageErr  string
}

var _ screen.Screen = (*ExploreScreen)(nil)
var _ screen.KeyHintProvider = (*ExploreScreen)(nil)
var _ screen.Closer = (*ExploreScreen)(nil)
var _ screen.EscapeHandler = (*ExploreScreen)(nil)

// New creates the explore screen over runner.
func New(runner Runner) *ExploreScreen {
	names := make([]string, 0, len(stem.Activities()))
	for _, a := range stem.Activities() {
		names = append(names, a.String())
	}

	s := &ExploreScreen{
		runner:   runner,
		activity: components.NewSelector(names),
		topic:    components.NewTextInput("e.g. renewable energy", false, 120),
		count:    components.NewTextInput(strconv.Itoa(stem.DefaultCount), true, 2),
		image:    components.NewTextInput("path/to/photo.png", false, 512),
	}
	s.count.SetValue(strconv.Itoa(stem.DefaultCount))
	s.generate = components.NewButton(stem.GenerateLabel, s.startGeneration)
	s.activity.Focused = true
	return s
}

func (s *ExploreScreen) Init() tea.Cmd {
	return nil
}

func (s *ExploreScreen) Title() string {
	return "Explore"
}

func (s *ExploreScreen) KeyHints() []layout.KeyHint {
	if s.running {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Stop"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	hints := []layout.KeyHint{{Key: "Tab", Description: "Next field"}}
	switch s.focus {
	case fieldActivity:
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Choose"})
	case fieldImage:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Load image"})
	default:
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: stem.GenerateLabel})
	}
	return append(hints,
		layout.KeyHint{Key: "Esc", Description: "Back"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

// HandlesEscape reports whether Esc stops a generation rather than
// leaving the screen.
func (s *ExploreScreen) HandlesEscape() bool {
	return s.running
}

// Close stops any in-flight generation.
func (s *ExploreScreen) Close() {
	s.stop()
}

func (s *ExploreScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case phaseMsg:
		return s.handlePhase(msg)

	case resultReadyMsg:
		if msg.Run == s.run {
			s.tier = msg.Tier
			s.wordsTotal = msg.TotalWords
		}
		return s, s.waitForEvent(msg.Run)

	case wordMsg:
		if msg.Run == s.run && !s.stopped {
			s.output.WriteString(msg.Word)
			s.wordsDone++
		}
		return s, s.waitForEvent(msg.Run)

	case generationFailedMsg:
		if msg.Run == s.run && !errors.Is(msg.Err, context.Canceled) {
			s.errMsg = "Generation failed: " + msg.Err.Error()
		}
		return s, s.waitForEvent(msg.Run)

	case streamClosedMsg:
		if msg.Run == s.run {
			s.finish()
		}
		return s, nil

	case imageLoadedMsg:
		return s.handleImage(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *ExploreScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if s.running {
			s.stop()
		}
		return s, nil
	case "tab":
		return s, s.setFocus((s.focus + 1) % numFields)
	case "shift+tab":
		return s, s.setFocus((s.focus + numFields - 1) % numFields)
	case "enter":
		switch s.focus {
		case fieldImage:
			return s, s.loadImage()
		case fieldTopic, fieldCount:
			return s, s.startGeneration()
		}
	}
	return s.forward(msg)
}

func (s *ExploreScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldActivity:
		s.activity, cmd = s.activity.Update(msg)
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldCount:
		s.count, cmd = s.count.Update(msg)
	case fieldImage:
		s.image, cmd = s.image.Update(msg)
	case fieldGenerate:
		s.generate, cmd = s.generate.Update(msg)
	}
	return s, cmd
}

func (s *ExploreScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.activity.Focused = f == fieldActivity
	s.generate.Focused = f == fieldGenerate
	s.topic.Blur()
	s.count.Blur()
	s.image.Blur()

	switch f {
	case fieldTopic:
		return s.topic.Focus()
	case fieldCount:
		return s.count.Focus()
	case fieldImage:
		return s.image.Focus()
	}
	return nil
}

// request validates the form. A non-empty return string is the message to
// show in place of output.
func (s *ExploreScreen) request() (stem.GenerationRequest, string) {
	activity := stem.Activities()[s.activity.Selected]

	count := stem.DefaultCount
	if strings.TrimSpace(s.count.Value()) != "" {
		n, err := s.count.NumericValue()
		if err != nil || n < stem.MinCount || n > stem.MaxCount {
			s.count.Submit(false)
			return stem.GenerationRequest{}, stem.ErrCountOutOfRange.Error()
		}
		count = n
	}

	req, err := stem.NewRequest(activity, s.topic.Value(), count)
	if errors.Is(err, stem.ErrEmptyTopic) {
		return stem.GenerationRequest{}, stem.PromptForInput
	}
	if err != nil {
		return stem.GenerationRequest{}, err.Error()
	}
	return req, ""
}

func (s *ExploreScreen) startGeneration() tea.Cmd {
	if s.running {
		return nil
	}

	s.resetOutput()
	req, problem := s.request()
	if problem != "" {
		s.errMsg = problem
		return nil
	}

	s.run++
	run := s.run
	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, eventBuffer)

	s.running = true
	s.cancel = cancel
	s.events = events
	s.generate.Disabled = true

	go s.generateInBackground(ctx, run, req, events)

	var loadImage tea.Cmd
	if strings.TrimSpace(s.image.Value()) != "" && s.imageInfo == nil {
		loadImage = s.loadImage()
	}
	return tea.Batch(s.waitForEvent(run), loadImage)
}

func (s *ExploreScreen) generateInBackground(ctx context.Context, run int, req stem.GenerationRequest, events chan<- tea.Msg) {
	defer close(events)

	send := func(msg tea.Msg) bool {
		select {
		case events <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	res, err := s.runner.Run(ctx, req, func(p stem.Phase) {
		send(phaseMsg{Run: run, Phase: p})
	})
	if err != nil {
		send(generationFailedMsg{Run: run, Err: err})
		return
	}

	total := len(strings.Split(res.Text, " "))
	if !send(resultReadyMsg{Run: run, Tier: res.Tier, TotalWords: total}) {
		return
	}
	for w := range res.Words() {
		if !send(wordMsg{Run: run, Word: w}) {
			return
		}
	}
}

// waitForEvent reads the next message of run's event channel.
func (s *ExploreScreen) waitForEvent(run int) tea.Cmd {
	if run != s.run || s.events == nil {
		return nil
	}
	events := s.events
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return streamClosedMsg{Run: run}
		}
		return msg
	}
}

func (s *ExploreScreen) handlePhase(msg phaseMsg) (screen.Screen, tea.Cmd) {
	if msg.Run != s.run || s.stopped {
		return s, s.waitForEvent(msg.Run)
	}
	s.phase = msg.Phase
	if msg.Phase == stem.PhaseFallbackCalled {
		s.notice = stem.ShortResponseNotice
	}
	return s, s.waitForEvent(msg.Run)
}

func (s *ExploreScreen) stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.running {
		s.stopped = true
		s.finish()
	}
}

func (s *ExploreScreen) finish() {
	s.running = false
	s.phase = stem.PhaseIdle
	s.generate.Disabled = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *ExploreScreen) resetOutput() {
	s.output.Reset()
	s.notice = ""
	s.errMsg = ""
	s.tier = ""
	s.wordsDone = 0
	s.wordsTotal = 0
	s.stopped = false
}

func (s *ExploreScreen) loadImage() tea.Cmd {
	path := strings.TrimSpace(s.image.Value())
	if path == "" {
		s.imageInfo = nil
		s.imageErr = ""
		return nil
	}
	return func() tea.Msg {
		img, err := upload.Open(path)
		if err != nil {
			return imageLoadedMsg{Err: err}
		}
		return imageLoadedMsg{Info: img.Info}
	}
}

func (s *ExploreScreen) handleImage(msg imageLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.imageInfo = nil
		s.imageErr = fmt.Sprintf("Could not read image: %v", msg.Err)
		s.image.Submit(false)
		return s, nil
	}
	info := msg.Info
	s.imageInfo = &info
	s.imageErr = ""
	s.image.Submit(true)
	return s, nil
}
