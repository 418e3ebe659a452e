package problemgen

import (
	"fmt"
	"strings"
	"sync"
)

// buildDedup formats prior questions for the prompt, respecting the max limit.
// Returns "None" if there are no prior questions.
func buildDedup(priorQuestions []string, max int) string {
	if len(priorQuestions) == 0 {
		return "None"
	}

	// Keep only the most recent N questions.
	if max > 0 && len(priorQuestions) > max {
		priorQuestions = priorQuestions[len(priorQuestions)-max:]
	}

	var b strings.Builder
	for i, q := range priorQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

// history remembers the most recent question texts per topic.
type history struct {
	mu    sync.Mutex
	max   int
	items map[string][]string
}

func newHistory(max int) *history {
	return &history{max: max, items: make(map[string][]string)}
}

func (h *history) recent(topic string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.items[topic]...)
}

func (h *history) add(topic, question string) {
	if h.max <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	list := append(h.items[topic], question)
	if len(list) > h.max {
		list = list[len(list)-h.max:]
	}
	h.items[topic] = list
}
