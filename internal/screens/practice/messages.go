package practice

import (
	flow "github.com/abhisek/mathquest/internal/practice"
)

// problemLoadedMsg carries the result of a load request.
type problemLoadedMsg struct {
	Result flow.Result
}

// prefetchDoneMsg is sent when a background prefetch returns.
type prefetchDoneMsg struct{}

// explanationMsg carries a detailed solution for ProblemID.
type explanationMsg struct {
	ProblemID string
	Text      string
	Err       error
}
