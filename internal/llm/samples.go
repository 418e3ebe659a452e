package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// sample is a stored SM025 question in the same shape a model returns.
type sample struct {
	Topic        string   `json:"-"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Tips         string   `json:"tips"`
	WorkingSteps string   `json:"workingSteps"`
	Explanation  string   `json:"explanation"`
}

var samples = []sample{
	{
		Topic:        "Numerical Solution",
		Question:     `Use the Newton-Raphson method with \(x_0 = 2\) to find the first approximation \(x_1\) to the root of \(x^3 - 2x - 5 = 0\).`,
		Options:      []string{`\(2.1\)`, `\(1.9\)`, `\(2.05\)`, `\(2.5\)`},
		CorrectIndex: 0,
		Tips:         `Write \(f(x)\) and \(f'(x)\), then apply \(x_{n+1} = x_n - \frac{f(x_n)}{f'(x_n)}\) once.`,
		WorkingSteps: `\(f(x) = x^3 - 2x - 5\), \(f'(x) = 3x^2 - 2\). \(f(2) = -1\), \(f'(2) = 10\). \[x_1 = 2 - \frac{-1}{10} = 2.1\]`,
		Explanation:  `Subtracting a negative correction moves the estimate up from 2, giving \(x_1 = 2.1\).`,
	},
	{
		Topic:        "Numerical Solution",
		Question:     `Given \(f(x) = e^x - 3x\), which statement shows that \(f(x) = 0\) has a root in the interval \([0, 1]\)?`,
		Options: []string{
			`\(f(0) = 1\) and \(f(1) \approx -0.282\), so the sign changes`,
			`\(f(0) = 0\), so \(x = 0\) is the root`,
			`\(f(0) = 1\) and \(f(1) \approx 0.282\), both positive`,
			`\(f'(x) = 0\) at \(x = 1\)`,
		},
		CorrectIndex: 0,
		Tips:         `Evaluate \(f\) at both ends of the interval and look at the signs.`,
		WorkingSteps: `\(f(0) = e^0 - 0 = 1 > 0\). \(f(1) = e - 3 \approx -0.282 < 0\).`,
		Explanation:  `\(f\) is continuous and changes sign on \([0, 1]\), so a root lies between 0 and 1.`,
	},
	{
		Topic:        "Integration",
		Question:     `Evaluate \[\int_0^1 2x e^{x^2} \, dx\]`,
		Options:      []string{`\(e - 1\)`, `\(e\)`, `\(e + 1\)`, `\(2(e - 1)\)`},
		CorrectIndex: 0,
		Tips:         `Substitute \(u = x^2\).`,
		WorkingSteps: `Let \(u = x^2\), \(du = 2x \, dx\). The limits become 0 and 1. \[\int_0^1 e^u \, du = e - 1\]`,
		Explanation:  `The factor \(2x\) is exactly \(du\), so the integral reduces to \(e^u\) evaluated from 0 to 1.`,
	},
	{
		Topic:        "Integration",
		Question:     `Find \[\int x \ln x \, dx\]`,
		Options: []string{
			`\(\frac{x^2}{2} \ln x - \frac{x^2}{4} + C\)`,
			`\(\frac{x^2}{2} \ln x + \frac{x^2}{4} + C\)`,
			`\(x \ln x - x + C\)`,
			`\(\frac{x^2}{2} \ln x + C\)`,
		},
		CorrectIndex: 0,
		Tips:         `Integrate by parts with \(u = \ln x\).`,
		WorkingSteps: `\(u = \ln x\), \(dv = x \, dx\), so \(du = \frac{1}{x} dx\), \(v = \frac{x^2}{2}\). \[\int x \ln x \, dx = \frac{x^2}{2} \ln x - \int \frac{x}{2} \, dx = \frac{x^2}{2} \ln x - \frac{x^2}{4} + C\]`,
		Explanation:  `Choosing \(u = \ln x\) removes the logarithm after one differentiation.`,
	},
	{
		Topic:        "Vector",
		Question:     `Find the magnitude of \(\mathbf{a} = 2\mathbf{i} - \mathbf{j} + 2\mathbf{k}\).`,
		Options:      []string{`\(3\)`, `\(9\)`, `\(\sqrt{5}\)`, `\(5\)`},
		CorrectIndex: 0,
		Tips:         `\(|\mathbf{a}| = \sqrt{a_1^2 + a_2^2 + a_3^2}\)`,
		WorkingSteps: `\[|\mathbf{a}| = \sqrt{2^2 + (-1)^2 + 2^2} = \sqrt{9} = 3\]`,
		Explanation:  `Square every component, including the negative one, then take the square root.`,
	},
	{
		Topic:        "Vector",
		Question:     `Find \((\mathbf{i} + 2\mathbf{j} - \mathbf{k}) \cdot (3\mathbf{i} - \mathbf{j} + 4\mathbf{k})\).`,
		Options:      []string{`\(-3\)`, `\(3\)`, `\(5\)`, `\(-1\)`},
		CorrectIndex: 0,
		Tips:         `Multiply matching components and add.`,
		WorkingSteps: `\[(1)(3) + (2)(-1) + (-1)(4) = 3 - 2 - 4 = -3\]`,
		Explanation:  `The dot product is the sum of the component products, which is \(-3\).`,
	},
}

// SampleProvider answers from a small bank of stored SM025 questions so the
// app runs without an API key. Question requests must carry a "Topic: X"
// line; explain requests must quote a stored question.
type SampleProvider struct {
	mu   sync.Mutex
	next map[string]int
}

func NewSampleProvider() *SampleProvider {
	return &SampleProvider{next: make(map[string]int)}
}

func (p *SampleProvider) ModelID() string { return "sample" }

func (p *SampleProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var text string
	switch req.Purpose {
	case PurposeExplain:
		s, ok := sampleQuoted(req.Prompt)
		if !ok {
			return nil, &Error{Kind: KindUnavailable, Provider: "sample", Err: errors.New("no stored solution for this question")}
		}
		text = s.WorkingSteps + "\n\n" + s.Explanation
	default:
		topic := promptTopic(req.Prompt)
		s, ok := p.pick(topic)
		if !ok {
			return nil, &Error{Kind: KindUnavailable, Provider: "sample", Err: fmt.Errorf("no stored questions for topic %q", topic)}
		}
		b, err := json.Marshal(s)
		if err != nil {
			return nil, err
		}
		text = string(b)
	}

	usage := Usage{InputTokens: len(req.System+req.Prompt) / 4, OutputTokens: len(text) / 4}
	return finish("sample", req, text, StopEnd, usage, p.ModelID())
}

// pick rotates through the samples for topic.
func (p *SampleProvider) pick(topic string) (sample, bool) {
	var matches []sample
	for _, s := range samples {
		if s.Topic == topic {
			matches = append(matches, s)
		}
	}
	if len(matches) == 0 {
		return sample{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.next[topic] % len(matches)
	p.next[topic]++
	return matches[i], true
}

func promptTopic(prompt string) string {
	for line := range strings.Lines(prompt) {
		if t, ok := strings.CutPrefix(strings.TrimSpace(line), "Topic:"); ok {
			return strings.TrimSpace(t)
		}
	}
	return ""
}

func sampleQuoted(prompt string) (sample, bool) {
	for _, s := range samples {
		if strings.Contains(prompt, s.Question) {
			return s, true
		}
	}
	return sample{}, false
}
